package analysis

import (
	"errors"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrShortSeries = errors.New("analysis: series too short")

type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum returns the one-sided spectrum of series sampled at
// sampleRate Hz. The mean is removed first so the DC bin reflects only
// numerical residue.
func PowerSpectrum(series []float64, sampleRate float64) (Spectrum, error) {
	n := len(series)
	if n < 2 {
		return Spectrum{}, ErrShortSeries
	}

	centered := make([]float64, n)
	copy(centered, series)
	floats.AddConst(-stat.Mean(series, nil), centered)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centered)

	spec := Spectrum{
		Freqs: make([]float64, len(coeffs)),
		Power: make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		spec.Freqs[i] = fft.Freq(i) * sampleRate
		a := cmplx.Abs(c) / float64(n)
		spec.Power[i] = a * a
	}
	return spec, nil
}

// DominantFrequency returns the frequency and power of the strongest bin
// above DC.
func DominantFrequency(series []float64, sampleRate float64) (float64, float64, error) {
	spec, err := PowerSpectrum(series, sampleRate)
	if err != nil {
		return 0, 0, err
	}
	if len(spec.Power) < 2 {
		return 0, 0, ErrShortSeries
	}
	i := floats.MaxIdx(spec.Power[1:]) + 1
	return spec.Freqs[i], spec.Power[i], nil
}

type Stats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func Summarize(series []float64) Stats {
	if len(series) == 0 {
		return Stats{}
	}
	s := Stats{Min: floats.Min(series), Max: floats.Max(series)}
	if len(series) == 1 {
		s.Mean = series[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(series, nil)
	return s
}
