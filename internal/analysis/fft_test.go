package analysis

import (
	"errors"
	"math"
	"testing"
)

func sine(freq, rate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 5 + math.Sin(2*math.Pi*freq*float64(i)/rate)
	}
	return out
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		rate float64
		n    int
	}{
		{"power of two", 2, 64, 256},
		{"odd length", 3, 60, 300},
		{"near nyquist", 25, 60, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, p, err := DominantFrequency(sine(tt.freq, tt.rate, tt.n), tt.rate)
			if err != nil {
				t.Fatal(err)
			}
			resolution := tt.rate / float64(tt.n)
			if math.Abs(f-tt.freq) > resolution {
				t.Errorf("expected %f Hz, got %f", tt.freq, f)
			}
			if p <= 0 {
				t.Errorf("expected positive power, got %f", p)
			}
		})
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	spec, err := PowerSpectrum([]float64{3, 3, 3, 3, 3, 3, 3, 3}, 8)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range spec.Power {
		if p > 1e-20 {
			t.Errorf("bin %d: expected no power for a constant series, got %g", i, p)
		}
	}
	if spec.Freqs[len(spec.Freqs)-1] != 4 {
		t.Errorf("expected last bin at nyquist 4 Hz, got %f", spec.Freqs[len(spec.Freqs)-1])
	}
}

func TestShortSeries(t *testing.T) {
	if _, err := PowerSpectrum([]float64{1}, 1); !errors.Is(err, ErrShortSeries) {
		t.Errorf("expected ErrShortSeries, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4})
	if s.Mean != 2.5 || s.Min != 1 || s.Max != 4 {
		t.Errorf("unexpected stats %+v", s)
	}
	if math.Abs(s.StdDev-math.Sqrt(5.0/3)) > 1e-12 {
		t.Errorf("unexpected std %f", s.StdDev)
	}
	if (Summarize(nil) != Stats{}) {
		t.Error("empty series should summarize to zero")
	}
}
