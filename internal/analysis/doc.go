// Package analysis characterizes telemetry series recorded from runs.
//
//   - [PowerSpectrum]: one-sided power spectrum of a uniformly sampled series
//   - [DominantFrequency]: strongest non-DC frequency of a series
//   - [Summarize]: mean, spread and range of a series
//
// # Shaken Frames
//
// Under a sinusoidally shaken viewport the kinetic energy of the population
// oscillates with the shaking. The dominant frequency of the energy series
// recovers it:
//
//	energy, _ := result.Series("kinetic_energy")
//	f, _ := analysis.DominantFrequency(energy, 1/cfg.Run.Dt)
package analysis
