// Package analysis inspects traced readout series.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectrum of a sampled series
//   - [NewPhasePortrait]: pairs two series into a phase-space trajectory
//   - [PoincareSection]: points where one series crosses a threshold
//
// A traced pendulum angle, for example, yields its swing frequency:
//
//	f := analysis.DominantFrequency(theta, 1.0/60)
package analysis
