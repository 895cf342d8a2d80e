// Package analysis inspects recorded runs.
//
//   - [PowerSpectrum] and [DominantPeriod]: orbital period from a sampled series
//   - [RelativeCoordinate]: one coordinate of a body relative to the primary
//   - [Divergence]: growth rate of a small perturbation between two runs
//
// A positive divergence rate that stays positive as the run gets longer
// indicates chaotic motion:
//
//	rate, err := analysis.Divergence(cfg, 2, 1e-6)
package analysis
