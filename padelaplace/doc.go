// Package padelaplace estimates the decay rates and amplitudes of a sum of
// exponentials from sampled data with the Pade-Laplace method.
//
// The Laplace transform of y(t) = Σ Aⱼ·exp(−mⱼ·t) is a rational function
// with poles at −mⱼ. Expanding the transform in a Taylor series around a
// probe point p0 and resumming it with a Pade approximant recovers those
// poles from a handful of derivative moments, which makes the method a good
// starting guess for non-linear multi-exponential fits.
//
// Basic usage:
//
//	pairs, err := padelaplace.Estimate(x, y, 2, padelaplace.WithProbePoint(0.3))
//	// pairs = [A1, m1, A2, m2]
package padelaplace
