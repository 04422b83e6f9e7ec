// Package resample provides the resampled distribution type used throughout
// urfit together with its error-propagating arithmetic.
//
// A Distribution carries an ensemble of samples produced by one of three
// schemes (raw measurements, jackknife or bootstrap), a central value and
// the derived symmetric and asymmetric errors. Every operation that changes
// the samples or the average recomputes the errors, so a Distribution never
// carries stale statistics.
//
// # Arithmetic
//
// Binary operators mutate their receiver and require both operands to share
// sample count and scheme:
//
//	if err := a.Add(b); err != nil {
//		// errors.Is(err, errs.ErrDistributionMismatch)
//	}
//
// Transforms with a restricted domain come in two flavours. Log, Acosh and
// Atanh apply unconditionally and leave validation to the caller, while
// LogChecked, AcoshChecked and AtanhChecked take an explicit DomainPolicy
// naming what happens to out-of-domain input.
//
// # Construction
//
// Raw, Jackknife and Bootstrap build distributions from plain measurements.
// Bootstrap draws from a caller-owned *rand.Rand so results are reproducible
// from a seed.
package resample
