// Package effmass computes effective masses of correlators stored as
// resampled distributions.
package effmass

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/resample"
)

// Form selects the effective-mass definition.
type Form uint8

const (
	// FormLog is log(C(t)/C(t+1)). The last slice uses log(C(t−1)/C(t)).
	FormLog Form = iota
	// FormAcosh is acosh((C(t+1)+C(t−1))/(2C(t))) with periodic neighbours,
	// suited to cosh-like correlators.
	FormAcosh
)

func (f Form) String() string {
	switch f {
	case FormLog:
		return "log"
	case FormAcosh:
		return "acosh"
	default:
		return "unknown"
	}
}

// ParseForm parses a case-insensitive form name.
func ParseForm(name string) (Form, error) {
	switch strings.ToLower(name) {
	case "log", "":
		return FormLog, nil
	case "acosh":
		return FormAcosh, nil
	default:
		return 0, fmt.Errorf("%w: effective mass form %q", errs.ErrUnknownModel, name)
	}
}

// Compute returns the effective mass at every slice of corr. The input is
// not modified.
//
// Parameters:
//   - corr: correlator, one distribution per time slice
//   - form: effective-mass definition
//   - policy: what to do when a ratio leaves the domain of log or acosh
//
// Returns:
//   - []*resample.Distribution: one distribution per slice
//   - error: errs.ErrInvalidDimensions for too few slices, a mismatch error
//     or errs.ErrDomainViolation under resample.DomainAbort
func Compute(corr []*resample.Distribution, form Form, policy resample.DomainPolicy) ([]*resample.Distribution, error) {
	if err := resample.CompatibleAll(corr); err != nil {
		return nil, err
	}

	switch form {
	case FormLog:
		return logMass(corr, policy)
	case FormAcosh:
		return acoshMass(corr, policy)
	default:
		return nil, fmt.Errorf("%w: effective mass form %d", errs.ErrUnknownModel, form)
	}
}

func logMass(corr []*resample.Distribution, policy resample.DomainPolicy) ([]*resample.Distribution, error) {
	n := len(corr)
	if n < 2 {
		return nil, fmt.Errorf("%w: log effective mass needs 2 slices, got %d", errs.ErrInvalidDimensions, n)
	}

	out := make([]*resample.Distribution, n)
	for t := range n {
		num, den := t, t+1
		if t == n-1 {
			num, den = t-1, t
		}

		m, err := resample.Quotient(corr[num], corr[den])
		if err != nil {
			return nil, fmt.Errorf("slice %d: %w", t, err)
		}
		if err := m.LogChecked(policy); err != nil {
			return nil, fmt.Errorf("slice %d: %w", t, err)
		}
		out[t] = m
	}

	return out, nil
}

func acoshMass(corr []*resample.Distribution, policy resample.DomainPolicy) ([]*resample.Distribution, error) {
	n := len(corr)
	if n < 3 {
		return nil, fmt.Errorf("%w: acosh effective mass needs 3 slices, got %d", errs.ErrInvalidDimensions, n)
	}

	out := make([]*resample.Distribution, n)
	for t := range n {
		m, err := resample.Sum(corr[(t+n-1)%n], corr[(t+1)%n])
		if err != nil {
			return nil, fmt.Errorf("slice %d: %w", t, err)
		}
		if err := m.Div(corr[t]); err != nil {
			return nil, fmt.Errorf("slice %d: %w", t, err)
		}
		m.MulConstant(0.5)
		if err := m.AcoshChecked(policy); err != nil {
			return nil, fmt.Errorf("slice %d: %w", t, err)
		}
		out[t] = m
	}

	return out, nil
}

// ComputeAll runs Compute on every correlator in parallel. Each result
// slot is written by one task only.
func ComputeAll(ctx context.Context, corrs [][]*resample.Distribution, form Form, policy resample.DomainPolicy) ([][]*resample.Distribution, error) {
	out := make([][]*resample.Distribution, len(corrs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, corr := range corrs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			m, err := Compute(corr, form, policy)
			if err != nil {
				return fmt.Errorf("correlator %d: %w", i, err)
			}
			out[i] = m

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
