package fit

import (
	"fmt"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/internal/options"
)

// MinimizeConfig holds the Levenberg-Marquardt settings.
type MinimizeConfig struct {
	// MaxIterations bounds the number of accepted and rejected steps.
	MaxIterations int
	// Tolerance is the relative chi-square change that ends the iteration.
	Tolerance float64
	// Damping is the initial Levenberg-Marquardt damping factor.
	Damping float64
}

// MinimizeOption is a functional option for MinimizeConfig.
type MinimizeOption = options.Option[*MinimizeConfig]

func defaultMinimizeConfig() *MinimizeConfig {
	return &MinimizeConfig{
		MaxIterations: 1000,
		Tolerance:     1e-12,
		Damping:       1e-3,
	}
}

// WithMaxIterations sets the iteration limit.
func WithMaxIterations(n int) MinimizeOption {
	return options.New(func(cfg *MinimizeConfig) error {
		if n < 1 {
			return fmt.Errorf("%w: iteration limit %d", errs.ErrInvalidDimensions, n)
		}
		cfg.MaxIterations = n

		return nil
	})
}

// WithTolerance sets the relative chi-square convergence tolerance.
func WithTolerance(tol float64) MinimizeOption {
	return options.New(func(cfg *MinimizeConfig) error {
		if tol <= 0 {
			return fmt.Errorf("%w: tolerance %g", errs.ErrInvalidDimensions, tol)
		}
		cfg.Tolerance = tol

		return nil
	})
}

// WithDamping sets the initial damping factor.
func WithDamping(lambda float64) MinimizeOption {
	return options.NoError(func(cfg *MinimizeConfig) {
		if lambda > 0 {
			cfg.Damping = lambda
		}
	})
}

func newMinimizeConfig(opts ...MinimizeOption) (*MinimizeConfig, error) {
	cfg := defaultMinimizeConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
