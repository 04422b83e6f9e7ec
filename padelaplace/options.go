package padelaplace

import (
	"fmt"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/internal/options"
)

const (
	// DefaultProbePoint is the expansion point of the Laplace transform.
	DefaultProbePoint = 0.5
	// DefaultImagTolerance is the relative size of an imaginary part below
	// which a root counts as real.
	DefaultImagTolerance = 1e-6
	// extra denominator degrees tried beyond the requested exponential count
	extraTrials = 7
)

// Config holds the estimator settings.
type Config struct {
	ProbePoint    float64
	ImagTolerance float64
	// AbsTolerance is added to the relative imaginary tolerance so roots
	// close to the origin can still be classified as real.
	AbsTolerance float64
}

// Option configures the estimator.
type Option = options.Option[*Config]

func defaultConfig() *Config {
	return &Config{
		ProbePoint:    DefaultProbePoint,
		ImagTolerance: DefaultImagTolerance,
		AbsTolerance:  1e-10,
	}
}

// WithProbePoint sets the point p0 around which the Laplace transform is
// expanded. It should be of the order of the smallest expected decay rate.
func WithProbePoint(p0 float64) Option {
	return options.New(func(c *Config) error {
		if !(p0 > 0) {
			return fmt.Errorf("%w: probe point must be positive, got %g", errs.ErrInvalidDimensions, p0)
		}
		c.ProbePoint = p0

		return nil
	})
}

// WithImagTolerance sets the relative imaginary tolerance of a real root.
func WithImagTolerance(tol float64) Option {
	return options.NoError(func(c *Config) {
		c.ImagTolerance = tol
	})
}
