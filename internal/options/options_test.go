package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type solverConfig struct {
	MaxIter   int
	Tolerance float64
	Verbose   bool
}

var errBadIter = errors.New("max iterations must be positive")

func withMaxIter(n int) Option[*solverConfig] {
	return New(func(c *solverConfig) error {
		if n <= 0 {
			return errBadIter
		}
		c.MaxIter = n

		return nil
	})
}

func withTolerance(tol float64) Option[*solverConfig] {
	return NoError(func(c *solverConfig) {
		c.Tolerance = tol
	})
}

func withVerbose() Option[*solverConfig] {
	return NoError(func(c *solverConfig) {
		c.Verbose = true
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &solverConfig{MaxIter: 100, Tolerance: 1e-8}
		err := Apply(cfg, withMaxIter(10), withTolerance(1e-10), withMaxIter(20))
		require.NoError(t, err)
		require.Equal(t, 20, cfg.MaxIter)
		require.Equal(t, 1e-10, cfg.Tolerance)
		require.False(t, cfg.Verbose)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &solverConfig{MaxIter: 100}
		err := Apply(cfg, withMaxIter(0), withVerbose())
		require.ErrorIs(t, err, errBadIter)
		require.Equal(t, 100, cfg.MaxIter)
		require.False(t, cfg.Verbose)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &solverConfig{MaxIter: 5}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 5, cfg.MaxIter)
	})

	t.Run("nil option skipped", func(t *testing.T) {
		cfg := &solverConfig{}
		require.NoError(t, Apply(cfg, nil, withVerbose()))
		require.True(t, cfg.Verbose)
	})
}
