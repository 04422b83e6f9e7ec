package fit

import (
	"io"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// Prior is an informative prior on one logical parameter. A positive Width
// adds ((p−Value)/Width)² to the chi-square; guesses always start from Value.
type Prior struct {
	Index int
	Value float64
	Width float64
}

// Context carries the state shared by the guess and evaluation routines of
// one fit run.
type Context struct {
	// RNG drives guess jitter. It must not be shared between goroutines.
	RNG *rand.Rand
	// Priors overwrite the heuristic guesses of their parameters.
	Priors []Prior
	// ReferenceMomentum is the expansion point of the polynomial model.
	ReferenceMomentum float64
	// ProbePoint is the Pade-Laplace expansion point used by exponential guesses.
	ProbePoint float64
	// Jitter multiplies every guessed parameter by 1+Jitter·N(0,1) when positive.
	Jitter float64
	Logger logrus.FieldLogger
}

// NewContext returns a context seeded with seed and a discarding logger.
func NewContext(seed uint64) *Context {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctx := &Context{
		Logger:     logger,
		ProbePoint: 0.5,
	}
	ctx.Reseed(seed)

	return ctx
}

// Reseed resets the random number generator.
func (c *Context) Reseed(seed uint64) {
	c.RNG = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (c *Context) logger() logrus.FieldLogger {
	if c == nil || c.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)

		return l
	}

	return c.Logger
}

// applyPriors overwrites guessed values with prior values.
func (c *Context) applyPriors(global []float64) {
	for _, p := range c.Priors {
		if p.Index >= 0 && p.Index < len(global) {
			global[p.Index] = p.Value
		}
	}
}
