package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/rjhudspith/urfit"
	"github.com/rjhudspith/urfit/blob"
	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/format"
	"github.com/rjhudspith/urfit/resample"
)

// synthOptions describes a synthetic multi-state correlator.
type synthOptions struct {
	nt           int
	measurements int
	masses       []float64
	amps         []float64
	noise        float64
	scheme       string
	nboot        int
	seed         uint64
	periodic     bool
	littleEndian bool
}

func newSynthCmd(a *app) *cobra.Command {
	opts := synthOptions{}

	cmd := &cobra.Command{
		Use:   "synth FILE",
		Short: "Write a synthetic correlator to a distribution file",
		Long: `Generate Gaussian measurements of a sum of exponentials, resample them and
write the correlator to FILE. Every measurement carries one noise term common
to all time slices and one per slice, so neighbouring slices are correlated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corr, err := synthesize(opts)
			if err != nil {
				return err
			}

			compression, _ := format.ParseCompression(a.cfg.Output.Compression)
			encOpts := []blob.EncoderOption{blob.WithCompression(compression)}
			if opts.littleEndian {
				encOpts = append(encOpts, blob.WithLittleEndian())
			}
			if err := urfit.WriteCorrelator(args[0], corr, encOpts...); err != nil {
				return err
			}

			a.logger.WithField("file", args[0]).
				WithField("slices", len(corr)).
				WithField("compression", compression.String()).
				Info("synthetic correlator written")

			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.nt, "nt", 32, "number of time slices")
	f.IntVar(&opts.measurements, "measurements", 64, "number of measurements per slice")
	f.Float64SliceVar(&opts.masses, "mass", []float64{0.3}, "state masses")
	f.Float64SliceVar(&opts.amps, "amp", []float64{1}, "state amplitudes, one per mass")
	f.Float64Var(&opts.noise, "noise", 0.02, "relative noise of one measurement")
	f.StringVar(&opts.scheme, "scheme", "jackknife", "resampling scheme: raw, jackknife, bootstrap")
	f.IntVar(&opts.nboot, "nboot", 200, "bootstrap resamples")
	f.Uint64Var(&opts.seed, "seed", 1, "random seed")
	f.BoolVar(&opts.periodic, "periodic", false, "add the backward-propagating images of every state")
	f.BoolVar(&opts.littleEndian, "little-endian", false, "write a little-endian file")
	f.String("compression", "", "payload compression: none, zstd, s2, lz4")
	bindFlag(cmd, "output.compression", "compression")

	return cmd
}

// synthesize builds the correlator described by opts.
func synthesize(opts synthOptions) ([]*resample.Distribution, error) {
	scheme, ok := format.ParseScheme(opts.scheme)
	if !ok {
		return nil, fmt.Errorf("%w: scheme %q", errs.ErrInvalidScheme, opts.scheme)
	}
	if len(opts.masses) == 0 || len(opts.masses) != len(opts.amps) {
		return nil, fmt.Errorf("%w: %d masses and %d amplitudes", errs.ErrInvalidDimensions, len(opts.masses), len(opts.amps))
	}
	if opts.nt < 1 || opts.measurements < 2 {
		return nil, fmt.Errorf("%w: %d slices of %d measurements", errs.ErrInvalidDimensions, opts.nt, opts.measurements)
	}

	lt := float64(opts.nt)
	exact := make([]float64, opts.nt)
	for t := range exact {
		for k, m := range opts.masses {
			exact[t] += opts.amps[k] * math.Exp(-m*float64(t))
			if opts.periodic {
				exact[t] += opts.amps[k] * math.Exp(-m*(lt-float64(t)))
			}
		}
	}

	rng := rand.New(rand.NewPCG(opts.seed, 0))
	raw := make([][]float64, opts.nt)
	for t := range raw {
		raw[t] = make([]float64, opts.measurements)
	}
	for c := range opts.measurements {
		common := rng.NormFloat64()
		for t := range raw {
			raw[t][c] = exact[t] * (1 + opts.noise*(common+0.5*rng.NormFloat64()))
		}
	}

	corr := make([]*resample.Distribution, opts.nt)
	for t := range corr {
		// identical bootstrap draws on every slice keep the slices correlated
		boot := rand.New(rand.NewPCG(opts.seed, 1))

		d, err := resample.Resample(raw[t], scheme, opts.nboot, boot)
		if err != nil {
			return nil, fmt.Errorf("slice %d: %w", t, err)
		}
		corr[t] = d
	}

	return corr, nil
}
