package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rjhudspith/urfit"
	"github.com/rjhudspith/urfit/resample"
)

type paramReport struct {
	Index   int     `yaml:"index"`
	Average float64 `yaml:"average"`
	Err     float64 `yaml:"err"`
	ErrLo   float64 `yaml:"err_lo"`
	ErrHi   float64 `yaml:"err_hi"`
}

type fitReport struct {
	RunID        string        `yaml:"run_id"`
	Files        []string      `yaml:"files"`
	Model        string        `yaml:"model"`
	N            int           `yaml:"n"`
	Weighting    string        `yaml:"weighting"`
	Tmin         int           `yaml:"tmin"`
	Tmax         int           `yaml:"tmax"`
	ChiSq        float64       `yaml:"chisq"`
	Dof          int           `yaml:"dof"`
	ReducedChiSq float64       `yaml:"reduced_chisq"`
	Iterations   int           `yaml:"iterations"`
	Params       []paramReport `yaml:"params"`
}

func newParamReports(params []*resample.Distribution) []paramReport {
	out := make([]paramReport, len(params))
	for i, p := range params {
		out[i] = paramReport{Index: i, Average: p.Average, Err: p.Err, ErrLo: p.ErrLo, ErrHi: p.ErrHi}
	}

	return out
}

func newFitCmd(a *app) *cobra.Command {
	var shared []bool

	cmd := &cobra.Command{
		Use:   "fit FILE...",
		Short: "Fit one correlator per file simultaneously",
		Long: `Fit the correlators stored in the given distribution files with one model.
Each file is one sub-experiment; --shared marks the model parameters that are
common to all of them.

Logical parameters are numbered file by file: the parameters of the first
file, then the unshared parameters of each following file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("shared") {
				a.cfg.Fit.Shared = shared
			}

			return a.runFit(cmd, args)
		},
	}

	f := cmd.Flags()
	f.String("model", "", "model: exp, expconst, cosh, poly, pole, ratio")
	f.Int("n", 0, "number of states, or polynomial degree")
	f.String("weighting", "", "weighting: unweighted, uncorrelated, correlated")
	f.Int("tmin", 0, "first time slice of the fit window")
	f.Int("tmax", 0, "last time slice of the fit window, -1 for the last")
	f.Float64("lt", 0, "time extent of periodic models, 0 for the correlator length")
	f.Uint64("seed", 0, "seed of the guess jitter")
	f.String("format", "", "output format: text, yaml")
	f.BoolSliceVar(&shared, "shared", nil, "shared flag per model parameter, e.g. false,true")

	bindFlag(cmd, "fit.model", "model")
	bindFlag(cmd, "fit.n", "n")
	bindFlag(cmd, "fit.weighting", "weighting")
	bindFlag(cmd, "fit.tmin", "tmin")
	bindFlag(cmd, "fit.tmax", "tmax")
	bindFlag(cmd, "fit.lt", "lt")
	bindFlag(cmd, "fit.seed", "seed")
	bindFlag(cmd, "output.format", "format")

	return cmd
}

func (a *app) runFit(cmd *cobra.Command, paths []string) error {
	fc, err := a.cfg.fitConfig()
	if err != nil {
		return err
	}
	fc.Context.Logger = a.logger

	log := a.logger.WithFields(logrus.Fields{
		"model": fc.Model.String(),
		"files": len(paths),
	})
	log.Info("fitting")

	res, err := urfit.FitFiles(cmd.Context(), paths, fc)
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	log.WithFields(logrus.Fields{
		"chisq": res.ChiSq.Average,
		"dof":   res.Dof,
	}).Info("fit done")

	rep := fitReport{
		RunID:        a.runID,
		Files:        paths,
		Model:        fc.Model.String(),
		N:            fc.N,
		Weighting:    fc.Weighting.String(),
		Tmin:         fc.Window.Tmin,
		Tmax:         fc.Window.Tmax,
		ChiSq:        res.ChiSq.Average,
		Dof:          res.Dof,
		ReducedChiSq: res.ReducedChiSq(),
		Iterations:   res.Iterations,
		Params:       newParamReports(res.Params),
	}

	return a.report(cmd.OutOrStdout(), rep, func(w io.Writer) error {
		return writeFitText(w, rep)
	})
}

func writeFitText(w io.Writer, rep fitReport) error {
	fmt.Fprintf(w, "model %s (n=%d), %s, window [%d, %d]\n", rep.Model, rep.N, rep.Weighting, rep.Tmin, rep.Tmax)
	fmt.Fprintf(w, "chi2/dof = %.6g/%d = %.4f (%d iterations)\n", rep.ChiSq, rep.Dof, rep.ReducedChiSq, rep.Iterations)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "param\taverage\terr\terr_lo\terr_hi")
	for _, p := range rep.Params {
		fmt.Fprintf(tw, "p%d\t%.10g\t%.4g\t%.10g\t%.10g\n", p.Index, p.Average, p.Err, p.ErrLo, p.ErrHi)
	}

	return tw.Flush()
}
