package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rjhudspith/urfit"
	"github.com/rjhudspith/urfit/effmass"
	"github.com/rjhudspith/urfit/resample"
)

type sliceReport struct {
	T       int     `yaml:"t"`
	Average float64 `yaml:"average"`
	Err     float64 `yaml:"err"`
}

type effmassReport struct {
	File   string        `yaml:"file"`
	Form   string        `yaml:"form"`
	Masses []sliceReport `yaml:"masses"`
}

func newEffmassCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "effmass FILE...",
		Short: "Compute the effective mass of each correlator",
		Long: `Compute the effective mass of the correlator stored in each file.

The log form uses log(C(t)/C(t+1)) and the backward ratio on the last slice.
The acosh form uses acosh((C(t+1)+C(t-1))/(2C(t))) with periodic neighbours.
With --domain zero, slices outside the domain of log or acosh are reported
as zero instead of failing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEffmass(cmd, args)
		},
	}

	f := cmd.Flags()
	f.String("form", "", "effective mass form: log, acosh")
	f.String("domain", "", "domain policy: abort, zero")
	f.String("format", "", "output format: text, yaml")

	bindFlag(cmd, "effmass.form", "form")
	bindFlag(cmd, "effmass.domain", "domain")
	bindFlag(cmd, "output.format", "format")

	return cmd
}

func (a *app) runEffmass(cmd *cobra.Command, paths []string) error {
	form, err := effmass.ParseForm(a.cfg.Effmass.Form)
	if err != nil {
		return err
	}
	policy, _ := resample.ParseDomainPolicy(a.cfg.Effmass.Domain)

	a.logger.WithField("form", form.String()).WithField("domain", policy.String()).Debug("computing effective masses")

	masses, err := urfit.EffectiveMasses(cmd.Context(), paths, form, policy)
	if err != nil {
		return fmt.Errorf("effmass: %w", err)
	}

	reps := make([]effmassReport, len(paths))
	for i, path := range paths {
		reps[i] = effmassReport{File: path, Form: form.String()}
		for t, m := range masses[i] {
			reps[i].Masses = append(reps[i].Masses, sliceReport{T: t, Average: m.Average, Err: m.Err})
		}
	}

	return a.report(cmd.OutOrStdout(), reps, func(w io.Writer) error {
		return writeEffmassText(w, reps)
	})
}

func writeEffmassText(w io.Writer, reps []effmassReport) error {
	for _, rep := range reps {
		fmt.Fprintf(w, "%s (%s)\n", rep.File, rep.Form)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "t\taverage\terr")
		for _, s := range rep.Masses {
			fmt.Fprintf(tw, "%d\t%.10g\t%.4g\n", s.T, s.Average, s.Err)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return nil
}
