package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rjhudspith/urfit/blob"
	"github.com/rjhudspith/urfit/endian"
	"github.com/rjhudspith/urfit/errs"
)

type recordReport struct {
	Index   int     `yaml:"index"`
	Scheme  string  `yaml:"scheme"`
	Samples int     `yaml:"samples"`
	Average float64 `yaml:"average"`
	Err     float64 `yaml:"err"`
}

type fileReport struct {
	File        string         `yaml:"file"`
	ByteOrder   string         `yaml:"byte_order"`
	Compression string         `yaml:"compression"`
	Records     int            `yaml:"records"`
	RawBytes    int64          `yaml:"raw_bytes"`
	StoredBytes int64          `yaml:"stored_bytes"`
	Savings     float64        `yaml:"space_savings_percent"`
	Checksum    string         `yaml:"checksum"`
	Entries     []recordReport `yaml:"entries,omitempty"`
}

func newInspectCmd(a *app) *cobra.Command {
	var records bool

	cmd := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Show the header and records of distribution files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reps := make([]fileReport, 0, len(args))
			for _, path := range args {
				rep, err := inspectFile(path, records)
				if err != nil {
					return err
				}
				reps = append(reps, rep)
			}

			return a.report(cmd.OutOrStdout(), reps, func(w io.Writer) error {
				return writeInspectText(w, reps)
			})
		},
	}

	cmd.Flags().BoolVar(&records, "records", false, "list every record")
	cmd.Flags().String("format", "", "output format: text, yaml")
	bindFlag(cmd, "output.format", "format")

	return cmd
}

func inspectFile(path string, records bool) (fileReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileReport{}, fmt.Errorf("%w: %w", errs.ErrIOFailure, err)
	}

	dec, err := blob.NewDecoder(data)
	if err != nil {
		return fileReport{}, fmt.Errorf("inspect %s: %w", path, err)
	}

	stats := dec.Stats()
	rep := fileReport{
		File:        path,
		ByteOrder:   endian.Name(dec.Engine()),
		Compression: stats.Algorithm.String(),
		Records:     dec.Len(),
		RawBytes:    stats.OriginalSize,
		StoredBytes: stats.CompressedSize,
		Savings:     stats.SpaceSavings(),
		Checksum:    fmt.Sprintf("%016x", dec.Checksum()),
	}
	if !records {
		return rep, nil
	}

	i := 0
	for d, err := range dec.All() {
		if err != nil {
			return fileReport{}, fmt.Errorf("inspect %s: record %d: %w", path, i, err)
		}
		rep.Entries = append(rep.Entries, recordReport{
			Index:   i,
			Scheme:  d.Scheme.String(),
			Samples: d.Len(),
			Average: d.Average,
			Err:     d.Err,
		})
		i++
	}

	return rep, nil
}

func writeInspectText(w io.Writer, reps []fileReport) error {
	for _, rep := range reps {
		fmt.Fprintf(w, "%s\n", rep.File)
		fmt.Fprintf(w, "  byte order:  %s\n", rep.ByteOrder)
		fmt.Fprintf(w, "  compression: %s (%d -> %d bytes, %.1f%% saved)\n", rep.Compression, rep.RawBytes, rep.StoredBytes, rep.Savings)
		fmt.Fprintf(w, "  records:     %d\n", rep.Records)
		fmt.Fprintf(w, "  checksum:    %s\n", rep.Checksum)
		if len(rep.Entries) == 0 {
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  #\tscheme\tsamples\taverage\terr")
		for _, e := range rep.Entries {
			fmt.Fprintf(tw, "  %d\t%s\t%d\t%.10g\t%.4g\n", e.Index, e.Scheme, e.Samples, e.Average, e.Err)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return nil
}
