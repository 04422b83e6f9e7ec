package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rjhudspith/urfit/errs"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, logs bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "urfit.yaml")

	out, err := execute(t, "init-config", path)
	require.NoError(t, err)
	require.Contains(t, out, path)

	_, err = execute(t, "init-config", path)
	require.ErrorContains(t, err, "already exists")

	_, err = execute(t, "init-config", "--force", path)
	require.NoError(t, err)

	cfg, err := loadConfig(newViper(), path, true)
	require.NoError(t, err)
	def := defaultConfig()
	require.Equal(t, def.Fit.Model, cfg.Fit.Model)
	require.Equal(t, def.Fit.Tmax, cfg.Fit.Tmax)
	require.InDelta(t, def.Fit.Tolerance, cfg.Fit.Tolerance, 0)
	require.Equal(t, def.Effmass, cfg.Effmass)
	require.Equal(t, def.Output, cfg.Output)
	require.Equal(t, def.Log, cfg.Log)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(dir, "fit.yaml")
		content := `
fit:
  model: cosh
  n: 2
  shared: [false, true, false, true]
  weighting: uncorrelated
  priors:
    - index: 1
      value: 0.25
      width: 0.1
output:
  format: yaml
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := loadConfig(newViper(), path, true)
		require.NoError(t, err)
		require.Equal(t, "cosh", cfg.Fit.Model)
		require.Equal(t, 2, cfg.Fit.N)
		require.Equal(t, []bool{false, true, false, true}, cfg.Fit.Shared)
		require.Equal(t, []PriorConfig{{Index: 1, Value: 0.25, Width: 0.1}}, cfg.Fit.Priors)
		require.Equal(t, "yaml", cfg.Output.Format)
		require.Equal(t, 1000, cfg.Fit.MaxIterations)

		fc, err := cfg.fitConfig()
		require.NoError(t, err)
		require.Len(t, fc.Context.Priors, 1)
		require.Len(t, fc.Minimize, 2)
	})

	t.Run("Env", func(t *testing.T) {
		t.Setenv("URFIT_FIT_WEIGHTING", "unweighted")
		t.Setenv("URFIT_FIT_SEED", "42")

		cfg, err := loadConfig(newViper(), filepath.Join(dir, "missing.yaml"), false)
		require.NoError(t, err)
		require.Equal(t, "unweighted", cfg.Fit.Weighting)
		require.Equal(t, uint64(42), cfg.Fit.Seed)
	})

	t.Run("MissingRequired", func(t *testing.T) {
		_, err := loadConfig(newViper(), filepath.Join(dir, "missing.yaml"), true)
		require.Error(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("fit:\n  weighting: heavy\n"), 0o600))

		_, err := loadConfig(newViper(), path, true)
		require.ErrorContains(t, err, "unknown weighting")
	})
}

func TestSynthInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pion.urf")

	_, err := execute(t, "synth", "--nt", "12", "--compression", "zstd", "--little-endian", path)
	require.NoError(t, err)

	out, err := execute(t, "inspect", "--records", "--format", "yaml", path)
	require.NoError(t, err)

	var reps []fileReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &reps))
	require.Len(t, reps, 1)
	require.Equal(t, "little", reps[0].ByteOrder)
	require.Equal(t, "Zstd", reps[0].Compression)
	require.Equal(t, 12, reps[0].Records)
	require.Len(t, reps[0].Entries, 12)
	require.Equal(t, "Jackknife", reps[0].Entries[0].Scheme)
	require.Equal(t, 64, reps[0].Entries[0].Samples)
	require.InDelta(t, 1.0, reps[0].Entries[0].Average, 0.05)

	out, err = execute(t, "inspect", path)
	require.NoError(t, err)
	require.Contains(t, out, "records:     12")

	_, err = execute(t, "inspect", filepath.Join(t.TempDir(), "none.urf"))
	require.ErrorIs(t, err, errs.ErrIOFailure)
}

func TestFitCommand(t *testing.T) {
	dir := t.TempDir()
	ll := filepath.Join(dir, "ll.urf")
	sl := filepath.Join(dir, "sl.urf")

	_, err := execute(t, "synth", "--mass", "0.4", "--amp", "1.5", "--noise", "0.005", "--seed", "3", ll)
	require.NoError(t, err)
	_, err = execute(t, "synth", "--mass", "0.4", "--amp", "2.5", "--noise", "0.005", "--seed", "4", sl)
	require.NoError(t, err)

	out, err := execute(t, "fit",
		"--model", "exp", "--n", "1", "--shared", "false,true",
		"--weighting", "uncorrelated", "--tmin", "2", "--tmax", "12",
		"--format", "yaml", ll, sl)
	require.NoError(t, err)

	var rep fitReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	require.Equal(t, "exp", rep.Model)
	require.Equal(t, 2*11-3, rep.Dof)
	require.Len(t, rep.Params, 3)
	require.InDelta(t, 1.5, rep.Params[0].Average, 0.05)
	require.InDelta(t, 0.4, rep.Params[1].Average, 0.01)
	require.InDelta(t, 2.5, rep.Params[2].Average, 0.08)
	require.NotEmpty(t, rep.RunID)

	out, err = execute(t, "fit", "--tmin", "2", "--tmax", "12", ll)
	require.NoError(t, err)
	require.Contains(t, out, "chi2/dof")
	require.Contains(t, out, "p1")

	t.Run("EnvModel", func(t *testing.T) {
		t.Setenv("URFIT_FIT_MODEL", "bogus")

		_, err := execute(t, "fit", ll)
		require.ErrorIs(t, err, errs.ErrUnknownModel)
	})
}

func TestEffmassCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.urf")
	_, err := execute(t, "synth", "--nt", "10", "--mass", "0.5", "--noise", "0.001", path)
	require.NoError(t, err)

	out, err := execute(t, "effmass", "--format", "yaml", path)
	require.NoError(t, err)

	var reps []effmassReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &reps))
	require.Len(t, reps, 1)
	require.Equal(t, "log", reps[0].Form)
	require.Len(t, reps[0].Masses, 10)
	for _, m := range reps[0].Masses {
		require.InDelta(t, 0.5, m.Average, 0.01)
	}

	out, err = execute(t, "effmass", "--form", "acosh", "--domain", "zero", path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, path))

	_, err = execute(t, "effmass", "--form", "sinh", path)
	require.Error(t, err)
}

func TestSynthesizeErrors(t *testing.T) {
	base := synthOptions{nt: 4, measurements: 8, masses: []float64{0.3}, amps: []float64{1}, scheme: "jackknife"}

	bad := base
	bad.scheme = "delete-two"
	_, err := synthesize(bad)
	require.ErrorIs(t, err, errs.ErrInvalidScheme)

	bad = base
	bad.amps = nil
	_, err = synthesize(bad)
	require.ErrorIs(t, err, errs.ErrInvalidDimensions)

	boot := base
	boot.scheme = "bootstrap"
	boot.nboot = 16
	corr, err := synthesize(boot)
	require.NoError(t, err)
	require.Len(t, corr, 4)
	require.Equal(t, 16, corr[0].Len())
}
