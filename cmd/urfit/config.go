package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rjhudspith/urfit"
	"github.com/rjhudspith/urfit/effmass"
	"github.com/rjhudspith/urfit/fit"
	"github.com/rjhudspith/urfit/format"
	"github.com/rjhudspith/urfit/resample"
)

const envPrefix = "URFIT"

// Config is the YAML configuration of the CLI.
type Config struct {
	Fit     FitConfig     `mapstructure:"fit" yaml:"fit"`
	Effmass EffmassConfig `mapstructure:"effmass" yaml:"effmass"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type FitConfig struct {
	Model         string        `mapstructure:"model" yaml:"model"`
	N             int           `mapstructure:"n" yaml:"n"`
	Shared        []bool        `mapstructure:"shared" yaml:"shared,flow"`
	Weighting     string        `mapstructure:"weighting" yaml:"weighting"`
	Tmin          int           `mapstructure:"tmin" yaml:"tmin"`
	Tmax          int           `mapstructure:"tmax" yaml:"tmax"`
	LT            float64       `mapstructure:"lt" yaml:"lt"`
	Seed          uint64        `mapstructure:"seed" yaml:"seed"`
	ProbePoint    float64       `mapstructure:"probe_point" yaml:"probe_point"`
	Jitter        float64       `mapstructure:"jitter" yaml:"jitter"`
	Reference     float64       `mapstructure:"reference" yaml:"reference"`
	MaxIterations int           `mapstructure:"max_iterations" yaml:"max_iterations"`
	Tolerance     float64       `mapstructure:"tolerance" yaml:"tolerance"`
	Priors        []PriorConfig `mapstructure:"priors" yaml:"priors"`
}

// PriorConfig mirrors fit.Prior.
type PriorConfig struct {
	Index int     `mapstructure:"index" yaml:"index"`
	Value float64 `mapstructure:"value" yaml:"value"`
	Width float64 `mapstructure:"width" yaml:"width"`
}

type EffmassConfig struct {
	Form   string `mapstructure:"form" yaml:"form"`
	Domain string `mapstructure:"domain" yaml:"domain"`
}

type OutputConfig struct {
	// Format is "text" or "yaml".
	Format string `mapstructure:"format" yaml:"format"`
	// Compression is the codec of files written by synth.
	Compression string `mapstructure:"compression" yaml:"compression"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

func defaultConfig() Config {
	return Config{
		Fit: FitConfig{
			Model:         "exp",
			N:             1,
			Weighting:     "correlated",
			Tmin:          1,
			Tmax:          -1,
			ProbePoint:    0.5,
			MaxIterations: 1000,
			Tolerance:     1e-12,
		},
		Effmass: EffmassConfig{
			Form:   "log",
			Domain: "abort",
		},
		Output: OutputConfig{
			Format:      "text",
			Compression: "none",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// setDefaults registers every key so that URFIT_* variables reach Unmarshal.
func setDefaults(v *viper.Viper) {
	def := defaultConfig()

	v.SetDefault("fit.model", def.Fit.Model)
	v.SetDefault("fit.n", def.Fit.N)
	v.SetDefault("fit.shared", def.Fit.Shared)
	v.SetDefault("fit.weighting", def.Fit.Weighting)
	v.SetDefault("fit.tmin", def.Fit.Tmin)
	v.SetDefault("fit.tmax", def.Fit.Tmax)
	v.SetDefault("fit.lt", def.Fit.LT)
	v.SetDefault("fit.seed", def.Fit.Seed)
	v.SetDefault("fit.probe_point", def.Fit.ProbePoint)
	v.SetDefault("fit.jitter", def.Fit.Jitter)
	v.SetDefault("fit.reference", def.Fit.Reference)
	v.SetDefault("fit.max_iterations", def.Fit.MaxIterations)
	v.SetDefault("fit.tolerance", def.Fit.Tolerance)
	v.SetDefault("fit.priors", def.Fit.Priors)

	v.SetDefault("effmass.form", def.Effmass.Form)
	v.SetDefault("effmass.domain", def.Effmass.Domain)

	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("output.compression", def.Output.Compression)

	v.SetDefault("log.level", def.Log.Level)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// loadConfig reads the YAML file at path into v and decodes the merged
// settings. A missing file is only an error when required is set.
func loadConfig(v *viper.Viper, path string, required bool) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if required || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := fit.ModelTypeFromString(c.Fit.Model); err != nil {
		return err
	}
	if _, ok := format.ParseWeighting(c.Fit.Weighting); !ok {
		return fmt.Errorf("unknown weighting %q", c.Fit.Weighting)
	}
	if c.Fit.N < 0 {
		return fmt.Errorf("n cannot be negative")
	}
	if c.Fit.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be positive")
	}
	if c.Fit.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive")
	}
	if _, err := effmass.ParseForm(c.Effmass.Form); err != nil {
		return err
	}
	if _, ok := resample.ParseDomainPolicy(c.Effmass.Domain); !ok {
		return fmt.Errorf("unknown domain policy %q", c.Effmass.Domain)
	}
	if _, ok := format.ParseCompression(c.Output.Compression); !ok {
		return fmt.Errorf("unknown compression %q", c.Output.Compression)
	}
	switch c.Output.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}

	return nil
}

// fitConfig converts the validated fit section for urfit.Fit.
func (c *Config) fitConfig() (urfit.FitConfig, error) {
	mt, err := fit.ModelTypeFromString(c.Fit.Model)
	if err != nil {
		return urfit.FitConfig{}, err
	}
	w, _ := format.ParseWeighting(c.Fit.Weighting)

	ctx := fit.NewContext(c.Fit.Seed)
	ctx.ProbePoint = c.Fit.ProbePoint
	ctx.Jitter = c.Fit.Jitter
	ctx.ReferenceMomentum = c.Fit.Reference
	for _, p := range c.Fit.Priors {
		ctx.Priors = append(ctx.Priors, fit.Prior{Index: p.Index, Value: p.Value, Width: p.Width})
	}

	return urfit.FitConfig{
		Model:     mt,
		N:         c.Fit.N,
		Shared:    c.Fit.Shared,
		Weighting: w,
		Window:    urfit.Window{Tmin: c.Fit.Tmin, Tmax: c.Fit.Tmax},
		LT:        c.Fit.LT,
		Context:   ctx,
		Minimize: []fit.MinimizeOption{
			fit.WithMaxIterations(c.Fit.MaxIterations),
			fit.WithTolerance(c.Fit.Tolerance),
		},
	}, nil
}

// saveConfig writes cfg as YAML with a comment header.
func saveConfig(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	header := "# urfit configuration\n# Every key can be overridden by a " + envPrefix + "_<SECTION>_<KEY> environment variable.\n\n"

	return os.WriteFile(path, append([]byte(header), data...), 0o644) //nolint: gosec
}
