package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// viperPrefix marks command annotations that bind a flag to a config key.
	viperPrefix = "viper:"
	// skipConfig marks commands that run without reading the config file.
	skipConfig = "skip-config"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	cfg        Config
	configPath string
	logger     logrus.FieldLogger
	runID      string
}

func newRootCmd() *cobra.Command {
	a := &app{v: newViper()}

	root := &cobra.Command{
		Use:   "urfit",
		Short: "Fit resampled lattice correlation functions",
		Long: `urfit fits jackknife and bootstrap ensembles of lattice correlators with
correlated or uncorrelated chi-square minimisation, computes effective masses
and inspects distribution files.

Settings are read from a YAML file (--config), URFIT_* environment variables
and command flags, in increasing order of precedence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "urfit.yaml", "configuration file path")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = a.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		newFitCmd(a),
		newEffmassCmd(a),
		newInspectCmd(a),
		newSynthCmd(a),
		newInitConfigCmd(a),
	)

	return root
}

// setup binds the flags of cmd, loads the configuration and creates the
// run logger.
func (a *app) setup(cmd *cobra.Command) error {
	for key, name := range cmd.Annotations {
		viperKey, ok := strings.CutPrefix(key, viperPrefix)
		if !ok {
			continue
		}
		if err := a.v.BindPFlag(viperKey, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	if _, skip := cmd.Annotations[skipConfig]; skip {
		a.cfg = defaultConfig()
	} else {
		cfg, err := loadConfig(a.v, a.configPath, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	a.runID = uuid.New().String()
	a.logger = setupLogger(a.cfg.Log.Level, cmd.ErrOrStderr()).WithFields(logrus.Fields{
		"run":     a.runID,
		"command": cmd.Name(),
	})
	a.logger.WithField("config", a.v.ConfigFileUsed()).Debug("configuration loaded")

	return nil
}

// bindFlag binds the flag name of cmd to the config key once cmd runs.
func bindFlag(cmd *cobra.Command, key, name string) {
	if cmd.Annotations == nil {
		cmd.Annotations = make(map[string]string)
	}
	cmd.Annotations[viperPrefix+key] = name
}

// report writes v as YAML, or through text when the output format is text.
func (a *app) report(w io.Writer, v any, text func(io.Writer) error) error {
	if a.cfg.Output.Format != "yaml" {
		return text(w)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}

	return enc.Close()
}
