package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagConfig    = "config"
	flagModel     = "model"
	flagOutput    = "output"
	flagLogLevel  = "log-level"
	flagOrder     = "order"
	flagMaxStates = "max-states"
	flagMaxDepth  = "max-depth"
	flagWorkers   = "workers"
	flagDeadlock  = "deadlock"
	flagSeed      = "seed"
	flagLength    = "length"
	flagReplay    = "replay"
)

// Settings are read from flags, USURE_ environment variables and usure.yaml, in that order of precedence
func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "usure",
		Short:         "Explicit-state safety checker for the bundled protocol models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cmd)
		},
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "config file (default is ./usure.yaml)")
	rootCmd.PersistentFlags().StringP(flagModel, "m", "retry", "model to check: "+strings.Join(modelNames(), ", "))
	rootCmd.PersistentFlags().String(flagLogLevel, "info", "log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(newCheckCmd(v), newSimulateCmd(v), newGraphCmd(v))
	return rootCmd
}

func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix("usure")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "could not bind flags")
	}

	if file := v.GetString(flagConfig); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("usure")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "could not read config file")
		}
	}
	return nil
}

// A console logger writing to the command's error stream
func newLogger(v *viper.Viper, cmd *cobra.Command) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(v.GetString(flagLogLevel))
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "invalid %v", flagLogLevel)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}
