package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"foxie/internal/config"
	"foxie/internal/logging"
)

var (
	logLevel string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "foxie",
	Short:         "Foxie - AI scaffolding for Go CRUD services",
	Long:          `Foxie generates gin CRUD features backed by SQL or MongoDB, in one shot or through a plan/reason/act agent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		log, err = logging.New(level, true)
		return err
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func Execute() error {
	return rootCmd.Execute()
}
