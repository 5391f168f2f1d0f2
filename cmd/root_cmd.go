// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/parmahealth/parma/cmd/config"
	"github.com/parmahealth/parma/internal/log/zerolog"
	loglib "github.com/parmahealth/parma/pkg/log"
	"github.com/parmahealth/parma/pkg/otel"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Prepare() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "parma",
		Short:        "Rule driven anonymization of tabular health data",
		SilenceUsage: true,
		Version:      otel.BuildVersion(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			return nil
		},
	}

	viper.AutomaticEnv()

	rootCmd.PersistentFlags().StringP("config", "c", "", ".env or .yaml config file to use with parma if any")
	rootCmd.PersistentFlags().String("log-level", "", "log level for the application. One of trace, debug, info, warn, error, fatal, panic. Defaults to info")
	rootFlagBinding(rootCmd)

	validateCmd := newValidateCmd()
	validateCmd.AddCommand(newValidateRulesCmd())

	rootCmd.AddCommand(newAnonymizeCmd())
	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(validateCmd)
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	return Prepare().Execute()
}

func rootFlagBinding(cmd *cobra.Command) {
	viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("PARMA_LOG_LEVEL", cmd.PersistentFlags().Lookup("log-level"))
}

// withSignalWatcher cancels the context given to fn when the process is
// interrupted.
func withSignalWatcher(fn func(ctx context.Context, cmd *cobra.Command) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(),
			syscall.SIGHUP,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGQUIT)
		defer stop()
		return fn(ctx, cmd)
	}
}

func newLogger() loglib.Logger {
	logger := zerolog.NewLogger(&zerolog.Config{
		LogLevel: config.LogLevel(),
		Format:   config.LogFormat(),
		Out:      os.Stderr,
	})
	zerolog.SetGlobalLogger(logger)
	return zerolog.NewStdLogger(logger)
}

func newInstrumentationProvider(ctx context.Context) (otel.InstrumentationProvider, error) {
	cfg, err := config.ParseInstrumentationConfig()
	if err != nil {
		return nil, fmt.Errorf("parsing instrumentation config: %w", err)
	}

	p, err := otel.NewInstrumentationProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialising instrumentation provider: %w", err)
	}
	return p, nil
}
