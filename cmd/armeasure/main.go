package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/armeasure/internal/config"
	"github.com/philipparndt/armeasure/internal/logging"
	"github.com/philipparndt/armeasure/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	cfg config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "armeasure",
	Short: "Replay and check AR tape-measure sessions without a device",
	Long: `armeasure drives the hit-test and two-point measuring core against a
simulated tracking device. Scenarios describe the detected surfaces, the
viewer pose per frame and the user's start/confirm/reset/undo actions.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log = logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
