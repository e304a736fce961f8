package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/philipparndt/armeasure/internal/app"
	"github.com/philipparndt/armeasure/internal/config"
	"github.com/philipparndt/armeasure/internal/logging"
	"github.com/philipparndt/armeasure/version"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "armeasure-preview <scenario>",
	Short: "Desktop preview of the AR tape measure",
	Long: `Opens a window showing a scenario's surfaces and a simulated handheld.
Walk the device around, start tracking and place two points to measure.
The scenario is reloaded when the file changes.`,
	Version: version.GetFullVersion(),
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogPretty)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return app.Run(ctx, app.Options{
			ScenarioPath: args[0],
			Config:       cfg,
			Log:          log,
		})
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "config file (yaml, json or toml)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
