package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/philipparndt/armeasure/internal/coordinator"
	"github.com/philipparndt/armeasure/internal/xr/sim"
	"github.com/philipparndt/armeasure/pkg/watcher"
	"github.com/spf13/cobra"
)

var (
	watchScenario bool
	showFrames    bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario>",
	Short: "Replay a scenario and print the measurement",
	Long: `Replay a scenario frame by frame. With --watch the scenario is replayed
again whenever the file changes, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVarP(&watchScenario, "watch", "w", false, "replay again when the scenario changes")
	replayCmd.Flags().BoolVar(&showFrames, "frames", false, "print scene changes per frame")
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if err := replayFile(ctx, out, args[0]); err != nil && !watchScenario {
		return err
	}
	if !watchScenario {
		return nil
	}

	fw, err := watcher.NewFileWatcher(cfg.WatchDebounce, log)
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Watch([]string{args[0]}, func(path string) {
		if err := replayFile(ctx, out, path); err != nil {
			bad.Fprintf(out, "%v\n", err)
		}
	}); err != nil {
		return err
	}

	warn.Fprintf(out, "watching %s, press Ctrl+C to stop\n", args[0])
	fw.Run(ctx)
	return nil
}

func replayFile(ctx context.Context, w io.Writer, path string) error {
	s, err := sim.LoadScenario(path)
	if err != nil {
		return err
	}

	heading.Fprintf(w, "\n=== %s ===\n", scenarioTitle(s, path))

	opts := coordinator.Options{
		Readout: readoutPrinter(w),
		Config:  cfg,
		Log:     log,
	}
	if showFrames {
		opts.Renderer = &textRenderer{w: w}
	}

	res, err := coordinator.Replay(ctx, s, opts)
	if err != nil {
		return err
	}
	printResult(w, res)

	if err := res.Check(s.Expect); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func scenarioTitle(s *sim.Scenario, path string) string {
	if s.Name != "" {
		return s.Name
	}
	return path
}
