package main

import (
	"fmt"
	"io"

	"github.com/philipparndt/armeasure/internal/coordinator"
	"github.com/philipparndt/armeasure/internal/xr/sim"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <scenario>...",
	Short: "Replay scenarios and compare them with their expectations",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0

	for _, path := range args {
		if err := checkFile(cmd, out, path); err != nil {
			failed++
			bad.Fprint(out, "FAIL ")
			fmt.Fprintf(out, "%s: %v\n", path, err)
			continue
		}
		good.Fprint(out, "PASS ")
		fmt.Fprintln(out, path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(args))
	}
	return nil
}

func checkFile(cmd *cobra.Command, out io.Writer, path string) error {
	s, err := sim.LoadScenario(path)
	if err != nil {
		return err
	}
	if s.Expect == nil {
		warn.Fprintf(out, "     %s has no expectation\n", path)
	}

	res, err := coordinator.Replay(cmd.Context(), s, coordinator.Options{Config: cfg, Log: log})
	if err != nil {
		return err
	}
	return res.Check(s.Expect)
}
