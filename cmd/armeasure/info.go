package main

import (
	"fmt"
	"sort"

	"github.com/philipparndt/armeasure/internal/xr/sim"
	"github.com/philipparndt/armeasure/pkg/analysis"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <scenario>",
	Short: "Describe a scenario's device and surfaces",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	s, err := sim.LoadScenario(args[0])
	if err != nil {
		return err
	}
	env, err := s.Environment()
	if err != nil {
		return err
	}
	survey := analysis.SurveyEnvironment(env)

	heading.Fprintln(out, "Scenario")
	if s.Name != "" {
		fmt.Fprintf(out, "  Name: %s\n", s.Name)
	}
	fmt.Fprintf(out, "  File: %s\n", args[0])
	fmt.Fprintf(out, "  Frames: %d\n", len(s.Frames))
	if s.Expect != nil && s.Expect.Readout != "" {
		fmt.Fprintf(out, "  Expected readout: %s\n", s.Expect.Readout)
	}

	heading.Fprintln(out, "\nDevice")
	if s.IsSupported() {
		good.Fprintln(out, "  AR supported")
	} else {
		warn.Fprintln(out, "  AR not supported")
	}
	var features []string
	for f := range s.AdvertisedFeatures() {
		features = append(features, string(f))
	}
	sort.Strings(features)
	fmt.Fprintf(out, "  Features: %v\n", features)
	if s.FailSession {
		warn.Fprintln(out, "  Session start fails")
	}
	if s.FailAcquisitions > 0 {
		warn.Fprintf(out, "  First %d hit-test acquisitions fail\n", s.FailAcquisitions)
	}

	heading.Fprintln(out, "\nSurfaces")
	fmt.Fprintf(out, "  Planes: %d\n", len(s.Planes))
	if s.Mesh != "" {
		fmt.Fprintf(out, "  Mesh: %s\n", s.Mesh)
	}
	fmt.Fprintf(out, "  Triangles: %d\n", survey.TriangleCount)
	fmt.Fprintf(out, "  Surface area: %.4f m²\n", survey.SurfaceArea)
	if survey.TriangleCount > 0 {
		fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(survey.BoundingBox.Min))
		fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(survey.BoundingBox.Max))
		fmt.Fprintf(out, "  Size: %s\n", analysis.FormatVector(survey.Dimensions))
		fmt.Fprintf(out, "  Edge lengths: %.4f .. %.4f m (avg %.4f)\n",
			survey.MinEdgeLength, survey.MaxEdgeLength, survey.AvgEdgeLength)
	}
	return nil
}
