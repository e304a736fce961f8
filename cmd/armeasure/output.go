package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/philipparndt/armeasure/internal/coordinator"
	"github.com/philipparndt/armeasure/internal/scene"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	warn    = color.New(color.FgYellow)
)

// textRenderer prints a line whenever the visible scene changes
type textRenderer struct {
	w     io.Writer
	frame int
	last  string
}

func (r *textRenderer) Render(prims []scene.Primitive) error {
	r.frame++
	counts := make(map[scene.Kind]int)
	for _, p := range prims {
		counts[p.Kind]++
	}
	summary := fmt.Sprintf("%d markers, %d lines, %d labels, %d planes",
		counts[scene.KindMarker], counts[scene.KindLine], counts[scene.KindLabel], counts[scene.KindPlane])
	if summary == r.last {
		return nil
	}
	r.last = summary
	_, err := fmt.Fprintf(r.w, "  frame %3d: %s\n", r.frame, summary)
	return err
}

func readoutPrinter(w io.Writer) coordinator.Readout {
	return coordinator.ReadoutFunc(func(text string) {
		fmt.Fprint(w, "  readout: ")
		good.Fprintf(w, "%s cm\n", text)
	})
}

func printResult(w io.Writer, res coordinator.Result) {
	fmt.Fprintf(w, "  frames: %d\n", res.Frames)
	fmt.Fprintf(w, "  points: %d\n", res.Points)
	if res.Completed {
		fmt.Fprint(w, "  distance: ")
		good.Fprintf(w, "%.4f m (%s cm)\n", res.Distance, res.Readout)
	} else {
		fmt.Fprintln(w, "  distance: -")
	}
	if res.Unsupported {
		warn.Fprintln(w, "  AR measuring unsupported on this device")
	}
	for _, err := range res.StartErrors {
		fmt.Fprint(w, "  start failed: ")
		bad.Fprintln(w, err)
	}
}
