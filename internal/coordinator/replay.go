package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/philipparndt/armeasure/internal/scene"
	"github.com/philipparndt/armeasure/internal/xr/sim"
)

// Result is the outcome of replaying a scenario
type Result struct {
	Frames      int
	Points      int
	Readout     string
	Distance    float64
	Completed   bool
	Unsupported bool
	StartErrors []error
}

// Replay plays s against a fresh coordinator on a simulated device.
// opts.Provider is replaced by the device; a nil Scene or Renderer
// defaults to an in-memory graph and a no-op renderer.
func Replay(ctx context.Context, s *sim.Scenario, opts Options) (Result, error) {
	device, err := sim.NewDevice(s, opts.Log)
	if err != nil {
		return Result{}, err
	}
	opts.Provider = device
	if opts.Scene == nil {
		opts.Scene = scene.NewGraph(opts.Log)
	}
	if opts.Renderer == nil {
		opts.Renderer = scene.RendererFunc(func([]scene.Primitive) error { return nil })
	}

	c, err := New(opts)
	if err != nil {
		return Result{}, err
	}

	var res Result
	player := sim.NewPlayer(device, c)
	player.OnStartError = func(err error) {
		res.StartErrors = append(res.StartErrors, err)
	}
	if err := player.Run(ctx); err != nil {
		return Result{}, fmt.Errorf("replay %q interrupted: %w", s.Name, err)
	}

	res.Frames = player.Index()
	res.Points = len(c.Measurement().Points())
	res.Readout = c.Readout()
	res.Distance, res.Completed = c.Measurement().LastDistance()
	res.Unsupported = c.Context().Unsupported
	return res, nil
}

// Check compares the result with the expectation; a nil expectation always passes
func (r Result) Check(expect *sim.Expectation) error {
	if expect == nil {
		return nil
	}
	var errs []error
	if expect.Readout != "" && expect.Readout != r.Readout {
		errs = append(errs, fmt.Errorf("readout %q, want %q", r.Readout, expect.Readout))
	}
	if expect.Points != nil && *expect.Points != r.Points {
		errs = append(errs, fmt.Errorf("%d points, want %d", r.Points, *expect.Points))
	}
	return errors.Join(errs...)
}
