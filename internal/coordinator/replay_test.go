package coordinator

import (
	"context"
	"strings"
	"testing"

	"github.com/philipparndt/armeasure/internal/config"
	"github.com/philipparndt/armeasure/internal/xr"
	"github.com/philipparndt/armeasure/internal/xr/sim"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replayOptions() Options {
	return Options{Config: config.Default(), Log: zerolog.Nop()}
}

func TestReplayScenarioFile(t *testing.T) {
	s, err := sim.LoadScenario("../xr/sim/testdata/floor.yaml")
	require.NoError(t, err)

	res, err := Replay(context.Background(), s, replayOptions())
	require.NoError(t, err)

	assert.Equal(t, 4, res.Frames)
	assert.Equal(t, 2, res.Points)
	assert.True(t, res.Completed)
	assert.InDelta(t, 1.0, res.Distance, 1e-9)
	assert.Empty(t, res.StartErrors)
	assert.NoError(t, res.Check(s.Expect))
}

func TestReplayCollectsStartErrors(t *testing.T) {
	s, err := sim.ParseScenario(strings.NewReader(`
failAcquisitions: 1
frames:
  - actions: [start]
  - actions: [start]
`), ".")
	require.NoError(t, err)

	res, err := Replay(context.Background(), s, replayOptions())
	require.NoError(t, err)
	require.Len(t, res.StartErrors, 1)
	assert.ErrorIs(t, res.StartErrors[0], xr.ErrAcquisitionFailed)
	assert.False(t, res.Unsupported)
}

func TestReplayEndAction(t *testing.T) {
	s, err := sim.ParseScenario(strings.NewReader(`
planes:
  - {center: [0, 0, -1], normal: [0, 1, 0], width: 4, height: 6}
frames:
  - viewer: {position: [0, 1, 0], pitch: -45}
    actions: [start, confirm]
  - actions: [end]
  - viewer: {position: [0, 1, -1], pitch: -45}
    actions: [confirm]
`), ".")
	require.NoError(t, err)

	res, err := Replay(context.Background(), s, replayOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Points, "no hit-testing after the session ended")
	assert.False(t, res.Completed)
	assert.Equal(t, "0.00", res.Readout)
}

func TestReplayInterrupted(t *testing.T) {
	s, err := sim.ParseScenario(strings.NewReader("frames:\n  - {}\n  - {}\n"), ".")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Replay(ctx, s, replayOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultCheck(t *testing.T) {
	two := 2
	res := Result{Points: 1, Readout: "0.00"}

	assert.NoError(t, res.Check(nil))
	assert.NoError(t, res.Check(&sim.Expectation{Readout: "0.00"}))

	err := res.Check(&sim.Expectation{Readout: "100.00", Points: &two})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `readout "0.00", want "100.00"`)
	assert.Contains(t, err.Error(), "1 points, want 2")
}
