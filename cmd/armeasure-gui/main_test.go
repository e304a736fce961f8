package main

import (
	"context"
	"strings"
	"testing"

	"github.com/philipparndt/armeasure/internal/config"
	"github.com/philipparndt/armeasure/internal/coordinator"
	"github.com/philipparndt/armeasure/internal/scene"
	"github.com/philipparndt/armeasure/internal/xr/sim"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const floorScenario = `
name: floor
planes:
  - center: [0, 0, -1]
    normal: [0, 1, 0]
    width: 4
    height: 6
frames:
  - viewer: {position: [0, 1, 0], pitch: -45}
`

func newOptions(t *testing.T) coordinator.Options {
	t.Helper()

	s, err := sim.ParseScenario(strings.NewReader(floorScenario), ".")
	require.NoError(t, err)
	device, err := sim.NewDevice(s, zerolog.Nop())
	require.NoError(t, err)

	return coordinator.Options{
		Provider: device,
		Scene:    scene.NewGraph(zerolog.Nop()),
		Renderer: scene.RendererFunc(func([]scene.Primitive) error { return nil }),
		Config:   config.Default(),
		Log:      zerolog.Nop(),
	}
}

func TestReplaceCoordinatorKeepsPreviousOnFailure(t *testing.T) {
	prev, err := coordinator.New(newOptions(t))
	require.NoError(t, err)
	require.NoError(t, prev.StartTracking(context.Background()))

	broken := newOptions(t)
	broken.Provider = nil

	coord, err := replaceCoordinator(prev, broken)
	require.Error(t, err)
	assert.Nil(t, coord)
	assert.True(t, prev.Context().Tracking, "previous session must keep running")
	assert.True(t, prev.Engine().Requested())
}

func TestReplaceCoordinatorEndsPreviousSession(t *testing.T) {
	prev, err := coordinator.New(newOptions(t))
	require.NoError(t, err)
	require.NoError(t, prev.StartTracking(context.Background()))

	coord, err := replaceCoordinator(prev, newOptions(t))
	require.NoError(t, err)
	require.NotNil(t, coord)
	assert.NotSame(t, prev, coord)
	assert.False(t, prev.Context().Tracking)
	assert.False(t, prev.Engine().Requested())
}

func TestReplaceCoordinatorWithoutPrevious(t *testing.T) {
	coord, err := replaceCoordinator(nil, newOptions(t))
	require.NoError(t, err)
	assert.NotNil(t, coord)
	assert.False(t, coord.Context().Tracking)
}
