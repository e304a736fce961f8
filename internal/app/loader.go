package app

import (
	"fmt"
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/armeasure/internal/coordinator"
	"github.com/philipparndt/armeasure/internal/scene"
	"github.com/philipparndt/armeasure/internal/xr/sim"
	"github.com/philipparndt/armeasure/pkg/geometry"
	"github.com/philipparndt/armeasure/pkg/watcher"
)

type loadedScenario struct {
	scenario  *sim.Scenario
	triangles []geometry.Triangle
}

// loadScenario reads a scenario and resolves its surfaces
func loadScenario(path string) (*loadedScenario, error) {
	s, err := sim.LoadScenario(path)
	if err != nil {
		return nil, err
	}
	tris, err := s.Environment()
	if err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("scenario %s has no surfaces", path)
	}
	return &loadedScenario{scenario: s, triangles: tris}, nil
}

// setupFileWatcher reloads the scenario when the file changes
func (app *App) setupFileWatcher() error {
	fw, err := watcher.NewFileWatcher(app.cfg.WatchDebounce, app.log)
	if err != nil {
		return err
	}

	if err := fw.Watch([]string{app.FileWatch.sourceFile}, func(string) {
		app.FileWatch.needsReload.Store(true)
	}); err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch scenario: %w", err)
	}

	go fw.Run(app.ctx)
	app.FileWatch.fileWatcher = fw
	app.log.Info().Str("file", app.FileWatch.sourceFile).Msg("watching scenario for changes")
	return nil
}

// reloadScenario parses the scenario in the background
func (app *App) reloadScenario() {
	if !app.FileWatch.isLoading.CompareAndSwap(false, true) {
		return
	}
	app.FileWatch.loadingStartTime = time.Now()

	go func() {
		loaded, err := loadScenario(app.FileWatch.sourceFile)
		if err != nil {
			app.log.Error().Err(err).Msg("reload failed")
			app.FileWatch.isLoading.Store(false)
			return
		}
		app.FileWatch.loaded.Store(loaded)
	}()
}

// applyLoadedScenario swaps in a reloaded scenario (must be called on main thread)
func (app *App) applyLoadedScenario() {
	loaded := app.FileWatch.loaded.Swap(nil)
	if loaded == nil {
		return
	}
	defer app.FileWatch.isLoading.Store(false)

	if err := app.applyScenario(loaded); err != nil {
		app.log.Error().Err(err).Msg("reload failed")
		return
	}
	app.log.Info().
		Dur("took", time.Since(app.FileWatch.loadingStartTime)).
		Msg("scenario reloaded")
	app.setStatus("Scenario reloaded, press Enter to start tracking")
}

// applyScenario rebuilds the mesh, the simulated device and a fresh coordinator.
// A running session is ended first so its hit-test source is released.
func (app *App) applyScenario(loaded *loadedScenario) error {
	device, err := sim.NewDevice(loaded.scenario, app.log)
	if err != nil {
		return err
	}
	graph := scene.NewGraph(app.log)
	coord, err := coordinator.New(coordinator.Options{
		Provider: device,
		Scene:    graph,
		Renderer: app,
		Labels:   scene.NewTextureLabels(app.cfg.Style.LabelScale),
		Config:   app.cfg,
		Log:      app.log,
	})
	if err != nil {
		return err
	}

	if app.Device.coord != nil {
		if err := app.Device.coord.EndTracking(); err != nil {
			app.log.Warn().Err(err).Msg("ending previous session")
		}
		rl.UnloadMesh(&app.Environment.mesh)
		app.unloadTextures()
	}

	env := &app.Environment
	env.scenario = loaded.scenario
	env.triangles = loaded.triangles
	env.mesh = trianglesToRaylibMesh(loaded.triangles)

	bbox := geometry.NewBoundingBox()
	for _, tri := range loaded.triangles {
		bbox.Extend(tri.V1)
		bbox.Extend(tri.V2)
		bbox.Extend(tri.V3)
	}
	center, size := bbox.Center(), bbox.Size()
	env.center = toRL(center)
	env.size = float32(math.Max(size.X, math.Max(size.Y, size.Z)))

	app.Device = DeviceState{
		device:   device,
		coord:    coord,
		graph:    graph,
		tracking: true,
	}
	// Start where the scenario's first frame puts the viewer
	if len(loaded.scenario.Frames) > 0 {
		v := loaded.scenario.Frames[0].Viewer
		app.Device.position = v.Position.Vector3()
		app.Device.yaw, app.Device.pitch = v.Yaw, v.Pitch
	} else {
		app.Device.position = center.Add(geometry.NewVector3(0, 1.5, 0))
		app.Device.pitch = -45
	}
	app.syncViewer()
	return nil
}
