// Package app is the desktop AR preview: a raylib window showing the
// scenario's surfaces, the simulated handheld and everything the measuring
// core places, driven from the keyboard.
package app

import (
	"context"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/armeasure/internal/config"
	"github.com/rs/zerolog"
)

// Options configure the preview window
type Options struct {
	ScenarioPath string
	Config       config.Config
	Log          zerolog.Logger
}

type App struct {
	Camera      CameraState
	Environment EnvironmentData
	Device      DeviceState
	View        ViewSettings
	FileWatch   FileWatchState
	UI          UIState

	cfg config.Config
	log zerolog.Logger
	ctx context.Context
}

// Run opens the window and blocks until it is closed or ctx is done
func Run(ctx context.Context, opts Options) error {
	loaded, err := loadScenario(opts.ScenarioPath)
	if err != nil {
		return err
	}

	app := &App{
		View: ViewSettings{
			showWireframe: true,
			showFilled:    true,
			showGaze:      true,
		},
		UI:  UIState{status: "Press Enter to start tracking"},
		cfg: opts.Config,
		log: opts.Log.With().Str("component", "preview").Logger(),
		ctx: ctx,
	}
	app.FileWatch.sourceFile = opts.ScenarioPath

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint) // Must be before InitWindow
	rl.InitWindow(int32(opts.Config.Window.Width), int32(opts.Config.Window.Height), "armeasure")
	rl.SetTargetFPS(int32(opts.Config.Window.FPS))
	defer rl.CloseWindow()

	app.UI.font = rl.GetFontDefault()
	app.Environment.material = rl.LoadMaterialDefault()

	if err := app.applyScenario(loaded); err != nil {
		return err
	}
	app.resetCameraView()

	if err := app.setupFileWatcher(); err != nil {
		app.log.Warn().Err(err).Msg("auto-reload not available")
	} else {
		defer app.FileWatch.fileWatcher.Close()
	}

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			break
		}

		if app.FileWatch.needsReload.Load() && !app.FileWatch.isLoading.Load() {
			app.FileWatch.needsReload.Store(false)
			app.reloadScenario()
		}
		app.applyLoadedScenario()

		app.handleInput()
		app.updateCamera()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(15, 18, 25, 255))

		rl.BeginMode3D(app.Camera.camera)
		if app.View.showFilled {
			rl.DrawMesh(app.Environment.mesh, app.Environment.material, rl.MatrixIdentity())
		}
		if app.View.showWireframe {
			app.drawWireframe()
		}
		if !app.Camera.firstPerson {
			app.drawDevice()
		}

		// The coordinator renders the measuring primitives through app.Render
		app.Device.coord.Frame(app.snapshot())
		rl.EndMode3D()

		app.drawUI()
		rl.EndDrawing()
	}

	app.unloadTextures()
	rl.UnloadMesh(&app.Environment.mesh)
	return nil
}

func (app *App) setStatus(format string, args ...any) {
	app.UI.status = fmt.Sprintf(format, args...)
}
