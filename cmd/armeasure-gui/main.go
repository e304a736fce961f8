package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/armeasure/internal/config"
	"github.com/philipparndt/armeasure/internal/coordinator"
	"github.com/philipparndt/armeasure/internal/logging"
	"github.com/philipparndt/armeasure/internal/scene"
	"github.com/philipparndt/armeasure/internal/xr"
	"github.com/philipparndt/armeasure/internal/xr/sim"
	"github.com/philipparndt/armeasure/pkg/analysis"
	"github.com/philipparndt/armeasure/pkg/geometry"
	"github.com/philipparndt/armeasure/pkg/viewer"
	"github.com/rs/zerolog"
)

const (
	moveStep = 0.1 // meters
	turnStep = 5.0 // degrees
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	window fyne.Window
	cfg    config.Config
	log    zerolog.Logger

	device *sim.Device
	coord  *coordinator.Coordinator
	view   *viewer.SceneView

	position geometry.Vector3
	yaw      float64
	pitch    float64

	readoutLabel *widget.Label
	statusLabel  *widget.Label
	surveyLabel  *widget.Label
}

func main() {
	cfg, err := config.Load(os.Getenv("ARMEASURE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogPretty)

	a := app.New()
	w := a.NewWindow("AR Measure")

	ctx, cancel := context.WithCancel(context.Background())
	appInstance := &App{
		ctx:    ctx,
		cancel: cancel,
		window: w,
		cfg:    cfg,
		log:    logging.Component(log, "gui"),
	}
	w.SetOnClosed(cancel)

	if len(os.Args) > 1 {
		appInstance.loadFile(os.Args[1])
	} else {
		appInstance.showWelcomeScreen()
	}

	w.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))
	w.ShowAndRun()
}

func (a *App) showWelcomeScreen() {
	welcomeLabel := widget.NewLabel("AR Measure")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	instructionLabel := widget.NewLabel("Open a scenario to simulate a device in its surroundings")

	openButton := widget.NewButton("Open Scenario", func() {
		a.showFileDialog()
	})

	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(welcomeLabel),
		container.NewCenter(instructionLabel),
		layout.NewSpacer(),
		container.NewCenter(openButton),
		layout.NewSpacer(),
	)

	a.window.SetContent(content)
}

func (a *App) showFileDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		a.loadFile(reader.URI().Path())
	}, a.window)
}

func (a *App) loadFile(filename string) {
	scenario, err := sim.LoadScenario(filename)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to load scenario: %w", err), a.window)
		return
	}
	device, err := sim.NewDevice(scenario, a.log)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	view := viewer.NewSceneView()
	coord, err := replaceCoordinator(a.coord, coordinator.Options{
		Provider: device,
		Scene:    scene.NewGraph(a.log),
		Renderer: view,
		Readout: coordinator.ReadoutFunc(func(text string) {
			fyne.Do(func() { a.readoutLabel.SetText(text + " cm") })
		}),
		Config: a.cfg,
		Log:    a.log,
	})
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	a.device = device
	a.view = view
	a.coord = coord
	a.setupMainUI()

	if len(scenario.Frames) > 0 {
		v := scenario.Frames[0].Viewer
		a.position = v.Position.Vector3()
		a.yaw, a.pitch = v.Yaw, v.Pitch
	}
	a.syncViewer()
	a.log.Info().Str("scenario", scenario.Name).Msg("scenario loaded")

	go a.runFrames(a.ctx, coord)
}

// replaceCoordinator builds the coordinator for a newly loaded scenario. The
// previous session is ended only once the new coordinator exists, so a
// failure leaves the running one untouched.
func replaceCoordinator(prev *coordinator.Coordinator, opts coordinator.Options) (*coordinator.Coordinator, error) {
	coord, err := coordinator.New(opts)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		if err := prev.EndTracking(); err != nil {
			opts.Log.Warn().Err(err).Msg("ending previous session")
		}
	}
	return coord, nil
}

func (a *App) setupMainUI() {
	a.readoutLabel = widget.NewLabel("0.00 cm")
	a.readoutLabel.TextStyle = fyne.TextStyle{Bold: true}
	a.statusLabel = widget.NewLabel("Press Start Tracking")
	a.statusLabel.Wrapping = fyne.TextWrapWord
	a.surveyLabel = widget.NewLabel("")

	a.view.SetEnvironment(a.device.Environment())
	a.view.SetOnAim(a.aim)

	survey := analysis.SurveyEnvironment(a.device.Environment())
	a.surveyLabel.SetText(fmt.Sprintf(
		"Facets: %d\nEdges: %d\nArea: %.2f m²\n\nExtent:\n  X: %.2f m\n  Y: %.2f m\n  Z: %.2f m",
		survey.TriangleCount,
		survey.EdgeCount,
		survey.SurfaceArea,
		survey.Dimensions.X,
		survey.Dimensions.Y,
		survey.Dimensions.Z,
	))

	startButton := widget.NewButton("Start Tracking", a.startTracking)
	confirmButton := widget.NewButton("Confirm Point", func() { a.coord.ConfirmPoint() })
	resetButton := widget.NewButton("Reset", func() { a.coord.Reset() })
	undoButton := widget.NewButton("Undo", func() { a.coord.Undo() })
	endButton := widget.NewButton("End Session", func() {
		if err := a.coord.EndTracking(); err != nil {
			dialog.ShowError(err, a.window)
		}
	})
	openButton := widget.NewButton("Open Scenario", a.showFileDialog)

	followCheck := widget.NewCheck("Device View", func(checked bool) {
		a.view.SetFollow(checked)
	})
	followCheck.SetChecked(true)

	move := container.NewGridWithColumns(3,
		widget.NewButton("↺", func() { a.turn(turnStep, 0) }),
		widget.NewButton("▲", func() { a.walk(moveStep, 0) }),
		widget.NewButton("↻", func() { a.turn(-turnStep, 0) }),
		widget.NewButton("◀", func() { a.walk(0, -moveStep) }),
		widget.NewButton("▼", func() { a.walk(-moveStep, 0) }),
		widget.NewButton("▶", func() { a.walk(0, moveStep) }),
		widget.NewButton("Look Up", func() { a.turn(0, turnStep) }),
		layout.NewSpacer(),
		widget.NewButton("Look Down", func() { a.turn(0, -turnStep) }),
	)

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Start tracking, then aim the reticle at a surface\n" +
			"• Confirm a point on each end of the distance\n" +
			"• Tap the view to aim the device\n" +
			"• Arrow keys turn, W/A/S/D walk, Space confirms",
	)
	instructions.Wrapping = fyne.TextWrapWord

	infoPanel := container.NewVBox(
		widget.NewLabel("Distance:"),
		a.readoutLabel,
		widget.NewSeparator(),
		startButton,
		confirmButton,
		undoButton,
		resetButton,
		endButton,
		widget.NewSeparator(),
		widget.NewLabel("Device:"),
		move,
		followCheck,
		widget.NewSeparator(),
		widget.NewLabel("Surroundings:"),
		a.surveyLabel,
		widget.NewSeparator(),
		a.statusLabel,
		widget.NewSeparator(),
		instructions,
		openButton,
	)

	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(300, 0))

	content := container.NewBorder(nil, nil, nil, infoScroll, a.view)
	a.window.SetContent(content)
	a.window.Canvas().SetOnTypedKey(a.typedKey)
}

// runFrames drives the coordinator at the configured frame rate until ctx
// is done or another scenario replaces coord
func (a *App) runFrames(ctx context.Context, coord *coordinator.Coordinator) {
	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.Window.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stale := false
			fyne.DoAndWait(func() {
				if a.coord != coord {
					stale = true
					return
				}
				a.view.SetViewer(a.device.Viewer())
				coord.Frame(a.device.Snapshot())
			})
			if stale {
				return
			}
		}
	}
}

func (a *App) startTracking() {
	a.statusLabel.SetText("Starting tracking...")
	coord := a.coord

	go func() {
		err := coord.StartTracking(a.ctx)
		fyne.Do(func() {
			switch {
			case err == nil:
				a.statusLabel.SetText("Tracking. Aim at a surface and confirm a point.")
			case errors.Is(err, xr.ErrSessionStartFailed), errors.Is(err, xr.ErrCapabilityUnavailable):
				a.statusLabel.SetText("AR measuring is not supported on this device.")
				dialog.ShowError(err, a.window)
			default:
				a.statusLabel.SetText("Hit-testing not ready. Press Start Tracking to retry.")
			}
		})
	}()
}

func (a *App) typedKey(event *fyne.KeyEvent) {
	switch event.Name {
	case fyne.KeyReturn, fyne.KeyEnter:
		a.startTracking()
	case fyne.KeySpace:
		a.coord.ConfirmPoint()
	case fyne.KeyR:
		a.coord.Reset()
	case fyne.KeyBackspace:
		a.coord.Undo()
	case fyne.KeyW:
		a.walk(moveStep, 0)
	case fyne.KeyS:
		a.walk(-moveStep, 0)
	case fyne.KeyA:
		a.walk(0, -moveStep)
	case fyne.KeyD:
		a.walk(0, moveStep)
	case fyne.KeyLeft:
		a.turn(turnStep, 0)
	case fyne.KeyRight:
		a.turn(-turnStep, 0)
	case fyne.KeyUp:
		a.turn(0, turnStep)
	case fyne.KeyDown:
		a.turn(0, -turnStep)
	}
}

// walk moves the device on the ground plane relative to its heading
func (a *App) walk(forward, strafe float64) {
	yaw := a.yaw * math.Pi / 180
	dir := geometry.NewVector3(-math.Sin(yaw), 0, -math.Cos(yaw))
	right := geometry.NewVector3(math.Cos(yaw), 0, -math.Sin(yaw))
	a.position = a.position.Add(dir.Mul(forward)).Add(right.Mul(strafe))
	a.syncViewer()
}

func (a *App) turn(yaw, pitch float64) {
	a.yaw += yaw
	a.pitch = math.Max(-89, math.Min(89, a.pitch+pitch))
	a.syncViewer()
}

// aim points the device along ray
func (a *App) aim(ray geometry.Ray) {
	d := ray.Direction
	a.pitch = math.Asin(math.Max(-1, math.Min(1, d.Y))) * 180 / math.Pi
	a.yaw = math.Atan2(-d.X, -d.Z) * 180 / math.Pi
	a.syncViewer()
}

// syncViewer pushes the device pose to the simulated runtime
func (a *App) syncViewer() {
	pose := sim.Viewer{
		Position: sim.Vec{a.position.X, a.position.Y, a.position.Z},
		Yaw:      a.yaw,
		Pitch:    a.pitch,
	}.Pose()
	a.device.SetViewer(pose)
	a.view.SetViewer(pose)
}
