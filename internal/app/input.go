package app

import (
	"errors"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/armeasure/internal/xr"
	"github.com/philipparndt/armeasure/internal/xr/sim"
	"github.com/philipparndt/armeasure/pkg/geometry"
)

const (
	moveSpeed = 1.0  // meters per second
	turnSpeed = 60.0 // degrees per second
)

// handleInput maps keys onto the measuring actions and moves the device
func (app *App) handleInput() {
	app.handleActions()
	app.handleDeviceMovement()
	app.handleCameraInput()

	if rl.IsKeyPressed(rl.KeyG) {
		app.View.showWireframe = !app.View.showWireframe
	}
	if rl.IsKeyPressed(rl.KeyF) {
		app.View.showFilled = !app.View.showFilled
	}
	if rl.IsKeyPressed(rl.KeyL) {
		app.View.showGaze = !app.View.showGaze
	}
	if rl.IsKeyPressed(rl.KeyV) {
		app.Camera.firstPerson = !app.Camera.firstPerson
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		app.resetCameraView()
	}
	if rl.IsKeyPressed(rl.KeyO) {
		app.setCameraTopView()
	}
}

func (app *App) handleActions() {
	coord := app.Device.coord

	if rl.IsKeyPressed(rl.KeyEnter) {
		switch err := coord.StartTracking(app.ctx); {
		case err == nil:
			app.setStatus("Tracking, press Space to place a point")
		case errors.Is(err, xr.ErrCapabilityUnavailable), errors.Is(err, xr.ErrSessionStartFailed):
			app.setStatus("AR measuring is not supported on this device")
		default:
			app.setStatus("Hit-test not ready (%v), press Enter to retry", err)
		}
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		coord.ConfirmPoint()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		coord.Reset()
		app.setStatus("Measurement cleared")
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		coord.Undo()
	}
	if rl.IsKeyPressed(rl.KeyX) {
		if err := coord.EndTracking(); err != nil {
			app.log.Warn().Err(err).Msg("end session")
		}
		app.setStatus("Session ended, press Enter to start again")
	}
	if rl.IsKeyPressed(rl.KeyT) {
		app.Device.tracking = !app.Device.tracking
	}
	if rl.IsKeyPressed(rl.KeyP) {
		app.Device.device.SetPoseLost(!app.Device.device.PoseLost())
	}
}

// handleDeviceMovement walks and turns the simulated handheld
func (app *App) handleDeviceMovement() {
	dt := float64(rl.GetFrameTime())
	d := &app.Device
	moved := false

	heading := geometry.QuaternionFromEuler(d.yaw*math.Pi/180, 0)
	forward := heading.Rotate(geometry.NewVector3(0, 0, -1))
	right := heading.Rotate(geometry.NewVector3(1, 0, 0))
	up := geometry.NewVector3(0, 1, 0)

	step := func(key int32, dir geometry.Vector3) {
		if rl.IsKeyDown(key) {
			d.position = d.position.Add(dir.Mul(moveSpeed * dt))
			moved = true
		}
	}
	step(rl.KeyW, forward)
	step(rl.KeyS, forward.Mul(-1))
	step(rl.KeyD, right)
	step(rl.KeyA, right.Mul(-1))
	step(rl.KeyPageUp, up)
	step(rl.KeyPageDown, up.Mul(-1))

	turn := func(key int32, yaw, pitch float64) {
		if rl.IsKeyDown(key) {
			d.yaw += yaw * turnSpeed * dt
			d.pitch = math.Max(-89, math.Min(89, d.pitch+pitch*turnSpeed*dt))
			moved = true
		}
	}
	turn(rl.KeyLeft, 1, 0)
	turn(rl.KeyRight, -1, 0)
	turn(rl.KeyUp, 0, 1)
	turn(rl.KeyDown, 0, -1)

	if moved {
		app.syncViewer()
	}
}

// syncViewer pushes the device pose to the simulated runtime
func (app *App) syncViewer() {
	d := &app.Device
	d.device.SetViewer(sim.Viewer{
		Position: sim.Vec{d.position.X, d.position.Y, d.position.Z},
		Yaw:      d.yaw,
		Pitch:    d.pitch,
	}.Pose())
}

// handleCameraInput orbits, pans and zooms the spectator camera
func (app *App) handleCameraInput() {
	if app.Camera.firstPerson {
		return
	}

	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	delta := rl.GetMouseDelta()

	switch {
	case rl.IsMouseButtonDown(rl.MouseMiddleButton), rl.IsMouseButtonDown(rl.MouseLeftButton) && shift:
		app.doPan(delta)
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		app.Camera.angleY -= delta.X * 0.005
		app.Camera.angleX += delta.Y * 0.005
		limit := float32(math.Pi/2 - 0.01)
		app.Camera.angleX = float32(math.Max(float64(-limit), math.Min(float64(limit), float64(app.Camera.angleX))))
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		app.Camera.distance *= 1.0 - wheel*0.03
		if app.Camera.distance < 0.5 {
			app.Camera.distance = 0.5
		}
	}
}
