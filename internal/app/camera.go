package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// resetCameraView frames the whole environment from above and behind
func (app *App) resetCameraView() {
	dist := app.Environment.size * 1.5
	if dist < 2 {
		dist = 2
	}
	app.Camera.defaultDist = dist
	app.Camera.defaultAngleX = 0.6
	app.Camera.defaultAngleY = 0.4

	app.Camera.distance = app.Camera.defaultDist
	app.Camera.angleX = app.Camera.defaultAngleX
	app.Camera.angleY = app.Camera.defaultAngleY
	app.Camera.target = app.Environment.center
	app.Camera.camera = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45.0,
		Projection: rl.CameraPerspective,
	}
}

// setCameraTopView looks straight down on the environment
func (app *App) setCameraTopView() {
	app.Camera.angleX = math.Pi/2 - 0.001 // Avoid a degenerate up vector
	app.Camera.angleY = 0
	app.Camera.target = app.Environment.center
}

// updateCamera places the camera for this frame: either at the device or
// orbiting the target
func (app *App) updateCamera() {
	if app.Camera.firstPerson {
		pose := app.Device.device.Viewer()
		app.Camera.camera.Position = toRL(pose.Position)
		app.Camera.camera.Target = toRL(pose.Position.Add(pose.Forward()))
		app.Camera.camera.Up = toRL(pose.Up())
		app.Camera.camera.Fovy = 60
		return
	}

	x := app.Camera.distance * float32(math.Cos(float64(app.Camera.angleX))) * float32(math.Sin(float64(app.Camera.angleY)))
	y := app.Camera.distance * float32(math.Sin(float64(app.Camera.angleX)))
	z := app.Camera.distance * float32(math.Cos(float64(app.Camera.angleX))) * float32(math.Cos(float64(app.Camera.angleY)))

	app.Camera.camera.Position = rl.Vector3{
		X: app.Camera.target.X + x,
		Y: app.Camera.target.Y + y,
		Z: app.Camera.target.Z + z,
	}
	app.Camera.camera.Target = app.Camera.target
	app.Camera.camera.Up = rl.Vector3{X: 0, Y: 1, Z: 0}
	app.Camera.camera.Fovy = 45
}

// doPan moves the orbit target with the mouse
func (app *App) doPan(delta rl.Vector2) {
	forward := rl.Vector3Normalize(rl.Vector3Subtract(app.Camera.target, app.Camera.camera.Position))
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, app.Camera.camera.Up))
	up := rl.Vector3Normalize(rl.Vector3CrossProduct(right, forward))

	panSpeed := app.Camera.distance * 0.001

	app.Camera.target = rl.Vector3Add(app.Camera.target, rl.Vector3Scale(right, -delta.X*panSpeed))
	app.Camera.target = rl.Vector3Add(app.Camera.target, rl.Vector3Scale(up, delta.Y*panSpeed))
}
