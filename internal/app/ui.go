package app

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/armeasure/internal/measurement"
	"github.com/philipparndt/armeasure/version"
)

var (
	colorHeading = rl.Yellow
	colorText    = rl.White
	colorHelp    = rl.LightGray
	colorWarn    = rl.NewColor(255, 150, 100, 255)
	colorOK      = rl.NewColor(144, 238, 144, 255)
)

// drawUI draws the status panel, the readout and the key help
func (app *App) drawUI() {
	const (
		lineHeight = float32(20)
		fontSize16 = float32(16)
		fontSize14 = float32(14)
		fontSize12 = float32(12)
	)
	font := app.UI.font
	y := float32(10)

	text := func(s string, size float32, color rl.Color) {
		rl.DrawTextEx(font, s, rl.Vector2{X: 10, Y: y}, size, 1, color)
		y += lineHeight
	}

	coord := app.Device.coord
	ctx := coord.Context()
	session := coord.Measurement()

	// === SCENARIO ===
	text("Scenario:", fontSize16, colorHeading)
	name := app.Environment.scenario.Name
	if name == "" {
		name = app.FileWatch.sourceFile
	}
	text("  "+name, fontSize14, colorText)
	text(fmt.Sprintf("  Surfaces: %d triangles", len(app.Environment.triangles)), fontSize14, colorText)
	y += lineHeight

	// === SESSION ===
	text("Session:", fontSize16, colorHeading)
	switch {
	case ctx.Unsupported:
		text("  AR not supported", fontSize14, colorWarn)
	case ctx.Tracking && coord.Engine().Requested():
		text("  Tracking, hit-test ready", fontSize14, colorOK)
	case ctx.Tracking:
		text("  Tracking, no hit-test source", fontSize14, colorWarn)
	default:
		text("  Not started", fontSize14, colorHelp)
	}
	if !app.Device.tracking {
		text("  Tracking paused (T)", fontSize14, colorWarn)
	}
	if app.Device.device.PoseLost() {
		text("  Pose lost (P)", fontSize14, colorWarn)
	}
	if app.UI.status != "" {
		text("  "+app.UI.status, fontSize14, colorText)
	}
	y += lineHeight

	// === MEASURE ===
	text("Measure:", fontSize16, colorHeading)
	text(fmt.Sprintf("  State: %s", session.State()), fontSize14, colorText)
	for i, p := range session.Points() {
		text(fmt.Sprintf("  Point %d: %s", i+1, p.Position), fontSize14, colorOK)
	}
	if d, ok := session.LastDistance(); ok {
		text("  Distance: "+measurement.FormatLabel(d), fontSize16, colorHeading)
	}
	y += lineHeight

	// === KEYS ===
	text("Keys:", fontSize16, colorHeading)
	text("  Enter: Start tracking | X: End session", fontSize14, colorHelp)
	text("  Space: Place point | Backspace: Undo | R: Reset", fontSize14, colorHelp)
	text("  W/A/S/D, PgUp/PgDn: Move | Arrows: Turn", fontSize14, colorHelp)
	text("  T: Pause tracking | P: Lose pose", fontSize14, colorHelp)
	text("  V: Device view | Home: Reset view | O: Top view", fontSize14, colorHelp)
	text("  G: Wireframe | F: Fill | L: Gaze ray", fontSize14, colorHelp)

	app.drawReadout()
	app.drawLoadingIndicator()

	if app.Camera.firstPerson {
		cx, cy := int32(rl.GetScreenWidth()/2), int32(rl.GetScreenHeight()/2)
		rl.DrawLine(cx-10, cy, cx+10, cy, rl.White)
		rl.DrawLine(cx, cy-10, cx, cy+10, rl.White)
	}

	bottomY := float32(rl.GetScreenHeight()) - 30
	versionText := fmt.Sprintf("v%s", version.GetVersion())
	rl.DrawTextEx(font, versionText, rl.Vector2{X: 10, Y: bottomY}, fontSize12, 1, rl.Gray)
	versionWidth := rl.MeasureTextEx(font, versionText, fontSize12, 1).X
	rl.DrawTextEx(font, fmt.Sprintf("FPS: %d", rl.GetFPS()), rl.Vector2{X: 10 + versionWidth + 15, Y: bottomY}, fontSize12, 1, rl.Lime)
}

// drawReadout shows the numeric readout in the bottom-right corner
func (app *App) drawReadout() {
	const fontSize = float32(28)
	readout := app.Device.coord.Readout() + " cm"

	padding := float32(12)
	size := rl.MeasureTextEx(app.UI.font, readout, fontSize, 1)
	w, h := size.X+padding*2, size.Y+padding*2
	x := float32(rl.GetScreenWidth()) - w - 20
	y := float32(rl.GetScreenHeight()) - h - 20

	rl.DrawRectangle(int32(x), int32(y), int32(w), int32(h), rl.NewColor(0, 0, 0, 200))
	rl.DrawRectangleLines(int32(x), int32(y), int32(w), int32(h), rl.Yellow)
	rl.DrawTextEx(app.UI.font, readout, rl.Vector2{X: x + padding, Y: y + padding}, fontSize, 1, rl.Yellow)
}

// drawLoadingIndicator shows a spinner while a scenario reload runs
func (app *App) drawLoadingIndicator() {
	if !app.FileWatch.isLoading.Load() {
		return
	}
	elapsed := time.Since(app.FileWatch.loadingStartTime).Seconds()
	spinner := []string{"|", "/", "-", "\\"}
	msg := fmt.Sprintf("%s Reloading... (%.1fs)", spinner[int(elapsed*10)%len(spinner)], elapsed)

	w, h := float32(250), float32(40)
	x := float32(rl.GetScreenWidth()) - w - 20
	rl.DrawRectangle(int32(x), 20, int32(w), int32(h), rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(int32(x), 20, int32(w), int32(h), rl.Yellow)
	rl.DrawTextEx(app.UI.font, msg, rl.Vector2{X: x + 12, Y: 30}, 18, 1, rl.Yellow)
}
