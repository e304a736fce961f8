package app

import (
	"image"
	"sync/atomic"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/armeasure/internal/coordinator"
	"github.com/philipparndt/armeasure/internal/scene"
	"github.com/philipparndt/armeasure/internal/xr/sim"
	"github.com/philipparndt/armeasure/pkg/geometry"
	"github.com/philipparndt/armeasure/pkg/watcher"
)

// CameraState holds the spectator camera orbiting the room
type CameraState struct {
	camera        rl.Camera3D
	distance      float32
	angleX        float32
	angleY        float32
	target        rl.Vector3 // Current camera target (can be panned)
	defaultDist   float32
	defaultAngleX float32
	defaultAngleY float32
	firstPerson   bool // Look through the device instead of orbiting
}

// EnvironmentData holds the detectable surfaces and their GPU mesh
type EnvironmentData struct {
	scenario  *sim.Scenario
	triangles []geometry.Triangle
	mesh      rl.Mesh
	material  rl.Material
	center    rl.Vector3
	size      float32 // Largest extent
}

// DeviceState is the simulated handheld and the measuring core driven by it
type DeviceState struct {
	device   *sim.Device
	coord    *coordinator.Coordinator
	graph    *scene.Graph
	position geometry.Vector3
	yaw      float64 // degrees
	pitch    float64 // degrees
	tracking bool    // Snapshots are delivered to the coordinator
}

// ViewSettings holds display toggles
type ViewSettings struct {
	showWireframe bool
	showFilled    bool
	showGaze      bool
}

// FileWatchState holds scenario hot-reload state
type FileWatchState struct {
	sourceFile       string
	fileWatcher      *watcher.FileWatcher
	needsReload      atomic.Bool
	isLoading        atomic.Bool
	loadingStartTime time.Time
	loaded           atomic.Pointer[loadedScenario]
}

// UIState holds fonts and uploaded label textures
type UIState struct {
	font     rl.Font
	textures map[*image.RGBA]rl.Texture2D
	status   string // Last action feedback shown in the panel
}
