package viewer

import (
	"image"
	"math"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/philipparndt/armeasure/internal/scene"
	"github.com/philipparndt/armeasure/pkg/geometry"
)

func floor() []geometry.Triangle {
	up := geometry.NewVector3(0, 1, 0)
	a := geometry.NewVector3(-1, 0, -1)
	b := geometry.NewVector3(-1, 0, 1)
	c := geometry.NewVector3(1, 0, 1)
	d := geometry.NewVector3(1, 0, -1)
	return []geometry.Triangle{
		geometry.NewTriangle(up, a, b, c),
		geometry.NewTriangle(up, a, c, d),
	}
}

func lookingDown() *SceneView {
	v := NewSceneView()
	v.SetEnvironment(floor())
	v.SetViewer(geometry.Pose{
		Position:    geometry.NewVector3(0, 1.5, 0),
		Orientation: geometry.QuaternionFromEuler(0, -math.Pi/2),
	})
	return v
}

func countObjects(objects []fyne.CanvasObject) (lines, circles, images, texts int) {
	for _, o := range objects {
		switch o.(type) {
		case *canvas.Line:
			lines++
		case *canvas.Circle:
			circles++
		case *canvas.Image:
			images++
		case *canvas.Text:
			texts++
		}
	}
	return
}

func TestUniqueEdges(t *testing.T) {
	if got := len(uniqueEdges(floor())); got != 5 {
		t.Errorf("Expected 5 edges for two facets sharing a diagonal, got %d", got)
	}
}

func TestBuildEnvironmentAndReticle(t *testing.T) {
	v := lookingDown()

	lines, _, _, _ := countObjects(v.build(800, 600))
	if lines != 7 {
		t.Errorf("Expected 5 edges and 2 reticle lines, got %d lines", lines)
	}
}

func TestBuildSpectatorHasNoReticle(t *testing.T) {
	v := lookingDown()
	v.SetFollow(false)

	if v.Following() {
		t.Fatal("Expected spectator mode")
	}
	lines, _, _, _ := countObjects(v.build(800, 600))
	if lines != 5 {
		t.Errorf("Expected 5 edges, got %d lines", lines)
	}
}

func TestBuildPrimitives(t *testing.T) {
	v := lookingDown()
	texture := image.NewRGBA(image.Rect(0, 0, 40, 10))
	origin := geometry.NewVector3(0.2, 0, 0)

	v.mu.Lock()
	v.prims = []scene.Primitive{
		{Kind: scene.KindMarker, Transform: geometry.Translation(origin), Color: scene.ColorMarker, Size: 0.01},
		{Kind: scene.KindLine, From: origin, To: geometry.NewVector3(-0.2, 0, 0), Color: scene.ColorLine, Size: 0.005},
		{Kind: scene.KindLabel, Transform: geometry.Translation(origin), Color: scene.ColorLabel, Height: 0.05, Texture: texture},
		{Kind: scene.KindLabel, Transform: geometry.Translation(origin), Color: scene.ColorLabel, Text: "40.0 cm"},
		{
			Kind:      scene.KindPlane,
			Transform: geometry.Compose(origin, geometry.QuaternionFromAxisAngle(geometry.NewVector3(1, 0, 0), -math.Pi/2)),
			Color:     scene.ColorPlane,
			Width:     0.2,
			Height:    0.2,
		},
	}
	v.mu.Unlock()

	lines, circles, images, texts := countObjects(v.build(800, 600))
	if circles != 1 || images != 1 || texts != 1 {
		t.Errorf("Expected 1 circle, 1 image and 1 text, got %d, %d and %d", circles, images, texts)
	}
	// 5 edges, 2 reticle, 1 segment, 4 plane outline
	if lines != 12 {
		t.Errorf("Expected 12 lines, got %d", lines)
	}
}

func TestBuildLabelKeepsTextureAspect(t *testing.T) {
	v := lookingDown()
	texture := image.NewRGBA(image.Rect(0, 0, 40, 10))

	v.mu.Lock()
	v.prims = []scene.Primitive{
		{Kind: scene.KindLabel, Transform: geometry.Translation(geometry.Vector3{}), Height: 0.1, Texture: texture},
	}
	v.mu.Unlock()

	for _, o := range v.build(800, 600) {
		img, ok := o.(*canvas.Image)
		if !ok {
			continue
		}
		size := img.Size()
		if math.Abs(float64(size.Width/size.Height)-4) > 1e-3 {
			t.Errorf("Expected 4:1 label, got %v", size)
		}
		return
	}
	t.Fatal("Expected a label image")
}

func TestBuildSkipsPrimitivesBehindCamera(t *testing.T) {
	v := lookingDown()

	v.mu.Lock()
	v.prims = []scene.Primitive{
		{Kind: scene.KindMarker, Transform: geometry.Translation(geometry.NewVector3(0, 3, 0)), Size: 0.01},
	}
	v.mu.Unlock()

	_, circles, _, _ := countObjects(v.build(800, 600))
	if circles != 0 {
		t.Errorf("Expected marker above the device to be culled, got %d", circles)
	}
}
