// Package viewer is a fyne overlay that draws detected surfaces and the
// measuring primitives either through the device or from a spectator orbit.
package viewer

import (
	"image/color"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/armeasure/internal/scene"
	"github.com/philipparndt/armeasure/pkg/geometry"
)

var (
	colorBackground = color.RGBA{R: 24, G: 26, B: 32, A: 255}
	colorReticle    = color.RGBA{R: 255, G: 255, B: 255, A: 200}
)

// minMarkerPixels keeps far markers visible
const minMarkerPixels = 3

// SceneView renders an environment and the primitives of the last frame.
// It implements scene.Renderer.
type SceneView struct {
	widget.BaseWidget

	mu        sync.Mutex
	camera    *Camera
	env       []geometry.Triangle
	edges     [][2]geometry.Vector3
	prims     []scene.Primitive
	viewer    geometry.Pose
	follow    bool
	width     float64
	height    float64
	dragStart *fyne.Position
	onAim     func(ray geometry.Ray)
}

// NewSceneView creates a view that looks through the device
func NewSceneView() *SceneView {
	v := &SceneView{
		camera: NewCamera(geometry.NewBoundingBox()),
		viewer: geometry.Pose{Orientation: geometry.IdentityQuaternion()},
		follow: true,
		width:  640,
		height: 480,
	}
	v.camera.FollowPose(v.viewer)
	v.ExtendBaseWidget(v)
	return v
}

// SetEnvironment replaces the surfaces drawn as wireframe
func (v *SceneView) SetEnvironment(tris []geometry.Triangle) {
	bbox := geometry.NewBoundingBox()
	for _, t := range tris {
		bbox.Extend(t.V1)
		bbox.Extend(t.V2)
		bbox.Extend(t.V3)
	}

	v.mu.Lock()
	v.env = tris
	v.edges = uniqueEdges(tris)
	follow := v.follow
	v.camera = NewCamera(bbox)
	if follow {
		v.camera.FollowPose(v.viewer)
	}
	v.mu.Unlock()
}

// SetViewer updates the device pose the camera follows
func (v *SceneView) SetViewer(pose geometry.Pose) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewer = pose
	if v.follow {
		v.camera.FollowPose(pose)
	}
}

// SetFollow switches between the device view and the spectator orbit
func (v *SceneView) SetFollow(follow bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.follow = follow
	if follow {
		v.camera.FollowPose(v.viewer)
		return
	}
	v.camera.UpdatePosition()
}

// Following reports whether the camera looks through the device
func (v *SceneView) Following() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.follow
}

// SetOnAim sets the callback for taps in the device view. It receives the
// world ray through the tapped point.
func (v *SceneView) SetOnAim(fn func(ray geometry.Ray)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onAim = fn
}

// Render implements scene.Renderer. The redraw is queued on the fyne
// goroutine.
func (v *SceneView) Render(prims []scene.Primitive) error {
	v.mu.Lock()
	v.prims = append(v.prims[:0], prims...)
	v.mu.Unlock()

	fyne.Do(v.Refresh)
	return nil
}

// CreateRenderer implements fyne.Widget
func (v *SceneView) CreateRenderer() fyne.WidgetRenderer {
	r := &sceneViewRenderer{view: v, background: canvas.NewRectangle(colorBackground)}
	r.Refresh()
	return r
}

// Dragged orbits the spectator camera
func (v *SceneView) Dragged(event *fyne.DragEvent) {
	v.mu.Lock()
	if !v.follow {
		v.camera.Rotate(float64(event.Dragged.DY)*0.01, float64(-event.Dragged.DX)*0.01)
	}
	v.dragStart = &event.Position
	v.mu.Unlock()
	v.Refresh()
}

// DragEnd implements fyne.Draggable
func (v *SceneView) DragEnd() {
	v.mu.Lock()
	v.dragStart = nil
	v.mu.Unlock()
}

// Scrolled zooms the spectator camera
func (v *SceneView) Scrolled(event *fyne.ScrollEvent) {
	v.mu.Lock()
	if !v.follow {
		v.camera.Zoom(-float64(event.Scrolled.DY) * 0.001)
	}
	v.mu.Unlock()
	v.Refresh()
}

// Tapped aims the device at the tapped point
func (v *SceneView) Tapped(event *fyne.PointEvent) {
	v.mu.Lock()
	fn := v.onAim
	if !v.follow || fn == nil || v.dragStart != nil {
		v.mu.Unlock()
		return
	}
	ray := v.camera.Unproject(float64(event.Position.X), float64(event.Position.Y), v.width, v.height)
	v.mu.Unlock()

	fn(ray)
}

// build projects everything for a viewport of the given size
func (v *SceneView) build(width, height float64) []fyne.CanvasObject {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width, v.height = width, height

	objects := make([]fyne.CanvasObject, 0, len(v.edges)+len(v.prims)+2)

	for _, e := range v.edges {
		x1, y1, z1, ok1 := v.camera.Project(e[0], width, height)
		x2, y2, z2, ok2 := v.camera.Project(e[1], width, height)
		if !ok1 || !ok2 {
			continue
		}
		b := depthBrightness((z1 + z2) / 2)
		objects = append(objects, newLine(x1, y1, x2, y2, 1, color.RGBA{R: b, G: b, B: b, A: 255}))
	}

	for _, p := range v.prims {
		objects = append(objects, v.primitiveObjects(p, width, height)...)
	}

	if v.follow {
		cx, cy := width/2, height/2
		objects = append(objects,
			newLine(cx-8, cy, cx+8, cy, 1, colorReticle),
			newLine(cx, cy-8, cx, cy+8, 1, colorReticle),
		)
	}
	return objects
}

func (v *SceneView) primitiveObjects(p scene.Primitive, width, height float64) []fyne.CanvasObject {
	switch p.Kind {
	case scene.KindMarker:
		x, y, z, ok := v.camera.Project(p.Position(), width, height)
		if !ok {
			return nil
		}
		r := math.Max(minMarkerPixels, v.camera.Scale(p.Size, z, height))
		marker := canvas.NewCircle(p.Color)
		marker.Resize(fyne.NewSize(float32(2*r), float32(2*r)))
		marker.Move(fyne.NewPos(float32(x-r), float32(y-r)))
		return []fyne.CanvasObject{marker}

	case scene.KindLine:
		x1, y1, _, ok1 := v.camera.Project(p.From, width, height)
		x2, y2, _, ok2 := v.camera.Project(p.To, width, height)
		if !ok1 || !ok2 {
			return nil
		}
		_, _, z, _ := v.camera.Project(p.Position(), width, height)
		stroke := math.Max(1, v.camera.Scale(p.Size, z, height))
		return []fyne.CanvasObject{newLine(x1, y1, x2, y2, stroke, p.Color)}

	case scene.KindLabel:
		x, y, z, ok := v.camera.Project(p.Position(), width, height)
		if !ok {
			return nil
		}
		if p.Texture == nil {
			text := canvas.NewText(p.Text, p.Color)
			text.Alignment = fyne.TextAlignCenter
			text.Move(fyne.NewPos(float32(x), float32(y)))
			return []fyne.CanvasObject{text}
		}
		h := v.camera.Scale(p.Height, z, height)
		w := h
		if b := p.Texture.Bounds(); b.Dy() > 0 {
			w = h * float64(b.Dx()) / float64(b.Dy())
		}
		img := canvas.NewImageFromImage(p.Texture)
		img.FillMode = canvas.ImageFillStretch
		img.Resize(fyne.NewSize(float32(w), float32(h)))
		img.Move(fyne.NewPos(float32(x-w/2), float32(y-h/2)))
		return []fyne.CanvasObject{img}

	case scene.KindPlane:
		w, h := p.Width/2, p.Height/2
		corners := [4]geometry.Vector3{
			p.Transform.TransformPoint(geometry.NewVector3(-w, -h, 0)),
			p.Transform.TransformPoint(geometry.NewVector3(w, -h, 0)),
			p.Transform.TransformPoint(geometry.NewVector3(w, h, 0)),
			p.Transform.TransformPoint(geometry.NewVector3(-w, h, 0)),
		}
		var outline []fyne.CanvasObject
		for i := range corners {
			x1, y1, _, ok1 := v.camera.Project(corners[i], width, height)
			x2, y2, _, ok2 := v.camera.Project(corners[(i+1)%4], width, height)
			if ok1 && ok2 {
				outline = append(outline, newLine(x1, y1, x2, y2, 2, p.Color))
			}
		}
		return outline
	}
	return nil
}

func newLine(x1, y1, x2, y2, stroke float64, col color.Color) *canvas.Line {
	line := canvas.NewLine(col)
	line.StrokeWidth = float32(stroke)
	line.Position1 = fyne.NewPos(float32(x1), float32(y1))
	line.Position2 = fyne.NewPos(float32(x2), float32(y2))
	return line
}

// depthBrightness fades edges with distance
func depthBrightness(depth float64) uint8 {
	return uint8(math.Max(60, math.Min(220, 230-depth*25)))
}

// uniqueEdges lists every facet edge once
func uniqueEdges(tris []geometry.Triangle) [][2]geometry.Vector3 {
	seen := make(map[[2]geometry.Vector3]struct{})
	var edges [][2]geometry.Vector3
	for _, t := range tris {
		verts := [3]geometry.Vector3{t.V1, t.V2, t.V3}
		for i := range verts {
			e := [2]geometry.Vector3{verts[i], verts[(i+1)%3]}
			if vectorLess(e[1], e[0]) {
				e[0], e[1] = e[1], e[0]
			}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	return edges
}

func vectorLess(a, b geometry.Vector3) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

type sceneViewRenderer struct {
	view       *SceneView
	background *canvas.Rectangle
	size       fyne.Size
	objects    []fyne.CanvasObject
}

func (r *sceneViewRenderer) Layout(size fyne.Size) {
	r.size = size
	r.background.Resize(size)
	r.Refresh()
}

func (r *sceneViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (r *sceneViewRenderer) Refresh() {
	size := r.size
	if size.Width <= 0 || size.Height <= 0 {
		size = r.MinSize()
	}
	r.objects = append([]fyne.CanvasObject{r.background}, r.view.build(float64(size.Width), float64(size.Height))...)
	canvas.Refresh(r.view)
}

func (r *sceneViewRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *sceneViewRenderer) Destroy() {}
