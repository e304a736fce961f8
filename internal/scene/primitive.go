// Package scene is the boundary to the render graph: primitives are plain
// descriptions that owners add and remove by handle.
package scene

import (
	"image"
	"image/color"

	"github.com/philipparndt/armeasure/pkg/geometry"
)

// Kind is the geometry kind of a primitive
type Kind int

const (
	KindMarker Kind = iota
	KindLine
	KindLabel
	KindPlane
)

func (k Kind) String() string {
	switch k {
	case KindMarker:
		return "marker"
	case KindLine:
		return "line"
	case KindLabel:
		return "label"
	case KindPlane:
		return "plane"
	}
	return "unknown"
}

// Handle identifies a primitive added to an Adapter
type Handle string

// Primitive describes one renderable object
type Primitive struct {
	Kind      Kind
	Transform geometry.Transform
	Color     color.RGBA

	// Size is the marker radius or the line width, in meters
	Size float64
	// Width and Height size planes and labels, in meters
	Width, Height float64

	// From and To are the line endpoints
	From, To geometry.Vector3

	Text    string
	Texture *image.RGBA
}

// Position returns where the primitive is anchored
func (p Primitive) Position() geometry.Vector3 {
	if p.Kind == KindLine {
		return p.From.Midpoint(p.To)
	}
	return p.Transform.Position()
}

// Adapter accepts and removes primitives. It never removes on its own.
type Adapter interface {
	Add(p Primitive) Handle
	Remove(h Handle)
}

// Renderer draws the current primitives of a frame
type Renderer interface {
	Render(prims []Primitive) error
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(prims []Primitive) error

// Render implements Renderer
func (f RendererFunc) Render(prims []Primitive) error {
	return f(prims)
}

// Palette used by the measuring components
var (
	ColorMarker = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ColorLine   = color.RGBA{R: 100, G: 200, B: 255, A: 255}
	ColorLabel  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ColorPlane  = color.RGBA{R: 80, G: 220, B: 120, A: 120}
)
