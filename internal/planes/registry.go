// Package planes keeps the flat quads that visualize detected surfaces.
package planes

import (
	"math"

	"github.com/philipparndt/armeasure/internal/scene"
	"github.com/philipparndt/armeasure/pkg/geometry"
)

// Size is the extent of a plane marker in meters
type Size struct {
	Width, Height float64
}

// tilt lays an upright quad flat so a forward-facing pose renders horizontal
var tilt = geometry.QuaternionFromAxisAngle(geometry.NewVector3(1, 0, 0), -math.Pi/2)

// Registry is an insertion-ordered cache of plane markers
type Registry struct {
	adapter scene.Adapter
	markers []scene.Handle
}

// NewRegistry creates an empty registry adding to adapter
func NewRegistry(adapter scene.Adapter) *Registry {
	return &Registry{adapter: adapter}
}

// CreateMarker places a quad of the given size at position, rotated by
// orientation and then tilted -90 degrees about X
func (r *Registry) CreateMarker(position geometry.Vector3, orientation geometry.Quaternion, size Size) scene.Handle {
	h := r.adapter.Add(scene.Primitive{
		Kind:      scene.KindPlane,
		Transform: geometry.Compose(position, orientation.Mul(tilt)),
		Color:     scene.ColorPlane,
		Width:     size.Width,
		Height:    size.Height,
	})
	r.markers = append(r.markers, h)
	return h
}

// ClearAll removes every marker from the adapter
func (r *Registry) ClearAll() {
	for _, h := range r.markers {
		r.adapter.Remove(h)
	}
	r.markers = r.markers[:0]
}

// Len returns the number of registered markers
func (r *Registry) Len() int {
	return len(r.markers)
}
