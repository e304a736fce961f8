package measurement

import (
	"github.com/philipparndt/armeasure/internal/scene"
	"github.com/philipparndt/armeasure/pkg/geometry"
)

// State is the phase of a two-point measurement
type State int

const (
	Idle State = iota
	OnePointPlaced
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case OnePointPlaced:
		return "one-point-placed"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// maxPoints is the number of points that completes a measurement
const maxPoints = 2

// Point is a confirmed surface position and its marker
type Point struct {
	Position geometry.Vector3
	Marker   scene.Handle
}

// Segment is the measured span between two consecutive points.
// Distance is fixed when the segment is created.
type Segment struct {
	Start    geometry.Vector3
	End      geometry.Vector3
	Distance float64
	Line     scene.Handle
	Label    scene.Handle
}

// Style configures the primitives a session creates
type Style struct {
	MarkerRadius float64
	LineWidth    float64
}

// DefaultStyle returns a centimeter-sized marker and a thin line
func DefaultStyle() Style {
	return Style{MarkerRadius: 0.01, LineWidth: 0.005}
}
