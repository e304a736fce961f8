// Package analysis summarizes the surfaces a scenario exposes to hit-testing.
package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/armeasure/pkg/geometry"
)

// Survey describes a set of detectable surface facets
type Survey struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// SurveyEnvironment measures the facets. An empty environment yields a zero survey.
func SurveyEnvironment(tris []geometry.Triangle) Survey {
	s := Survey{
		BoundingBox:   geometry.NewBoundingBox(),
		TriangleCount: len(tris),
	}
	if len(tris) == 0 {
		s.BoundingBox = geometry.BoundingBox{}
		return s
	}

	s.MinEdgeLength = math.MaxFloat64
	total := 0.0
	for _, tri := range tris {
		s.SurfaceArea += tri.Area()
		for _, edge := range [3][2]geometry.Vector3{{tri.V1, tri.V2}, {tri.V2, tri.V3}, {tri.V3, tri.V1}} {
			s.BoundingBox.Extend(edge[0])
			length := edge[0].Distance(edge[1])
			total += length
			s.MinEdgeLength = math.Min(s.MinEdgeLength, length)
			s.MaxEdgeLength = math.Max(s.MaxEdgeLength, length)
		}
	}
	s.EdgeCount = 3 * len(tris)
	s.AvgEdgeLength = total / float64(s.EdgeCount)
	s.Dimensions = s.BoundingBox.Size()
	return s
}

// NearestVertex returns the facet corner closest to point.
// ok is false for an empty environment.
func NearestVertex(tris []geometry.Triangle, point geometry.Vector3) (vertex geometry.Vector3, dist float64, ok bool) {
	dist = math.MaxFloat64
	for _, tri := range tris {
		for _, v := range [3]geometry.Vector3{tri.V1, tri.V2, tri.V3} {
			if d := point.Distance(v); d < dist {
				vertex, dist, ok = v, d, true
			}
		}
	}
	return vertex, dist, ok
}

// FormatVector formats a position in meters
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}
