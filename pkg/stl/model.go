package stl

import (
	"github.com/philipparndt/armeasure/pkg/geometry"
)

// Model is a triangle mesh loaded from an STL file, used as a surface environment
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new empty model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// Transformed returns a copy of the model with every vertex moved by t.
// Normals are recomputed from the winding order.
func (m *Model) Transformed(t geometry.Transform) *Model {
	out := NewModel(m.Name)
	for _, tri := range m.Triangles {
		moved := geometry.NewTriangle(
			geometry.Vector3{},
			t.TransformPoint(tri.V1),
			t.TransformPoint(tri.V2),
			t.TransformPoint(tri.V3),
		)
		moved.Normal = moved.CalculateNormal()
		out.AddTriangle(moved)
	}
	return out
}
