package geometry

import "math"

// intersectEpsilon rejects rays parallel to the triangle plane and hits behind the origin
const intersectEpsilon = 1e-9

// Triangle represents a triangular facet of a detected surface
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{
		Normal: normal,
		V1:     v1,
		V2:     v2,
		V3:     v3,
	}
}

// CalculateNormal computes the normal vector from the winding order
func (t Triangle) CalculateNormal() Vector3 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	return edge1.Cross(edge2).Normalize()
}

// SurfaceNormal returns the stored normal, falling back to the winding normal when it is unset
func (t Triangle) SurfaceNormal() Vector3 {
	if t.Normal.Length() == 0 {
		return t.CalculateNormal()
	}
	return t.Normal.Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	return edge1.Cross(edge2).Length() / 2.0
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	return Vector3{
		X: (t.V1.X + t.V2.X + t.V3.X) / 3.0,
		Y: (t.V1.Y + t.V2.Y + t.V3.Y) / 3.0,
		Z: (t.V1.Z + t.V2.Z + t.V3.Z) / 3.0,
	}
}

// Intersect returns the distance along the ray to the triangle (Moeller-Trumbore).
// Both faces are hit; ok is false when the ray misses or the hit lies behind the origin.
func (t Triangle) Intersect(ray Ray) (dist float64, ok bool) {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)

	p := ray.Direction.Cross(edge2)
	det := edge1.Dot(p)
	if math.Abs(det) < intersectEpsilon {
		return 0, false
	}
	inv := 1.0 / det

	s := ray.Origin.Sub(t.V1)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := ray.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	dist = edge2.Dot(q) * inv
	if dist <= intersectEpsilon {
		return 0, false
	}
	return dist, true
}
