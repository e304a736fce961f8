package geometry

import (
	"math"
	"testing"
)

func floorTriangle() Triangle {
	return NewTriangle(
		NewVector3(0, 1, 0),
		NewVector3(-5, 0, 5),
		NewVector3(5, 0, 5),
		NewVector3(0, 0, -5),
	)
}

func TestTriangleArea(t *testing.T) {
	// Create a right triangle with sides 3, 4, 5
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	area := tri.Area()
	expected := 6.0 // (3 * 4) / 2 = 6

	if math.Abs(area-expected) > 1e-10 {
		t.Errorf("Area failed: expected %v, got %v", expected, area)
	}
}

func TestTriangleCenter(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 3, 0),
	)

	center := tri.Center()
	expected := NewVector3(1, 1, 0)

	if center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestTriangleSurfaceNormalFallback(t *testing.T) {
	tri := NewTriangle(
		Vector3{},
		NewVector3(0, 0, 0),
		NewVector3(1, 0, 0),
		NewVector3(0, 1, 0),
	)

	expected := NewVector3(0, 0, 1)
	if tri.SurfaceNormal() != expected {
		t.Errorf("SurfaceNormal failed: expected %v, got %v", expected, tri.SurfaceNormal())
	}
}

func TestTriangleIntersectStraightDown(t *testing.T) {
	ray := Ray{Origin: NewVector3(0, 1.5, 0), Direction: NewVector3(0, -1, 0)}

	dist, ok := floorTriangle().Intersect(ray)
	if !ok {
		t.Fatal("Intersect failed: expected a hit")
	}
	if math.Abs(dist-1.5) > 1e-10 {
		t.Errorf("Intersect failed: expected distance 1.5, got %v", dist)
	}
	hit := ray.At(dist)
	if hit.Distance(NewVector3(0, 0, 0)) > 1e-10 {
		t.Errorf("Intersect failed: expected hit at origin, got %v", hit)
	}
}

func TestTriangleIntersectMisses(t *testing.T) {
	tri := floorTriangle()

	// Pointing away from the floor
	if _, ok := tri.Intersect(Ray{Origin: NewVector3(0, 1, 0), Direction: NewVector3(0, 1, 0)}); ok {
		t.Error("expected no hit for a ray pointing away")
	}

	// Parallel to the floor
	if _, ok := tri.Intersect(Ray{Origin: NewVector3(0, 1, 0), Direction: NewVector3(1, 0, 0)}); ok {
		t.Error("expected no hit for a parallel ray")
	}

	// Outside the facet
	if _, ok := tri.Intersect(Ray{Origin: NewVector3(50, 1, 0), Direction: NewVector3(0, -1, 0)}); ok {
		t.Error("expected no hit outside the triangle")
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.Empty() {
		t.Fatal("new bounding box should be empty")
	}

	bbox.Extend(NewVector3(-1, 0, -2))
	bbox.Extend(NewVector3(1, 2, 0))

	if bbox.Center() != NewVector3(0, 1, -1) {
		t.Errorf("Center failed: got %v", bbox.Center())
	}
	if bbox.Size() != NewVector3(2, 2, 2) {
		t.Errorf("Size failed: got %v", bbox.Size())
	}
}
