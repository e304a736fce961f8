package geometry

import (
	"math"
	"testing"
)

func TestVector3Arithmetic(t *testing.T) {
	a := NewVector3(0.25, 1.5, -2)
	b := NewVector3(-0.75, 0.5, 1)

	if got := a.Add(b); got != NewVector3(-0.5, 2, -1) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Sub(b); got != NewVector3(1, 1, -3) {
		t.Errorf("Sub: got %v", got)
	}
	if got := b.Mul(-2); got != NewVector3(1.5, -1, -2) {
		t.Errorf("Mul: got %v", got)
	}
}

func TestVector3DistanceBetweenFloorPoints(t *testing.T) {
	p1 := NewVector3(0.3, 0, -1)
	p2 := NewVector3(0.3, 0, -2.25)

	if d := p1.Distance(p2); math.Abs(d-1.25) > 1e-12 {
		t.Errorf("Expected 1.25 m, got %v", d)
	}
	if d := p2.Distance(p1); math.Abs(d-1.25) > 1e-12 {
		t.Errorf("Distance should be symmetric, got %v", d)
	}
}

func TestVector3NormalizeZero(t *testing.T) {
	if got := (Vector3{}).Normalize(); got != (Vector3{}) {
		t.Errorf("Normalizing the zero vector should keep it zero, got %v", got)
	}
	if l := NewVector3(0, -3, 4).Normalize().Length(); math.Abs(l-1) > 1e-12 {
		t.Errorf("Expected unit length, got %v", l)
	}
}

func TestVector3CrossIsRightHanded(t *testing.T) {
	x := NewVector3(1, 0, 0)
	y := NewVector3(0, 1, 0)

	if got := x.Cross(y); got != NewVector3(0, 0, 1) {
		t.Errorf("X cross Y: expected +Z, got %v", got)
	}
	if got := y.Cross(x); got != NewVector3(0, 0, -1) {
		t.Errorf("Y cross X: expected -Z, got %v", got)
	}
	if d := x.Cross(y).Dot(x); d != 0 {
		t.Errorf("Cross product should be orthogonal, dot=%v", d)
	}
}

func TestVector3MidpointAndLerp(t *testing.T) {
	a := NewVector3(0, 0, -1)
	b := NewVector3(0, 0, -2)

	if got := a.Midpoint(b); got != NewVector3(0, 0, -1.5) {
		t.Errorf("Midpoint: got %v", got)
	}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0): got %v", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1): got %v", got)
	}
}

func TestVector3MinMax(t *testing.T) {
	a := NewVector3(1, -2, 3)
	b := NewVector3(-1, 2, 0)

	if got := a.Min(b); got != NewVector3(-1, -2, 0) {
		t.Errorf("Min: got %v", got)
	}
	if got := a.Max(b); got != NewVector3(1, 2, 3) {
		t.Errorf("Max: got %v", got)
	}
}

func TestVector3VecRoundTrip(t *testing.T) {
	v := NewVector3(1.5, -2, 3.25)
	if FromVec(v.Vec()) != v {
		t.Errorf("Vec round trip failed: got %v", FromVec(v.Vec()))
	}
}
