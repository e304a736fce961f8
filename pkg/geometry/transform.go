package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quaternion represents a rotation
type Quaternion struct {
	X, Y, Z, W float64
}

// IdentityQuaternion returns the rotation that does nothing
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// QuaternionFromAxisAngle returns a rotation of angle radians about axis
func QuaternionFromAxisAngle(axis Vector3, angle float64) Quaternion {
	return fromQuat(mgl64.QuatRotate(angle, axis.Normalize().Vec()))
}

// QuaternionBetween returns the shortest rotation turning direction a onto direction b
func QuaternionBetween(a, b Vector3) Quaternion {
	return fromQuat(mgl64.QuatBetweenVectors(a.Normalize().Vec(), b.Normalize().Vec()))
}

// QuaternionFromEuler returns a rotation from yaw (about +Y) then pitch (about +X), in radians
func QuaternionFromEuler(yaw, pitch float64) Quaternion {
	y := mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0})
	p := mgl64.QuatRotate(pitch, mgl64.Vec3{1, 0, 0})
	return fromQuat(y.Mul(p))
}

func fromQuat(q mgl64.Quat) Quaternion {
	return Quaternion{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

func (q Quaternion) quat() mgl64.Quat {
	return mgl64.Quat{W: q.W, V: mgl64.Vec3{q.X, q.Y, q.Z}}
}

// Mul composes two rotations; the result applies other first, then q
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return fromQuat(q.quat().Mul(other.quat()))
}

// Rotate rotates a vector by the quaternion
func (q Quaternion) Rotate(v Vector3) Vector3 {
	return FromVec(q.quat().Rotate(v.Vec()))
}

// Normalize returns a unit quaternion
func (q Quaternion) Normalize() Quaternion {
	return fromQuat(q.quat().Normalize())
}

// ApproxEqual reports whether two quaternions describe the same rotation within eps
func (q Quaternion) ApproxEqual(other Quaternion, eps float64) bool {
	dot := q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
	return math.Abs(math.Abs(dot)-1) <= eps
}

// Transform is a column-major 4x4 affine transform.
// The zero value is not a valid transform; use IdentityTransform.
type Transform mgl64.Mat4

// IdentityTransform returns the transform that does nothing
func IdentityTransform() Transform {
	return Transform(mgl64.Ident4())
}

// Compose builds a transform that rotates by orientation and then translates to position
func Compose(position Vector3, orientation Quaternion) Transform {
	t := mgl64.Translate3D(position.X, position.Y, position.Z)
	return Transform(t.Mul4(orientation.quat().Normalize().Mat4()))
}

// Translation returns a transform that only translates
func Translation(position Vector3) Transform {
	return Transform(mgl64.Translate3D(position.X, position.Y, position.Z))
}

// Mul returns t * other (other is applied first)
func (t Transform) Mul(other Transform) Transform {
	return Transform(mgl64.Mat4(t).Mul4(mgl64.Mat4(other)))
}

// Inverse returns the inverse transform
func (t Transform) Inverse() Transform {
	return Transform(mgl64.Mat4(t).Inv())
}

// TransformPoint applies the transform to a point
func (t Transform) TransformPoint(p Vector3) Vector3 {
	return FromVec(mgl64.Mat4(t).Mul4x1(p.Vec().Vec4(1)).Vec3())
}

// Position returns the translation part of the transform
func (t Transform) Position() Vector3 {
	return FromVec(mgl64.Mat4(t).Col(3).Vec3())
}

// Decompose splits the transform into position and orientation, discarding scale
func (t Transform) Decompose() (Vector3, Quaternion) {
	m := mgl64.Mat4(t)
	rot := mgl64.Ident4()
	for i := 0; i < 3; i++ {
		col := m.Col(i).Vec3()
		if col.Len() == 0 {
			return t.Position(), IdentityQuaternion()
		}
		rot.SetCol(i, col.Normalize().Vec4(0))
	}
	return t.Position(), fromQuat(mgl64.Mat4ToQuat(rot).Normalize())
}

// ApproxEqual reports whether two transforms match element-wise within eps
func (t Transform) ApproxEqual(other Transform, eps float64) bool {
	return mgl64.Mat4(t).ApproxEqualThreshold(mgl64.Mat4(other), eps)
}

// Pose is a position and orientation in some reference space
type Pose struct {
	Position    Vector3
	Orientation Quaternion
}

// PoseFromTransform decomposes a transform into a pose
func PoseFromTransform(t Transform) Pose {
	pos, rot := t.Decompose()
	return Pose{Position: pos, Orientation: rot}
}

// Transform returns the pose as a transform
func (p Pose) Transform() Transform {
	return Compose(p.Position, p.Orientation)
}

// Forward returns the direction the pose is looking at (its -Z axis)
func (p Pose) Forward() Vector3 {
	return p.Orientation.Rotate(NewVector3(0, 0, -1)).Normalize()
}

// Up returns the +Y axis of the pose
func (p Pose) Up() Vector3 {
	return p.Orientation.Rotate(NewVector3(0, 1, 0)).Normalize()
}

// Ray represents a half-line starting at Origin
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) Vector3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
