package viewer

import (
	"math"

	"github.com/philipparndt/armeasure/pkg/geometry"
)

// nearPlane is the closest depth that still projects
const nearPlane = 0.01

// Camera projects the world onto the overlay. It either looks through the
// device (FollowPose) or orbits the surfaces as a spectator.
type Camera struct {
	Position  geometry.Vector3
	Target    geometry.Vector3
	Up        geometry.Vector3
	FOV       float64 // Vertical field of view in radians
	Distance  float64
	RotationX float64 // Pitch of the orbit
	RotationY float64 // Yaw of the orbit
}

// NewCamera creates a spectator camera framing the given bounds
func NewCamera(bbox geometry.BoundingBox) *Camera {
	center := bbox.Center()
	size := bbox.Size()
	distance := math.Max(size.X, math.Max(size.Y, size.Z)) * 2.0
	if distance < 1 {
		distance = 1
	}

	c := &Camera{
		Target:    center,
		Up:        geometry.NewVector3(0, 1, 0),
		FOV:       math.Pi / 3,
		Distance:  distance,
		RotationX: 0.5,
	}
	c.UpdatePosition()
	return c
}

// FollowPose puts the camera at the device looking along its gaze
func (c *Camera) FollowPose(pose geometry.Pose) {
	c.Position = pose.Position
	c.Target = pose.Position.Add(pose.Forward())
	c.Up = pose.Up()
}

// UpdatePosition places the orbit camera from its angles around Target
func (c *Camera) UpdatePosition() {
	x := c.Distance * math.Cos(c.RotationX) * math.Sin(c.RotationY)
	y := c.Distance * math.Sin(c.RotationX)
	z := c.Distance * math.Cos(c.RotationX) * math.Cos(c.RotationY)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
	c.Up = geometry.NewVector3(0, 1, 0)
}

// Rotate orbits the camera by the given angles
func (c *Camera) Rotate(deltaX, deltaY float64) {
	c.RotationX += deltaX
	c.RotationY += deltaY

	maxAngle := math.Pi/2 - 0.1
	c.RotationX = math.Max(-maxAngle, math.Min(maxAngle, c.RotationX))

	c.UpdatePosition()
}

// Zoom scales the orbit distance
func (c *Camera) Zoom(delta float64) {
	c.Distance *= 1.0 + delta
	if c.Distance < 0.1 {
		c.Distance = 0.1
	}
	c.UpdatePosition()
}

func (c *Camera) basis() (forward, right, up geometry.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// focal returns pixels per unit at depth 1 for a viewport of the given height
func (c *Camera) focal(height float64) float64 {
	return (height / 2) / math.Tan(c.FOV/2)
}

// Project maps a world point to screen coordinates. ok is false for points
// behind the near plane.
func (c *Camera) Project(point geometry.Vector3, width, height float64) (x, y, depth float64, ok bool) {
	forward, right, up := c.basis()

	relative := point.Sub(c.Position)
	depth = relative.Dot(forward)
	if depth <= nearPlane {
		return 0, 0, depth, false
	}

	f := c.focal(height)
	x = relative.Dot(right)/depth*f + width/2
	y = -relative.Dot(up)/depth*f + height/2
	return x, y, depth, true
}

// Scale returns the on-screen length of size meters seen at depth
func (c *Camera) Scale(size, depth, height float64) float64 {
	if depth <= nearPlane {
		return 0
	}
	return size / depth * c.focal(height)
}

// Unproject returns the world ray through a screen position
func (c *Camera) Unproject(screenX, screenY, width, height float64) geometry.Ray {
	forward, right, up := c.basis()
	f := c.focal(height)

	dx := (screenX - width/2) / f
	dy := (height/2 - screenY) / f
	dir := forward.Add(right.Mul(dx)).Add(up.Mul(dy)).Normalize()

	return geometry.Ray{Origin: c.Position, Direction: dir}
}
