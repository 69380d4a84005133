// Package camera provides an orbit camera for viewing the swarm.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// pitchLimit keeps the camera off the poles where the up vector degenerates.
const pitchLimit = float32(math.Pi/2) * 0.99

// Orbit circles a target point at a given distance, controlled by yaw/pitch
// angles. Pure math; the host maps input deltas onto Rotate/Zoom and feeds
// Position into its renderer.
type Orbit struct {
	Target   mgl32.Vec3
	Yaw      float32 // radians around the up axis
	Pitch    float32 // radians above the horizon, clamped short of the poles
	Distance float32

	MinDistance, MaxDistance float32
}

// New creates an orbit camera looking at the origin from the given distance.
func New(distance float32) *Orbit {
	return &Orbit{
		Distance:    distance,
		MinDistance: distance * 0.2,
		MaxDistance: distance * 5,
	}
}

// Rotate applies yaw/pitch deltas, clamping pitch short of the poles.
func (o *Orbit) Rotate(dYaw, dPitch float32) {
	o.Yaw += dYaw
	o.Pitch += dPitch
	if o.Pitch > pitchLimit {
		o.Pitch = pitchLimit
	}
	if o.Pitch < -pitchLimit {
		o.Pitch = -pitchLimit
	}
}

// Zoom moves the camera along its view axis, clamped to the distance range.
func (o *Orbit) Zoom(delta float32) {
	o.Distance -= delta
	if o.Distance < o.MinDistance {
		o.Distance = o.MinDistance
	}
	if o.Distance > o.MaxDistance {
		o.Distance = o.MaxDistance
	}
}

// Position returns the camera's world position. Yaw 0, pitch 0 places the
// camera on the +Z axis looking at the target.
func (o *Orbit) Position() mgl32.Vec3 {
	cosP := float32(math.Cos(float64(o.Pitch)))
	return o.Target.Add(mgl32.Vec3{
		o.Distance * cosP * float32(math.Sin(float64(o.Yaw))),
		o.Distance * float32(math.Sin(float64(o.Pitch))),
		o.Distance * cosP * float32(math.Cos(float64(o.Yaw))),
	})
}

// Forward returns the unit vector from the camera toward the target.
func (o *Orbit) Forward() mgl32.Vec3 {
	return o.Target.Sub(o.Position()).Normalize()
}

// PlaneHit intersects a ray with the plane through the camera target
// perpendicular to the view axis. This is how a 2D pointer becomes a 3D
// interaction point: the mouse ray lands on the plane the swarm occupies.
// Returns false when the ray is parallel to (or points away from) the plane.
func (o *Orbit) PlaneHit(origin, dir mgl32.Vec3) (mgl32.Vec3, bool) {
	normal := o.Forward()
	denom := normal.Dot(dir)
	if absf(denom) < 1e-6 {
		return mgl32.Vec3{}, false
	}
	t := o.Target.Sub(origin).Dot(normal) / denom
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return origin.Add(dir.Mul(t)), true
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
