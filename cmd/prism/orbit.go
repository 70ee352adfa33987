package main

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/prism/pkg/math3d"
)

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewRotationAxis creates an axis with harmonica spring for smooth velocity decay
func NewRotationAxis(fps int, position float64) RotationAxis {
	return RotationAxis{
		Position: position,
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0 using spring
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

const (
	maxPitch    = math.Pi/2 - 0.01
	minDistance = 0.5
	maxDistance = 200.0
)

// Orbit is a camera circling a target point. Yaw and pitch coast with
// spring-damped velocity; distance eases toward a zoom target.
type Orbit struct {
	Target   math3d.Vec3
	Yaw      RotationAxis
	Pitch    RotationAxis
	Distance float64

	zoomTarget float64
	zoomVel    float64
	zoomSpring harmonica.Spring

	fps                int
	homeYaw, homePitch float64
	homeDistance       float64
}

// NewOrbit creates an orbit around target that starts at eye.
func NewOrbit(fps int, target, eye math3d.Vec3) *Orbit {
	offset := eye.Sub(target)
	dist := math.Max(offset.Len(), minDistance)
	pitch := math.Asin(math.Max(-1, math.Min(1, offset.Y/dist)))
	yaw := math.Atan2(offset.X, -offset.Z)

	o := &Orbit{
		Target:       target,
		fps:          fps,
		homeYaw:      yaw,
		homePitch:    clampPitch(pitch),
		homeDistance: dist,
		zoomSpring:   harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
	o.Reset()
	return o
}

// Reset returns to the starting position and stops all motion.
func (o *Orbit) Reset() {
	o.Yaw = NewRotationAxis(o.fps, o.homeYaw)
	o.Pitch = NewRotationAxis(o.fps, o.homePitch)
	o.Distance = o.homeDistance
	o.zoomTarget = o.homeDistance
	o.zoomVel = 0
}

// ApplyImpulse adds angular velocity in radians per frame.
func (o *Orbit) ApplyImpulse(pitch, yaw float64) {
	o.Pitch.Velocity += pitch
	o.Yaw.Velocity += yaw
}

// Zoom scales the target distance. factor < 1 moves closer.
func (o *Orbit) Zoom(factor float64) {
	o.zoomTarget = math.Max(minDistance, math.Min(maxDistance, o.zoomTarget*factor))
}

// Update advances the orbit by one frame.
func (o *Orbit) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
	if p := clampPitch(o.Pitch.Position); p != o.Pitch.Position {
		o.Pitch.Position = p
		o.Pitch.Velocity = 0
		o.Pitch.velAccel = 0
	}
	o.Distance, o.zoomVel = o.zoomSpring.Update(o.Distance, o.zoomVel, o.zoomTarget)
}

// Eye returns the camera position in world space.
func (o *Orbit) Eye() math3d.Vec3 {
	yaw, pitch := o.Yaw.Position, o.Pitch.Position
	return o.Target.Add(math3d.V3(
		math.Sin(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		-math.Cos(yaw)*math.Cos(pitch),
	).Scale(o.Distance))
}

// View returns the world-to-camera transform looking at the target.
func (o *Orbit) View() math3d.Mat4 {
	return math3d.LookAt(o.Eye(), o.Target, math3d.Up())
}

// clampPitch keeps the camera off the poles, where the up vector is
// parallel to the view direction.
func clampPitch(p float64) float64 {
	return math.Max(-maxPitch, math.Min(maxPitch, p))
}
