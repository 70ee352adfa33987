package models

import (
	"errors"
	"math"

	"github.com/taigrr/prism/pkg/math3d"
)

// ErrSingularTransform is returned when a transform has no inverse.
var ErrSingularTransform = errors.New("transform is not invertible")

// Sphere is a sphere of Radius around a local Center, placed in the world by
// a single affine transform.
//
// The transform and its inverse are kept together and only change through
// SetTransform, so the inverse is always valid. The zero value has no
// transform at all; create spheres with NewSphere or UnitSphere.
type Sphere struct {
	Name     string
	Center   math3d.Vec3
	Radius   float64
	Material Material

	transform math3d.Mat4 // object to world
	inverse   math3d.Mat4 // world to object
	normalMat math3d.Mat4 // transpose(inverse), carries normals to world
}

// NewSphere creates a sphere with the default material and an identity
// transform.
func NewSphere(center math3d.Vec3, radius float64) Sphere {
	return Sphere{
		Center:    center,
		Radius:    radius,
		Material:  DefaultMaterial(),
		transform: math3d.Identity(),
		inverse:   math3d.Identity(),
		normalMat: math3d.Identity(),
	}
}

// UnitSphere returns a radius 1 sphere at the origin.
func UnitSphere() Sphere {
	return NewSphere(math3d.Zero3(), 1)
}

// Transform returns the object-to-world transform.
func (s *Sphere) Transform() math3d.Mat4 {
	return s.transform
}

// Inverse returns the world-to-object transform.
func (s *Sphere) Inverse() math3d.Mat4 {
	return s.inverse
}

// SetTransform replaces the object-to-world transform.
// A singular matrix is rejected and the sphere is left unchanged.
func (s *Sphere) SetTransform(m math3d.Mat4) error {
	if !m.Invertible() {
		return ErrSingularTransform
	}
	s.transform = m
	s.inverse = m.Inverse()
	s.normalMat = s.inverse.Transpose()
	return nil
}

// WorldToObject maps a world-space point into object space.
func (s *Sphere) WorldToObject(p math3d.Vec3) math3d.Vec3 {
	return s.inverse.MulVec3(p)
}

// Roots solves the ray-sphere quadratic and returns both ray parameters with
// t1 <= t2. A tangent ray yields two equal roots. ok is false on a miss.
//
// The ray is carried into object space first; its direction is not
// renormalized, so the roots are valid parameters of the world-space ray.
// The ray direction must be non-zero.
func (s *Sphere) Roots(r math3d.Ray) (t1, t2 float64, ok bool) {
	local := r.Transform(s.inverse)
	sphereToRay := local.Origin.Sub(s.Center)

	a := local.Direction.Dot(local.Direction)
	b := 2 * local.Direction.Dot(sphereToRay)
	c := sphereToRay.Dot(sphereToRay) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	t1 = (-b - sqrtD) / (2 * a)
	t2 = (-b + sqrtD) / (2 * a)
	return t1, t2, true
}

// NormalAt returns the unit surface normal at a world-space point.
func (s *Sphere) NormalAt(worldPoint math3d.Vec3) math3d.Vec3 {
	objectNormal := s.WorldToObject(worldPoint).Sub(s.Center)
	// Non-uniform scale changes the length, so normalize after mapping back.
	return s.normalMat.MulVec3Dir(objectNormal).Normalize()
}
