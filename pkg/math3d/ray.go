package math3d

// Ray is a half-line with an origin point and a direction vector.
// Direction need not be unit length, but it must not be the zero vector.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Transform returns the ray carried through m. The direction is not
// renormalized, so a parameter t names the same surface point in both spaces.
func (r Ray) Transform(m Mat4) Ray {
	return Ray{
		Origin:    m.MulVec3(r.Origin),
		Direction: m.MulVec3Dir(r.Direction),
	}
}
