package trace

import "github.com/taigrr/prism/pkg/math3d"

// Epsilon is how far OverPoint is pushed off the surface so shadow rays do
// not hit the surface they start on.
const Epsilon = 1e-4

// Computation holds the geometry needed to shade one hit.
type Computation struct {
	T         float64
	Object    int
	Point     math3d.Vec3
	EyeV      math3d.Vec3
	NormalV   math3d.Vec3 // faces the eye
	Inside    bool        // ray started inside the object, NormalV was flipped
	OverPoint math3d.Vec3
}

// PrepareComputations builds the shading context for hit along r.
// hit.Object must be a valid index into w.Objects.
func PrepareComputations(hit Intersection, r math3d.Ray, w *World) Computation {
	comps := Computation{
		T:      hit.T,
		Object: hit.Object,
		Point:  r.At(hit.T),
		EyeV:   r.Direction.Negate(),
	}
	comps.NormalV = w.Objects[hit.Object].NormalAt(comps.Point)

	if comps.NormalV.Dot(comps.EyeV) < 0 {
		comps.Inside = true
		comps.NormalV = comps.NormalV.Negate()
	}

	comps.OverPoint = comps.Point.Add(comps.NormalV.Scale(Epsilon))
	return comps
}
