package trace

import (
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
)

// World is the scene being traced. It is read-only while rendering.
//
// Objects are addressed by their index in Objects, so the slice order also
// decides which of two equal hits comes first.
type World struct {
	Objects []models.Sphere
	Lights  []models.PointLight
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{}
}

// AddObject appends a sphere and returns its index. A sphere that never got
// a transform is placed with the identity.
func (w *World) AddObject(s models.Sphere) int {
	if !s.Transform().Invertible() {
		_ = s.SetTransform(math3d.Identity())
	}
	w.Objects = append(w.Objects, s)
	return len(w.Objects) - 1
}

// AddLight appends a point light.
func (w *World) AddLight(l models.PointLight) {
	w.Lights = append(w.Lights, l)
}

// Intersect returns every crossing of r with every object, sorted by T.
// Negative values are kept.
func (w *World) Intersect(r math3d.Ray) Intersections {
	var xs Intersections
	for i := range w.Objects {
		xs = append(xs, Intersect(&w.Objects[i], i, r)...)
	}
	xs.Sort()
	return xs
}

// IsShadowed reports whether point is hidden from the first light.
// A world without lights casts no shadows.
func (w *World) IsShadowed(point math3d.Vec3) bool {
	if len(w.Lights) == 0 {
		return false
	}
	return w.IsShadowedFrom(w.Lights[0], point)
}

// IsShadowedFrom reports whether any object lies between point and light.
func (w *World) IsShadowedFrom(light models.PointLight, point math3d.Vec3) bool {
	v := light.Position.Sub(point)
	distance := v.Len()
	r := math3d.NewRay(point, v.Normalize())

	for _, x := range w.Intersect(r) {
		if x.T < 0 {
			continue
		}
		// Sorted, so the first non-negative crossing decides.
		return x.T < distance
	}
	return false
}

// ShadeHit sums the lighting contribution of every light at the hit, each
// with its own shadow test. Lighting and the pattern are evaluated at the
// over point.
func (w *World) ShadeHit(comps Computation) models.Color {
	obj := &w.Objects[comps.Object]
	color := models.Black
	for _, light := range w.Lights {
		shadowed := w.IsShadowedFrom(light, comps.OverPoint)
		color = color.Add(Lighting(obj.Material, light, comps.OverPoint, comps.EyeV, comps.NormalV, shadowed, obj))
	}
	return color
}

// ColorAt traces r and returns the shaded color of the nearest visible hit,
// or black when nothing in front of the ray origin is hit.
func (w *World) ColorAt(r math3d.Ray) models.Color {
	hit, ok := w.Intersect(r).Hit()
	if !ok {
		return models.Black
	}
	return w.ShadeHit(PrepareComputations(hit, r, w))
}
