package models

import "github.com/taigrr/prism/pkg/math3d"

// PointLight is an infinitely small light source.
type PointLight struct {
	Position  math3d.Vec3
	Color     Color
	Intensity float64 // Scalar multiplier applied on top of Color
}

// NewPointLight creates a point light with intensity 1.
func NewPointLight(position math3d.Vec3, c Color) PointLight {
	return PointLight{
		Position:  position,
		Color:     c,
		Intensity: 1,
	}
}

// Radiance returns the light color scaled by its intensity.
func (l PointLight) Radiance() Color {
	return l.Color.Scale(l.Intensity)
}
