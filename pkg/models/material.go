package models

import (
	"math"

	"github.com/taigrr/prism/pkg/math3d"
)

// Material holds the Phong shading parameters of one object.
type Material struct {
	Color     Color    // Base color, used when Pattern is nil
	Pattern   *Pattern // Optional stripe pattern evaluated in object space
	Ambient   float64  // Share of light that reaches every surface, 0..1
	Diffuse   float64  // Lambertian reflectance, 0..1
	Specular  float64  // Highlight strength, 0..1
	Shininess float64  // Highlight exponent, larger is tighter
}

// DefaultMaterial returns a white material with the classic Phong defaults.
func DefaultMaterial() Material {
	return Material{
		Color:     White,
		Ambient:   0.1,
		Diffuse:   0.9,
		Specular:  0.9,
		Shininess: 200,
	}
}

// NewMaterial returns the default material with its base color replaced.
func NewMaterial(c Color) Material {
	m := DefaultMaterial()
	m.Color = c
	return m
}

// Pattern is a two-color stripe rule banded along the object-space Y axis.
type Pattern struct {
	A, B Color
}

// NewStripePattern creates a stripe pattern alternating between a and b.
func NewStripePattern(a, b Color) *Pattern {
	return &Pattern{A: a, B: b}
}

// StripeAt returns the pattern color at an object-space point.
// Bands are half a unit tall: floor(2y) even selects A, odd selects B.
// X and Z do not affect the result.
func (p *Pattern) StripeAt(point math3d.Vec3) Color {
	if math.Mod(math.Floor(point.Y*2), 2) == 0 {
		return p.A
	}
	return p.B
}

// StripeAtObject evaluates the pattern at a world-space point on s.
// A nil sphere evaluates the pattern directly in world space.
func (p *Pattern) StripeAtObject(s *Sphere, worldPoint math3d.Vec3) Color {
	if s == nil {
		return p.StripeAt(worldPoint)
	}
	return p.StripeAt(s.WorldToObject(worldPoint))
}
