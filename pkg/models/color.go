package models

import "image/color"

// Color is a linear RGB triple. Channels are not clamped, so values above 1
// are normal while light contributions accumulate.
type Color struct {
	R, G, B float64
}

// Colors for convenience
var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
)

// RGB creates a Color.
func RGB(r, g, b float64) Color {
	return Color{r, g, b}
}

// Add returns the channel-wise sum.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Sub returns the channel-wise difference.
func (c Color) Sub(o Color) Color {
	return Color{c.R - o.R, c.G - o.G, c.B - o.B}
}

// Scale multiplies every channel by s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Mul returns the channel-wise (Hadamard) product, used to filter one color
// through another.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}

// ApproxEqual reports whether every channel is within eps of o.
func (c Color) ApproxEqual(o Color, eps float64) bool {
	return abs(c.R-o.R) <= eps && abs(c.G-o.G) <= eps && abs(c.B-o.B) <= eps
}

// RGBA quantizes the color to 8-bit channels with full alpha.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: quantize(c.R),
		G: quantize(c.G),
		B: quantize(c.B),
		A: 255,
	}
}

// quantize maps [0, 1] onto [0, 255], truncating the fraction.
func quantize(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(255 * v)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
