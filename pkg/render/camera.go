package render

import (
	"math"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
	"github.com/taigrr/prism/pkg/trace"
)

// Camera maps a pixel grid onto primary rays.
//
// The camera looks down -Z from the origin of its own space, with the image
// plane at distance 1. Transform moves the world into that space; rays are
// generated through its inverse.
type Camera struct {
	HSize       int     // Image width in pixels
	VSize       int     // Image height in pixels
	FieldOfView float64 // Angle spanned by the wider image axis, in radians

	// Derived at construction
	PixelSize  float64
	HalfWidth  float64
	HalfHeight float64

	transform math3d.Mat4 // world to camera
	inverse   math3d.Mat4 // camera to world
}

// NewCamera creates a camera with an identity transform.
// hsize and vsize must be positive.
func NewCamera(hsize, vsize int, fov float64) *Camera {
	c := &Camera{
		HSize:       hsize,
		VSize:       vsize,
		FieldOfView: fov,
		transform:   math3d.Identity(),
		inverse:     math3d.Identity(),
	}

	halfView := math.Tan(fov / 2)
	aspect := float64(hsize) / float64(vsize)
	if aspect >= 1 {
		c.HalfWidth = halfView
		c.HalfHeight = halfView / aspect
	} else {
		c.HalfWidth = halfView * aspect
		c.HalfHeight = halfView
	}
	c.PixelSize = c.HalfWidth * 2 / float64(hsize)

	return c
}

// Transform returns the view transform.
func (c *Camera) Transform() math3d.Mat4 {
	return c.transform
}

// SetTransform sets the view transform (world to camera).
// A singular matrix is rejected and the camera is left unchanged.
func (c *Camera) SetTransform(view math3d.Mat4) error {
	if !view.Invertible() {
		return models.ErrSingularTransform
	}
	c.transform = view
	c.inverse = view.Inverse()
	return nil
}

// LookAt places the camera at from, aimed at to.
func (c *Camera) LookAt(from, to, up math3d.Vec3) error {
	return c.SetTransform(math3d.LookAt(from, to, up))
}

// Position returns the camera origin in world space.
func (c *Camera) Position() math3d.Vec3 {
	return c.inverse.MulVec3(math3d.Zero3())
}

// RayForPixel returns the ray from the camera through the center of pixel
// (x, y). (0, 0) is the top-left corner of the image.
func (c *Camera) RayForPixel(x, y int) math3d.Ray {
	xOffset := (float64(x) + 0.5) * c.PixelSize
	yOffset := (float64(y) + 0.5) * c.PixelSize

	// The camera looks toward -Z, so +X is to the left.
	worldX := c.HalfWidth - xOffset
	worldY := c.HalfHeight - yOffset

	pixel := c.inverse.MulVec3(math3d.V3(worldX, worldY, -1))
	origin := c.inverse.MulVec3(math3d.Zero3())
	return math3d.NewRay(origin, pixel.Sub(origin).Normalize())
}

// Render traces every pixel of the camera's image.
func (c *Camera) Render(w *trace.World) *Canvas {
	return c.RenderRows(w, nil)
}

// RenderRows renders like Render and calls fn after each finished row with
// the row index. fn may be nil.
func (c *Camera) RenderRows(w *trace.World, fn func(y int)) *Canvas {
	canvas := NewCanvas(c.HSize, c.VSize)
	for y := 0; y < c.VSize; y++ {
		for x := 0; x < c.HSize; x++ {
			color := w.ColorAt(c.RayForPixel(x, y))
			canvas.SetPixel(x, y, color.RGBA())
		}
		if fn != nil {
			fn(y)
		}
	}
	return canvas
}

// Render traces w through c into a new canvas.
func Render(c *Camera, w *trace.World) *Canvas {
	return c.Render(w)
}
