// Package render turns a traced world into pixels: primary rays from a
// camera, an 8-bit canvas, and sinks for image files and the terminal.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// Canvas is a 2D array of quantized pixels.
type Canvas struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major pixel data
}

// NewCanvas creates a black canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
	c.Clear(color.RGBA{0, 0, 0, 255})
	return c
}

// Clear fills the canvas with a solid color.
func (c *Canvas) Clear(col color.RGBA) {
	for i := range c.Pixels {
		c.Pixels[i] = col
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (c *Canvas) SetPixel(x, y int, col color.RGBA) {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return
	}
	c.Pixels[y*c.Width+x] = col
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (c *Canvas) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return color.RGBA{}
	}
	return c.Pixels[y*c.Width+x]
}

// ToImage converts the canvas to a standard Go image.RGBA.
func (c *Canvas) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			img.SetRGBA(x, y, c.Pixels[y*c.Width+x])
		}
	}
	return img
}

// SavePNG saves the canvas as a PNG file.
func (c *Canvas) SavePNG(path string) error {
	if err := gg.SavePNG(path, c.ToImage()); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	return nil
}

// SaveJPEG saves the canvas as a JPEG file. quality ranges from 1 to 100.
func (c *Canvas) SaveJPEG(path string, quality int) error {
	if err := gg.SaveJPG(path, c.ToImage(), quality); err != nil {
		return fmt.Errorf("save jpeg: %w", err)
	}
	return nil
}
