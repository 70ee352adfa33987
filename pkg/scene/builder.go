// Package scene assembles worlds and cameras for rendering.
package scene

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
	"github.com/taigrr/prism/pkg/render"
	"github.com/taigrr/prism/pkg/trace"
)

var (
	// ErrNoCamera is returned by Build when no camera was configured.
	ErrNoCamera = errors.New("scene has no camera")
	// ErrInvalidSize is returned for non-positive image dimensions.
	ErrInvalidSize = errors.New("image dimensions must be positive")
	// ErrInvalidFOV is returned for a field of view outside (0, pi).
	ErrInvalidFOV = errors.New("field of view must be between 0 and pi radians")
)

// Builder collects spheres, lights and a camera, and produces a World and
// Camera that no longer share state with the builder.
//
// Methods chain. The first error is kept and reported by Build; later calls
// become no-ops.
type Builder struct {
	objects []models.Sphere
	lights  []models.PointLight

	hsize, vsize int
	fov          float64
	view         math3d.Mat4
	hasCamera    bool

	err error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{view: math3d.Identity()}
}

// Sphere adds a sphere as is. A sphere that never got a transform, such as
// the zero value, is rejected with models.ErrSingularTransform.
func (b *Builder) Sphere(s models.Sphere) *Builder {
	if b.err != nil {
		return b
	}
	if !s.Transform().Invertible() {
		b.err = fmt.Errorf("sphere %d: %w", len(b.objects), models.ErrSingularTransform)
		return b
	}
	b.objects = append(b.objects, s)
	return b
}

// TransformedSphere adds s placed by transform.
func (b *Builder) TransformedSphere(s models.Sphere, transform math3d.Mat4) *Builder {
	if b.err != nil {
		return b
	}
	if err := s.SetTransform(transform); err != nil {
		b.err = fmt.Errorf("sphere %d: %w", len(b.objects), err)
		return b
	}
	b.objects = append(b.objects, s)
	return b
}

// Light adds a point light.
func (b *Builder) Light(l models.PointLight) *Builder {
	if b.err != nil {
		return b
	}
	b.lights = append(b.lights, l)
	return b
}

// Camera sets the image size and field of view.
func (b *Builder) Camera(hsize, vsize int, fov float64) *Builder {
	if b.err != nil {
		return b
	}
	if hsize <= 0 || vsize <= 0 {
		b.err = fmt.Errorf("camera %dx%d: %w", hsize, vsize, ErrInvalidSize)
		return b
	}
	if fov <= 0 || fov >= math.Pi {
		b.err = fmt.Errorf("camera fov %v: %w", fov, ErrInvalidFOV)
		return b
	}
	b.hsize, b.vsize, b.fov = hsize, vsize, fov
	b.hasCamera = true
	return b
}

// View sets the camera's world-to-camera transform.
func (b *Builder) View(view math3d.Mat4) *Builder {
	if b.err != nil {
		return b
	}
	if !view.Invertible() {
		b.err = fmt.Errorf("camera view: %w", models.ErrSingularTransform)
		return b
	}
	b.view = view
	return b
}

// LookAt aims the camera from from at to.
func (b *Builder) LookAt(from, to, up math3d.Vec3) *Builder {
	return b.View(math3d.LookAt(from, to, up))
}

// Build returns the assembled world and camera.
func (b *Builder) Build() (*trace.World, *render.Camera, error) {
	if b.err != nil {
		return nil, nil, b.err
	}
	if !b.hasCamera {
		return nil, nil, ErrNoCamera
	}

	world := &trace.World{
		Objects: slices.Clone(b.objects),
		Lights:  slices.Clone(b.lights),
	}
	camera := render.NewCamera(b.hsize, b.vsize, b.fov)
	if err := camera.SetTransform(b.view); err != nil {
		return nil, nil, fmt.Errorf("camera view: %w", err)
	}
	return world, camera, nil
}
