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

// ErrUnknownScene is returned by Load for a name that is not registered.
var ErrUnknownScene = errors.New("unknown scene")

// Options overrides the camera of a built-in scene. Zero fields keep the
// scene's own values.
type Options struct {
	Width  int
	Height int
	FOV    float64 // radians
}

func (o Options) size(width, height int) (int, int) {
	if o.Width != 0 {
		width = o.Width
	}
	if o.Height != 0 {
		height = o.Height
	}
	return width, height
}

func (o Options) fov(fov float64) float64 {
	if o.FOV != 0 {
		return o.FOV
	}
	return fov
}

type builtin struct {
	description string
	build       func(opts Options) *Builder
}

var builtins = map[string]builtin{
	"default": {
		description: "two concentric spheres under one white light",
		build:       defaultScene,
	},
	"spheres": {
		description: "four spheres, two striped, in front of a large backdrop sphere",
		build:       spheresScene,
	},
	"stripes": {
		description: "stripe patterns under rotation and scale, lit by two colored lights",
		build:       stripesScene,
	},
}

// Names returns the registered scene names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Describe returns a one-line description of a registered scene.
func Describe(name string) string {
	return builtins[name].description
}

// Load builds a registered scene.
func Load(name string, opts Options) (*trace.World, *render.Camera, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, nil, fmt.Errorf("%q: %w", name, ErrUnknownScene)
	}
	world, camera, err := b.build(opts).Build()
	if err != nil {
		return nil, nil, fmt.Errorf("scene %q: %w", name, err)
	}
	return world, camera, nil
}

// DefaultWorld returns the two-sphere world of the "default" scene without
// a camera: a white light at (-10, 10, -10), a unit sphere colored
// (0.8, 1.0, 0.6) with diffuse 0.7 and specular 0.2, and a white sphere of
// radius 0.5 inside it.
func DefaultWorld() *trace.World {
	world, _, err := defaultScene(Options{}).Build()
	if err != nil {
		panic(err)
	}
	return world
}

func defaultScene(opts Options) *Builder {
	outer := models.UnitSphere()
	outer.Name = "outer"
	outer.Material.Color = models.RGB(0.8, 1.0, 0.6)
	outer.Material.Diffuse = 0.7
	outer.Material.Specular = 0.2

	inner := models.UnitSphere()
	inner.Name = "inner"

	w, h := opts.size(200, 100)
	return NewBuilder().
		Light(models.NewPointLight(math3d.V3(-10, 10, -10), models.White)).
		Sphere(outer).
		TransformedSphere(inner, math3d.ScaleUniform(0.5)).
		Camera(w, h, opts.fov(math.Pi/3)).
		LookAt(math3d.V3(0, 1.5, -5), math3d.V3(0, 0, 0), math3d.Up())
}

func spheresScene(opts Options) *Builder {
	base := models.UnitSphere()
	base.Name = "base"
	base.Material.Color = models.RGB(0.8, 0.4, 0.6)
	base.Material.Diffuse = 0.9
	base.Material.Specular = 0.4
	base.Material.Ambient = 0.5

	striped := models.NewSphere(math3d.V3(0.4, 1.7, -1.0), 0.7)
	striped.Name = "striped"
	striped.Material.Color = models.RGB(0.1, 1.0, 0.5)
	striped.Material.Pattern = models.NewStripePattern(models.RGB(0.14, 0.58, 0.26), models.RGB(0.8, 0.4, 0.6))
	striped.Material.Diffuse = 0.9
	striped.Material.Specular = 0.4
	striped.Material.Ambient = 0.5

	lime := models.NewSphere(math3d.V3(1.5, 0.5, -0.5), 0.5)
	lime.Name = "lime"
	lime.Material.Color = models.RGB(0.5, 1.0, 0.1)
	lime.Material.Diffuse = 0.5
	lime.Material.Specular = 0.6

	backdrop := models.NewSphere(math3d.V3(2.0, 0.5, 12.5), 12)
	backdrop.Name = "backdrop"
	backdrop.Material.Color = models.RGB(0.2, 1.0, 0.9)
	backdrop.Material.Pattern = models.NewStripePattern(models.RGB(0.5, 0.7, 1.0), models.RGB(0.8, 0.4, 0.6))
	backdrop.Material.Diffuse = 0.7
	backdrop.Material.Specular = 0.3

	violet := models.NewSphere(math3d.V3(-0.9, 2.5, 0.5), 0.4)
	violet.Name = "violet"
	violet.Material.Color = models.RGB(0.2, 0.0, 0.9)
	violet.Material.Diffuse = 0.3
	violet.Material.Specular = 0.3
	violet.Material.Shininess = 10

	w, h := opts.size(300, 450)
	return NewBuilder().
		Light(models.NewPointLight(math3d.V3(-10, 10, -10), models.White)).
		Sphere(base).
		Sphere(striped).
		Sphere(lime).
		Sphere(backdrop).
		Sphere(violet).
		Camera(w, h, opts.fov(math.Pi/3)).
		LookAt(math3d.V3(0, 1.5, -5), math3d.V3(0, 1, 0), math3d.Up())
}

func stripesScene(opts Options) *Builder {
	floor := models.UnitSphere()
	floor.Name = "floor"
	floor.Material.Pattern = models.NewStripePattern(models.RGB(0.9, 0.9, 0.9), models.RGB(0.3, 0.3, 0.35))
	floor.Material.Specular = 0

	tilted := models.UnitSphere()
	tilted.Name = "tilted"
	tilted.Material.Pattern = models.NewStripePattern(models.RGB(1, 0.8, 0.1), models.RGB(0.1, 0.2, 0.8))
	tilted.Material.Diffuse = 0.7
	tilted.Material.Specular = 0.3

	squashed := models.UnitSphere()
	squashed.Name = "squashed"
	squashed.Material.Pattern = models.NewStripePattern(models.RGB(0.9, 0.2, 0.2), models.White)
	squashed.Material.Shininess = 50

	plain := models.UnitSphere()
	plain.Name = "plain"
	plain.Material.Color = models.RGB(0.3, 0.9, 0.4)

	w, h := opts.size(320, 180)
	return NewBuilder().
		Light(models.NewPointLight(math3d.V3(-10, 10, -10), models.RGB(1, 0.9, 0.8))).
		Light(models.PointLight{Position: math3d.V3(10, 5, -10), Color: models.RGB(0.3, 0.4, 0.9), Intensity: 0.5}).
		TransformedSphere(floor, math3d.Scale(math3d.V3(10, 0.01, 10))).
		TransformedSphere(tilted, math3d.TRS(
			math3d.V3(-0.5, 1, 0.5),
			math3d.RotateZ(math.Pi/4),
			math3d.V3(1, 1, 1),
		)).
		TransformedSphere(squashed, math3d.TRS(
			math3d.V3(1.5, 0.5, -0.5),
			math3d.RotateX(math.Pi/6),
			math3d.V3(0.5, 0.5, 0.5),
		)).
		TransformedSphere(plain, math3d.TRS(
			math3d.V3(-1.5, 0.33, -0.75),
			math3d.Identity(),
			math3d.V3(0.33, 0.33, 0.33),
		)).
		Camera(w, h, opts.fov(math.Pi/3)).
		LookAt(math3d.V3(0, 1.5, -5), math3d.V3(0, 1, 0), math3d.Up())
}
