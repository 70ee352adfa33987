package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
	"github.com/taigrr/prism/pkg/render"
	"github.com/taigrr/prism/pkg/trace"
)

// ErrEmptyScene is returned when a glTF file contains nothing to render.
var ErrEmptyScene = errors.New("no spheres in scene")

// FromGLTF builds a world and camera from a glTF or GLB file.
//
// Files without a point light get a white light above and to the left of
// the camera. Files without a perspective camera are framed automatically
// from the front.
func FromGLTF(path string, opts Options, logger *log.Logger) (*trace.World, *render.Camera, error) {
	if logger == nil {
		logger = log.Default()
	}
	loader := models.NewGLTFLoader()
	loader.Logger = logger

	doc, err := loader.Load(path)
	if err != nil {
		return nil, nil, err
	}
	world, camera, err := FromDocument(doc, opts, logger).Build()
	if err != nil {
		return nil, nil, fmt.Errorf("gltf %s: %w", path, err)
	}
	return world, camera, nil
}

// FromDocument returns a builder holding the content of an imported
// document.
func FromDocument(doc *models.Document, opts Options, logger *log.Logger) *Builder {
	b := NewBuilder()
	if len(doc.Spheres) == 0 {
		b.err = ErrEmptyScene
		return b
	}
	for _, s := range doc.Spheres {
		b.Sphere(s)
	}

	center, radius := Bounds(doc.Spheres)
	w, h := opts.size(320, 240)

	if doc.Camera != nil {
		fov := opts.fov(doc.Camera.FieldOfView(w, h))
		logger.Debug("using gltf camera", "name", doc.Camera.Name, "fov", fov)
		b.Camera(w, h, fov).View(doc.Camera.View)
	} else {
		from := center.Add(math3d.V3(0, radius*0.5, -radius*3))
		logger.Debug("framing scene", "center", center, "radius", radius)
		b.Camera(w, h, opts.fov(math.Pi/3)).LookAt(from, center, math3d.Up())
	}

	if len(doc.Lights) == 0 {
		pos := center.Add(math3d.V3(-radius*4, radius*4, -radius*4))
		logger.Debug("no point lights, adding a default light", "position", pos)
		b.Light(models.NewPointLight(pos, models.White))
	}
	for _, l := range doc.Lights {
		b.Light(l)
	}
	return b
}

// Bounds returns a sphere enclosing every object, using each transform's
// largest axis scale as its radius factor.
func Bounds(spheres []models.Sphere) (math3d.Vec3, float64) {
	lo := math3d.V3(math.Inf(1), math.Inf(1), math.Inf(1))
	hi := math3d.V3(math.Inf(-1), math.Inf(-1), math.Inf(-1))

	for i := range spheres {
		s := &spheres[i]
		m := s.Transform()
		c := m.MulVec3(s.Center)
		r := s.Radius * math3d.V3(
			m.MulVec3Dir(math3d.V3(1, 0, 0)).Len(),
			m.MulVec3Dir(math3d.V3(0, 1, 0)).Len(),
			m.MulVec3Dir(math3d.V3(0, 0, 1)).Len(),
		).MaxComponent()

		lo = math3d.V3(math.Min(lo.X, c.X-r), math.Min(lo.Y, c.Y-r), math.Min(lo.Z, c.Z-r))
		hi = math3d.V3(math.Max(hi.X, c.X+r), math.Max(hi.Y, c.Y+r), math.Max(hi.Z, c.Z+r))
	}

	center := lo.Add(hi).Scale(0.5)
	return center, hi.Sub(lo).Len() / 2
}
