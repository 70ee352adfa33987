package scene

import (
	"errors"
	"io"
	"math"
	"path/filepath"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/qmuntal/gltf"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
)

const epsilon = 1e-4

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestBuilderRequiresCamera(t *testing.T) {
	_, _, err := NewBuilder().Sphere(models.UnitSphere()).Build()
	if !errors.Is(err, ErrNoCamera) {
		t.Errorf("err = %v, want ErrNoCamera", err)
	}
}

func TestBuilderValidation(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
		want error
	}{
		{"zero width", NewBuilder().Camera(0, 10, math.Pi/2), ErrInvalidSize},
		{"negative height", NewBuilder().Camera(10, -1, math.Pi/2), ErrInvalidSize},
		{"zero fov", NewBuilder().Camera(10, 10, 0), ErrInvalidFOV},
		{"fov of pi", NewBuilder().Camera(10, 10, math.Pi), ErrInvalidFOV},
		{
			"singular sphere",
			NewBuilder().TransformedSphere(models.UnitSphere(), math3d.ScaleUniform(0)).Camera(10, 10, 1),
			models.ErrSingularTransform,
		},
		{
			"untransformed sphere",
			NewBuilder().Sphere(models.Sphere{Radius: 1, Material: models.DefaultMaterial()}).Camera(10, 10, 1),
			models.ErrSingularTransform,
		},
		{
			"singular view",
			NewBuilder().Camera(10, 10, 1).View(math3d.Scale(math3d.V3(1, 0, 1))),
			models.ErrSingularTransform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.b.Build()
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuilderFirstErrorWins(t *testing.T) {
	b := NewBuilder().
		Camera(0, 0, 1).
		TransformedSphere(models.UnitSphere(), math3d.ScaleUniform(0)).
		Camera(10, 10, 1)

	_, _, err := b.Build()
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("err = %v, want the first error ErrInvalidSize", err)
	}
}

func TestBuilderOutputIsIndependent(t *testing.T) {
	b := NewBuilder().
		Sphere(models.UnitSphere()).
		Light(models.NewPointLight(math3d.V3(0, 5, 0), models.White)).
		Camera(20, 10, math.Pi/3).
		LookAt(math3d.V3(0, 0, -5), math3d.Zero3(), math3d.Up())

	w1, cam, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if cam.HSize != 20 || cam.VSize != 10 {
		t.Errorf("camera is %dx%d, want 20x10", cam.HSize, cam.VSize)
	}
	if !cam.Position().ApproxEqual(math3d.V3(0, 0, -5), epsilon) {
		t.Errorf("camera position = %v", cam.Position())
	}

	b.Sphere(models.UnitSphere())
	w1.Objects[0].Material.Ambient = 1

	w2, _, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(w1.Objects) != 1 || len(w2.Objects) != 2 {
		t.Errorf("object counts = %d, %d, want 1, 2", len(w1.Objects), len(w2.Objects))
	}
	if w2.Objects[0].Material.Ambient != 0.1 {
		t.Error("mutating a built world changed the builder")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	want := []string{"default", "spheres", "stripes"}
	if !slices.Equal(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}
	for _, name := range names {
		if Describe(name) == "" {
			t.Errorf("scene %q has no description", name)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	_, _, err := Load("nope", Options{})
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("err = %v, want ErrUnknownScene", err)
	}
}

func TestLoadBuiltins(t *testing.T) {
	tests := []struct {
		name          string
		objects       int
		lights        int
		width, height int
	}{
		{"default", 2, 1, 200, 100},
		{"spheres", 5, 1, 300, 450},
		{"stripes", 4, 2, 320, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c, err := Load(tt.name, Options{})
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(w.Objects) != tt.objects || len(w.Lights) != tt.lights {
				t.Errorf("got %d objects and %d lights, want %d and %d",
					len(w.Objects), len(w.Lights), tt.objects, tt.lights)
			}
			if c.HSize != tt.width || c.VSize != tt.height {
				t.Errorf("camera is %dx%d, want %dx%d", c.HSize, c.VSize, tt.width, tt.height)
			}

			// Every scene shows something at its center.
			col := w.ColorAt(c.RayForPixel(c.HSize/2, c.VSize/2))
			if col == models.Black {
				t.Error("center pixel is black")
			}
		})
	}
}

func TestLoadOptions(t *testing.T) {
	_, c, err := Load("spheres", Options{Width: 64, Height: 32, FOV: math.Pi / 2})
	if err != nil {
		t.Fatal(err)
	}
	if c.HSize != 64 || c.VSize != 32 || c.FieldOfView != math.Pi/2 {
		t.Errorf("options not applied: %dx%d fov %v", c.HSize, c.VSize, c.FieldOfView)
	}

	_, _, err = Load("default", Options{Width: -3})
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("err = %v, want ErrInvalidSize", err)
	}
}

func TestDefaultWorld(t *testing.T) {
	w := DefaultWorld()

	xs := w.Intersect(math3d.NewRay(math3d.V3(0, 0, -5), math3d.V3(0, 0, 1)))
	want := []float64{4, 4.5, 5.5, 6}
	if len(xs) != len(want) {
		t.Fatalf("got %d intersections, want %d", len(xs), len(want))
	}
	for i := range want {
		if math.Abs(xs[i].T-want[i]) > epsilon {
			t.Errorf("xs[%d] = %v, want %v", i, xs[i].T, want[i])
		}
	}

	got := w.ColorAt(math3d.NewRay(math3d.V3(0, 0, -5), math3d.V3(0, 0, 1)))
	if !got.ApproxEqual(models.RGB(0.38066, 0.47583, 0.2855), epsilon) {
		t.Errorf("ColorAt = %v, want (0.38066, 0.47583, 0.2855)", got)
	}
}

func TestSpheresSceneStripes(t *testing.T) {
	w, _, err := Load("spheres", Options{})
	if err != nil {
		t.Fatal(err)
	}

	var striped int
	for _, s := range w.Objects {
		if s.Material.Pattern != nil {
			striped++
		}
	}
	if striped != 2 {
		t.Errorf("got %d striped spheres, want 2", striped)
	}
}

func TestFromDocumentFramesScene(t *testing.T) {
	s := models.NewSphere(math3d.V3(3, 0, 0), 2)
	doc := &models.Document{Spheres: []models.Sphere{s}}

	w, c, err := FromDocument(doc, Options{Width: 40, Height: 20}, quietLogger()).Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Lights) != 1 {
		t.Errorf("got %d lights, want a default light", len(w.Lights))
	}
	if c.HSize != 40 || c.VSize != 20 {
		t.Errorf("camera is %dx%d, want 40x20", c.HSize, c.VSize)
	}

	// The framed camera looks at the sphere's center.
	r := c.RayForPixel(20, 10)
	if _, _, ok := w.Objects[0].Roots(r); !ok {
		t.Error("center ray misses the only sphere")
	}
}

func TestFromDocumentUsesCameraAndLights(t *testing.T) {
	cam := &models.CameraNode{
		Name: "eye",
		View: math3d.LookAt(math3d.V3(0, 0, -5), math3d.Zero3(), math3d.Up()),
		YFov: math.Pi / 2,
	}
	light := models.NewPointLight(math3d.V3(1, 2, 3), models.White)
	doc := &models.Document{
		Spheres: []models.Sphere{models.UnitSphere()},
		Lights:  []models.PointLight{light},
		Camera:  cam,
	}

	w, c, err := FromDocument(doc, Options{Width: 30, Height: 60}, quietLogger()).Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Lights) != 1 || w.Lights[0] != light {
		t.Errorf("lights = %v, want only the imported light", w.Lights)
	}
	if c.FieldOfView != math.Pi/2 {
		t.Errorf("fov = %v, want pi/2 for a portrait image", c.FieldOfView)
	}
	if !c.Position().ApproxEqual(math3d.V3(0, 0, -5), epsilon) {
		t.Errorf("camera position = %v, want (0, 0, -5)", c.Position())
	}
}

func TestFromDocumentEmpty(t *testing.T) {
	_, _, err := FromDocument(&models.Document{}, Options{}, quietLogger()).Build()
	if !errors.Is(err, ErrEmptyScene) {
		t.Errorf("err = %v, want ErrEmptyScene", err)
	}
}

func TestFromGLTF(t *testing.T) {
	doc := &gltf.Document{
		Buffers:     []*gltf.Buffer{{ByteLength: 36, Data: make([]byte, 36)}},
		BufferViews: []*gltf.BufferView{{Buffer: 0, ByteLength: 36}},
		Accessors: []*gltf.Accessor{{
			BufferView:    gltf.Index(0),
			Type:          gltf.AccessorVec3,
			ComponentType: gltf.ComponentFloat,
			Count:         3,
			Min:           []float64{-1, -1, -1},
			Max:           []float64{1, 1, 1},
		}},
		Meshes: []*gltf.Mesh{{
			Name:       "ball",
			Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: 0}}},
		}},
		Nodes:  []*gltf.Node{{Name: "ball", Mesh: gltf.Index(0)}},
		Scenes: []*gltf.Scene{{Nodes: []int{0}}},
		Scene:  gltf.Index(0),
	}

	path := filepath.Join(t.TempDir(), "ball.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	w, c, err := FromGLTF(path, Options{Width: 16, Height: 16}, quietLogger())
	if err != nil {
		t.Fatalf("FromGLTF: %v", err)
	}
	if len(w.Objects) != 1 {
		t.Fatalf("got %d objects, want 1", len(w.Objects))
	}
	if col := w.ColorAt(c.RayForPixel(8, 8)); col == models.Black {
		t.Error("center pixel of the imported scene is black")
	}

	if _, _, err := FromGLTF(filepath.Join(t.TempDir(), "missing.glb"), Options{}, quietLogger()); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestBounds(t *testing.T) {
	a := models.NewSphere(math3d.V3(-2, 0, 0), 1)
	b := models.UnitSphere()
	if err := b.SetTransform(math3d.Translate(math3d.V3(2, 0, 0))); err != nil {
		t.Fatal(err)
	}

	center, radius := Bounds([]models.Sphere{a, b})
	if !center.ApproxEqual(math3d.Zero3(), epsilon) {
		t.Errorf("center = %v, want origin", center)
	}
	// Box from (-3, -1, -1) to (3, 1, 1).
	if want := math.Sqrt(36+4+4) / 2; math.Abs(radius-want) > epsilon {
		t.Errorf("radius = %v, want %v", radius, want)
	}
}
