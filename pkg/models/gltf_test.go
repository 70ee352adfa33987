package models

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"
	"github.com/taigrr/prism/pkg/math3d"
)

// sphereDocument builds a document with one mesh whose POSITION bounds span
// [-1, 1] on every axis.
func sphereDocument() *gltf.Document {
	roughness := 0.5
	return &gltf.Document{
		Accessors: []*gltf.Accessor{{
			Type:          gltf.AccessorVec3,
			ComponentType: gltf.ComponentFloat,
			Count:         3,
			Min:           []float64{-1, -1, -1},
			Max:           []float64{1, 1, 1},
		}},
		Materials: []*gltf.Material{{
			Name: "red",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{1, 0, 0, 1},
				RoughnessFactor: &roughness,
			},
		}},
		Meshes: []*gltf.Mesh{{
			Name: "ball",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: 0},
				Material:   gltf.Index(0),
			}},
		}},
	}
}

func TestLoadGLTFInvalidPath(t *testing.T) {
	_, err := LoadGLTF("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if loader.LightScale != 1 {
		t.Errorf("LightScale should default to 1, got %v", loader.LightScale)
	}
	if loader.DefaultMaterial != DefaultMaterial() {
		t.Error("DefaultMaterial should match the package default")
	}
}

func TestFromDocumentSphereNode(t *testing.T) {
	doc := sphereDocument()
	doc.Nodes = []*gltf.Node{{
		Name:        "ball",
		Mesh:        gltf.Index(0),
		Translation: [3]float64{0, 2, 0},
		Scale:       [3]float64{0.5, 0.5, 0.5},
	}}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}

	out, err := NewGLTFLoader().FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if len(out.Spheres) != 1 {
		t.Fatalf("got %d spheres, want 1", len(out.Spheres))
	}

	s := out.Spheres[0]
	if s.Name != "ball" {
		t.Errorf("name = %q, want ball", s.Name)
	}

	// A ray straight down the Y axis enters the half-size sphere at y=2.5.
	r := math3d.NewRay(math3d.V3(0, 10, 0), math3d.V3(0, -1, 0))
	t1, t2, ok := s.Roots(r)
	if !ok {
		t.Fatal("expected the ray to hit the imported sphere")
	}
	if math.Abs(t1-7.5) > 1e-9 || math.Abs(t2-8.5) > 1e-9 {
		t.Errorf("roots = (%v, %v), want (7.5, 8.5)", t1, t2)
	}

	if s.Material.Color != RGB(1, 0, 0) {
		t.Errorf("color = %v, want red", s.Material.Color)
	}
	if math.Abs(s.Material.Specular-0.45) > 1e-9 {
		t.Errorf("specular = %v, want 0.45", s.Material.Specular)
	}
}

func TestFromDocumentFitsBounds(t *testing.T) {
	doc := sphereDocument()
	doc.Accessors[0].Min = []float64{1, 1, 1}
	doc.Accessors[0].Max = []float64{3, 5, 3}
	doc.Nodes = []*gltf.Node{{Name: "egg", Mesh: gltf.Index(0)}}

	out, err := NewGLTFLoader().FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if len(out.Spheres) != 1 {
		t.Fatalf("got %d spheres, want 1", len(out.Spheres))
	}

	// Center (2, 3, 2), half extents (1, 2, 1).
	n := out.Spheres[0].NormalAt(math3d.V3(2, 5, 2))
	if !n.ApproxEqual(math3d.V3(0, 1, 0), 1e-9) {
		t.Errorf("normal at top = %v, want (0, 1, 0)", n)
	}
	n = out.Spheres[0].NormalAt(math3d.V3(3, 3, 2))
	if !n.ApproxEqual(math3d.V3(1, 0, 0), 1e-9) {
		t.Errorf("normal at side = %v, want (1, 0, 0)", n)
	}
}

func TestFromDocumentSkipsFlatMesh(t *testing.T) {
	doc := sphereDocument()
	doc.Accessors[0].Min = []float64{-1, 0, -1}
	doc.Accessors[0].Max = []float64{1, 0, 1}
	doc.Nodes = []*gltf.Node{{Name: "floor", Mesh: gltf.Index(0)}}

	out, err := NewGLTFLoader().FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if len(out.Spheres) != 0 {
		t.Errorf("got %d spheres, want flat mesh skipped", len(out.Spheres))
	}
}

func TestFromDocumentHierarchy(t *testing.T) {
	doc := sphereDocument()
	doc.Nodes = []*gltf.Node{
		{Name: "group", Translation: [3]float64{5, 0, 0}, Children: []int{1}},
		{Name: "ball", Mesh: gltf.Index(0), Translation: [3]float64{0, 1, 0}},
	}

	out, err := NewGLTFLoader().FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if len(out.Spheres) != 1 {
		t.Fatalf("got %d spheres, want 1", len(out.Spheres))
	}
	got := out.Spheres[0].Transform().Translation()
	if !got.ApproxEqual(math3d.V3(5, 1, 0), 1e-9) {
		t.Errorf("world position = %v, want (5, 1, 0)", got)
	}
}

func TestFromDocumentCycle(t *testing.T) {
	doc := &gltf.Document{
		Nodes: []*gltf.Node{
			{Name: "a", Children: []int{1}},
			{Name: "b", Children: []int{0}},
		},
		Scenes: []*gltf.Scene{{Nodes: []int{0}}},
	}

	_, err := NewGLTFLoader().FromDocument(doc)
	if !errors.Is(err, ErrNodeCycle) {
		t.Errorf("err = %v, want ErrNodeCycle", err)
	}
}

func TestFromDocumentPointLight(t *testing.T) {
	intensity := 2.0
	doc := &gltf.Document{
		Nodes: []*gltf.Node{{
			Name:        "lamp",
			Translation: [3]float64{-10, 10, -10},
			Extensions: gltf.Extensions{
				lightspunctual.ExtensionName: lightspunctual.LightIndex(0),
			},
		}},
		Extensions: gltf.Extensions{
			lightspunctual.ExtensionName: lightspunctual.Lights{
				{Type: lightspunctual.TypePoint, Color: &[3]float64{1, 0.5, 0.25}, Intensity: &intensity},
			},
		},
	}

	loader := NewGLTFLoader()
	loader.LightScale = 0.5
	out, err := loader.FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if len(out.Lights) != 1 {
		t.Fatalf("got %d lights, want 1", len(out.Lights))
	}

	l := out.Lights[0]
	if !l.Position.ApproxEqual(math3d.V3(-10, 10, -10), 1e-9) {
		t.Errorf("position = %v, want (-10, 10, -10)", l.Position)
	}
	if l.Color != RGB(1, 0.5, 0.25) {
		t.Errorf("color = %v, want (1, 0.5, 0.25)", l.Color)
	}
	if math.Abs(l.Intensity-1) > 1e-9 {
		t.Errorf("intensity = %v, want 1", l.Intensity)
	}
}

func TestFromDocumentCamera(t *testing.T) {
	doc := &gltf.Document{
		Cameras: []*gltf.Camera{{
			Name:        "main",
			Perspective: &gltf.Perspective{Yfov: math.Pi / 3, Znear: 0.1},
		}},
		Nodes: []*gltf.Node{{
			Name:        "eye",
			Camera:      gltf.Index(0),
			Translation: [3]float64{0, 0, 5},
		}},
	}

	out, err := NewGLTFLoader().FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if out.Camera == nil {
		t.Fatal("expected a camera")
	}

	// The view transform moves the camera position to the origin.
	got := out.Camera.View.MulVec3(math3d.V3(0, 0, 5))
	if !got.ApproxEqual(math3d.Zero3(), 1e-9) {
		t.Errorf("view * eye = %v, want origin", got)
	}
	if fov := out.Camera.FieldOfView(100, 200); math.Abs(fov-math.Pi/3) > 1e-9 {
		t.Errorf("portrait fov = %v, want yfov", fov)
	}
	if fov := out.Camera.FieldOfView(200, 100); fov <= math.Pi/3 {
		t.Errorf("landscape fov = %v, want wider than yfov", fov)
	}
}

func TestMaterialStripeExtras(t *testing.T) {
	doc := sphereDocument()
	doc.Materials[0].Extras = map[string]any{
		"stripe": []any{
			[]any{1.0, 1.0, 1.0},
			[]any{0.0, 0.0, 0.0},
		},
	}

	m := NewGLTFLoader().material(doc, gltf.Index(0))
	if m.Pattern == nil {
		t.Fatal("expected a stripe pattern")
	}
	if m.Pattern.A != White || m.Pattern.B != Black {
		t.Errorf("pattern = %v, want white/black", *m.Pattern)
	}
}

func TestLoadGLTFRoundTrip(t *testing.T) {
	doc := sphereDocument()
	doc.Buffers = []*gltf.Buffer{{ByteLength: 36, Data: make([]byte, 36)}}
	doc.BufferViews = []*gltf.BufferView{{Buffer: 0, ByteLength: 36}}
	doc.Accessors[0].BufferView = gltf.Index(0)
	doc.Nodes = []*gltf.Node{{Name: "ball", Mesh: gltf.Index(0)}}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	doc.Scene = gltf.Index(0)

	path := filepath.Join(t.TempDir(), "scene.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	out, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if len(out.Spheres) != 1 {
		t.Fatalf("got %d spheres, want 1", len(out.Spheres))
	}
	if out.Spheres[0].Material.Color != RGB(1, 0, 0) {
		t.Errorf("color = %v, want red", out.Spheres[0].Material.Color)
	}
}

func TestFromDocumentSkipsSingularCamera(t *testing.T) {
	doc := &gltf.Document{
		Cameras: []*gltf.Camera{{
			Perspective: &gltf.Perspective{Yfov: math.Pi / 3, Znear: 0.1},
		}},
		Nodes: []*gltf.Node{{
			Name:   "flat",
			Camera: gltf.Index(0),
			Scale:  [3]float64{1, 0, 1},
		}},
	}

	out, err := NewGLTFLoader().FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if out.Camera != nil {
		t.Errorf("camera = %+v, want nil for a singular transform", out.Camera)
	}
}
