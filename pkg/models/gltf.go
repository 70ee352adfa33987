package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"
	"github.com/taigrr/prism/pkg/math3d"
)

// ErrNodeCycle is returned when a glTF node hierarchy refers back to itself.
var ErrNodeCycle = errors.New("node hierarchy contains a cycle")

// Document is the renderable content of a glTF file.
type Document struct {
	Spheres []Sphere
	Lights  []PointLight
	Camera  *CameraNode // nil when the file has no perspective camera
}

// CameraNode is a perspective camera found in a glTF file.
type CameraNode struct {
	Name        string
	View        math3d.Mat4 // world to camera
	YFov        float64     // vertical field of view in radians
	AspectRatio float64     // 0 when the file leaves it to the viewport
}

// FieldOfView converts the vertical field of view into the angle a
// render.Camera expects, which spans the wider of the two image axes.
func (c *CameraNode) FieldOfView(hsize, vsize int) float64 {
	aspect := float64(hsize) / float64(vsize)
	if aspect <= 1 {
		return c.YFov
	}
	return 2 * math.Atan(math.Tan(c.YFov/2)*aspect)
}

// GLTFLoader turns glTF/GLB scenes into spheres, point lights and a camera.
//
// Every node with a mesh becomes a sphere fitted to the bounds of its first
// POSITION accessor and placed by the node's world transform, so a UV sphere
// exported from a modelling tool lands exactly where it was drawn. Point
// lights come from KHR_lights_punctual; other light types are skipped.
type GLTFLoader struct {
	// Material used for primitives without a glTF material.
	DefaultMaterial Material
	// LightScale multiplies every imported light intensity.
	LightScale float64
	// Logger receives debug messages about skipped nodes.
	Logger *log.Logger
}

// NewGLTFLoader creates a new glTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		DefaultMaterial: DefaultMaterial(),
		LightScale:      1,
		Logger:          log.Default(),
	}
}

// LoadGLTF loads a .gltf or .glb file with the default loader.
func LoadGLTF(path string) (*Document, error) {
	return NewGLTFLoader().Load(path)
}

// Load opens a glTF or GLB file and converts it.
func (l *GLTFLoader) Load(path string) (*Document, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.FromDocument(doc)
}

// FromDocument converts an already decoded glTF document.
func (l *GLTFLoader) FromDocument(doc *gltf.Document) (*Document, error) {
	w := &walker{
		loader:  l,
		doc:     doc,
		out:     &Document{},
		visited: make(map[int]bool),
	}
	for _, root := range rootNodes(doc) {
		if err := w.visit(root, math3d.Identity()); err != nil {
			return nil, err
		}
	}
	return w.out, nil
}

// rootNodes returns the nodes of the default scene, falling back to every
// node that is nobody's child.
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

type walker struct {
	loader  *GLTFLoader
	doc     *gltf.Document
	out     *Document
	visited map[int]bool
}

func (w *walker) visit(idx int, parent math3d.Mat4) error {
	if idx < 0 || idx >= len(w.doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	if w.visited[idx] {
		return fmt.Errorf("node %d: %w", idx, ErrNodeCycle)
	}
	w.visited[idx] = true
	defer delete(w.visited, idx)

	node := w.doc.Nodes[idx]
	world := parent.Mul(localTransform(node))

	if node.Mesh != nil {
		if err := w.addSphere(node, world); err != nil {
			return err
		}
	}
	if node.Camera != nil && w.out.Camera == nil {
		w.addCamera(node, world)
	}
	if light, ok := node.Extensions[lightspunctual.ExtensionName]; ok {
		w.addLight(node, light, world)
	}

	for _, child := range node.Children {
		if err := w.visit(child, world); err != nil {
			return err
		}
	}
	return nil
}

// localTransform returns the node's matrix, or its TRS properties when no
// explicit matrix is set.
func localTransform(n *gltf.Node) math3d.Mat4 {
	if m := math3d.Mat4(n.MatrixOrDefault()); m != math3d.Identity() {
		return m
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return math3d.TRS(
		math3d.V3(t[0], t[1], t[2]),
		math3d.Quat(r[0], r[1], r[2], r[3]),
		math3d.V3(s[0], s[1], s[2]),
	)
}

func (w *walker) addSphere(node *gltf.Node, world math3d.Mat4) error {
	if *node.Mesh >= len(w.doc.Meshes) {
		return fmt.Errorf("node %q: mesh index %d out of range", node.Name, *node.Mesh)
	}
	mesh := w.doc.Meshes[*node.Mesh]

	fit := math3d.Identity()
	var material *int
	for _, prim := range mesh.Primitives {
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok || posIdx >= len(w.doc.Accessors) {
			continue
		}
		material = prim.Material
		acc := w.doc.Accessors[posIdx]
		if len(acc.Min) >= 3 && len(acc.Max) >= 3 {
			lo := math3d.V3(acc.Min[0], acc.Min[1], acc.Min[2])
			hi := math3d.V3(acc.Max[0], acc.Max[1], acc.Max[2])
			fit = math3d.Translate(lo.Add(hi).Scale(0.5)).Mul(math3d.Scale(hi.Sub(lo).Scale(0.5)))
		}
		break
	}

	s := UnitSphere()
	s.Name = node.Name
	if s.Name == "" {
		s.Name = mesh.Name
	}
	s.Material = w.loader.material(w.doc, material)
	if err := s.SetTransform(world.Mul(fit)); err != nil {
		// Flat meshes cannot be fitted by a sphere.
		w.loader.Logger.Debug("skipping degenerate mesh node", "node", s.Name, "err", err)
		return nil
	}
	w.out.Spheres = append(w.out.Spheres, s)
	return nil
}

func (w *walker) addCamera(node *gltf.Node, world math3d.Mat4) {
	if *node.Camera >= len(w.doc.Cameras) {
		w.loader.Logger.Debug("camera index out of range", "node", node.Name, "index", *node.Camera)
		return
	}
	cam := w.doc.Cameras[*node.Camera]
	if cam.Perspective == nil {
		w.loader.Logger.Debug("skipping non-perspective camera", "node", node.Name)
		return
	}
	if !world.Invertible() {
		w.loader.Logger.Debug("skipping camera with singular transform", "node", node.Name)
		return
	}
	c := &CameraNode{
		Name: node.Name,
		View: world.Inverse(),
		YFov: cam.Perspective.Yfov,
	}
	if cam.Perspective.AspectRatio != nil {
		c.AspectRatio = *cam.Perspective.AspectRatio
	}
	w.out.Camera = c
}

func (w *walker) addLight(node *gltf.Node, ext any, world math3d.Mat4) {
	idx, ok := ext.(lightspunctual.LightIndex)
	if !ok {
		w.loader.Logger.Debug("unrecognized light reference", "node", node.Name)
		return
	}
	lights, ok := w.doc.Extensions[lightspunctual.ExtensionName].(lightspunctual.Lights)
	if !ok || int(idx) >= len(lights) {
		w.loader.Logger.Debug("light index without light definition", "node", node.Name, "index", idx)
		return
	}

	def := lights[idx]
	if def.Type != lightspunctual.TypePoint {
		w.loader.Logger.Debug("skipping non-point light", "node", node.Name, "type", def.Type)
		return
	}
	c := def.ColorOrDefault()
	w.out.Lights = append(w.out.Lights, PointLight{
		Position:  world.Translation(),
		Color:     RGB(c[0], c[1], c[2]),
		Intensity: def.IntensityOrDefault() * w.loader.LightScale,
	})
}

// material converts a glTF PBR material into Phong parameters. Rough
// surfaces get a weak, wide highlight; smooth ones a strong, tight one.
func (l *GLTFLoader) material(doc *gltf.Document, idx *int) Material {
	m := l.DefaultMaterial
	if idx == nil || *idx >= len(doc.Materials) {
		return m
	}
	gm := doc.Materials[*idx]
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		base := pbr.BaseColorFactorOrDefault()
		m.Color = RGB(base[0], base[1], base[2])
		smooth := 1 - pbr.RoughnessFactorOrDefault()
		m.Specular = 0.9 * smooth
		m.Shininess = 1 + 199*smooth*smooth
	}
	if p, ok := stripeFromExtras(gm.Extras); ok {
		m.Pattern = p
	}
	return m
}

// stripeFromExtras reads an optional {"stripe": [[r,g,b], [r,g,b]]} entry
// from a material's extras.
func stripeFromExtras(extras any) (*Pattern, bool) {
	fields, ok := extras.(map[string]any)
	if !ok {
		return nil, false
	}
	pair, ok := fields["stripe"].([]any)
	if !ok || len(pair) != 2 {
		return nil, false
	}
	a, okA := colorFromJSON(pair[0])
	b, okB := colorFromJSON(pair[1])
	if !okA || !okB {
		return nil, false
	}
	return NewStripePattern(a, b), true
}

func colorFromJSON(v any) (Color, bool) {
	rgb, ok := v.([]any)
	if !ok || len(rgb) < 3 {
		return Color{}, false
	}
	var ch [3]float64
	for i := range ch {
		f, ok := rgb[i].(float64)
		if !ok {
			return Color{}, false
		}
		ch[i] = f
	}
	return RGB(ch[0], ch[1], ch[2]), true
}
