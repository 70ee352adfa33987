// prism - a small ray tracer for spheres
// Renders built-in scenes or glTF files to PNG/JPEG, or live in the terminal.
//
// Usage:
//
//	prism render --scene spheres -o spheres.png
//	prism render --gltf scene.glb --width 640 --height 480 -o scene.jpg
//	prism view --scene stripes
//	prism scenes
package main

import (
	"context"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/prism/pkg/render"
	"github.com/taigrr/prism/pkg/scene"
	"github.com/taigrr/prism/pkg/trace"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// sceneFlags selects and sizes the scene shared by render and view.
type sceneFlags struct {
	scene   string
	gltf    string
	width   int
	height  int
	fov     float64 // degrees, 0 keeps the scene's own
	verbose bool
}

func newRootCmd() *cobra.Command {
	var flags sceneFlags

	root := &cobra.Command{
		Use:   "prism",
		Short: "Ray trace spheres to images or the terminal",
		Long: "prism traces one ray per pixel through a scene of spheres and point lights,\n" +
			"shading hits with the Phong model and hard shadows.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.scene, "scene", "s", "default", "built-in scene name (see prism scenes)")
	pf.StringVarP(&flags.gltf, "gltf", "g", "", "load a .gltf or .glb file instead of a built-in scene")
	pf.Float64Var(&flags.fov, "fov", 0, "field of view in degrees (0 keeps the scene's)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRenderCmd(&flags),
		newViewCmd(&flags),
		newScenesCmd(),
	)
	return root
}

// load builds the selected scene, with width and height overriding the
// scene's camera when non-zero.
func (f *sceneFlags) load(width, height int) (*trace.World, *render.Camera, error) {
	opts := scene.Options{
		Width:  width,
		Height: height,
		FOV:    f.fov * math.Pi / 180,
	}
	if f.gltf != "" {
		log.Debug("loading gltf", "path", f.gltf)
		return scene.FromGLTF(f.gltf, opts, log.Default())
	}
	log.Debug("loading built-in scene", "scene", f.scene)
	return scene.Load(f.scene, opts)
}

// name is a label for the selected scene.
func (f *sceneFlags) name() string {
	if f.gltf != "" {
		return f.gltf
	}
	return f.scene
}
