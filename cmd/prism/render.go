package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/prism/pkg/render"
)

func newRenderCmd(flags *sceneFlags) *cobra.Command {
	var (
		output  string
		quality int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to a PNG or JPEG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if quality < 1 || quality > 100 {
				return fmt.Errorf("quality %d out of range 1-100", quality)
			}
			save, err := sinkFor(output, quality)
			if err != nil {
				return err
			}

			world, camera, err := flags.load(flags.width, flags.height)
			if err != nil {
				return err
			}
			log.Debug("scene ready",
				"objects", len(world.Objects),
				"lights", len(world.Lights),
				"size", fmt.Sprintf("%dx%d", camera.HSize, camera.VSize))

			start := time.Now()
			canvas := camera.RenderRows(world, progress(camera.VSize))
			elapsed := time.Since(start)

			if err := save(canvas); err != nil {
				return err
			}
			log.Info("rendered",
				"scene", flags.name(),
				"size", fmt.Sprintf("%dx%d", canvas.Width, canvas.Height),
				"elapsed", elapsed.Round(time.Millisecond),
				"output", output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&flags.width, "width", "W", 0, "image width in pixels (0 keeps the scene's)")
	cmd.Flags().IntVarP(&flags.height, "height", "H", 0, "image height in pixels (0 keeps the scene's)")
	cmd.Flags().StringVarP(&output, "output", "o", "prism.png", "output file, .png or .jpg/.jpeg")
	cmd.Flags().IntVarP(&quality, "quality", "q", 90, "JPEG quality (1-100)")
	return cmd
}

// sinkFor picks the image encoder from the output extension.
func sinkFor(path string, quality int) (func(*render.Canvas) error, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return func(c *render.Canvas) error { return c.SavePNG(path) }, nil
	case ".jpg", ".jpeg":
		return func(c *render.Canvas) error { return c.SaveJPEG(path, quality) }, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q (use .png, .jpg or .jpeg)", ext)
	}
}

// progress logs every quarter of the rows at debug level.
func progress(rows int) func(y int) {
	step := max(rows/4, 1)
	return func(y int) {
		done := y + 1
		if done%step == 0 || done == rows {
			log.Debug("rendering", "rows", fmt.Sprintf("%d/%d", done, rows))
		}
	}
}
