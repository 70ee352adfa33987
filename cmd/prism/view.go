package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/render"
	"github.com/taigrr/prism/pkg/scene"
	"github.com/taigrr/prism/pkg/trace"
	"golang.org/x/sync/errgroup"
)

// errQuit ends the viewer without reporting an error.
var errQuit = errors.New("quit")

func newViewCmd(flags *sceneFlags) *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Orbit a scene live in the terminal",
		Long: "Traces the scene at terminal resolution every frame.\n\n" +
			"Controls:\n" +
			"  Mouse drag  - Orbit\n" +
			"  Scroll      - Zoom in/out\n" +
			"  W/S/A/D     - Orbit up/down/left/right\n" +
			"  +/-         - Zoom\n" +
			"  Space       - Random spin\n" +
			"  L           - Toggle headlight (first light follows the camera)\n" +
			"  R           - Reset view\n" +
			"  ?           - Toggle HUD overlay\n" +
			"  Q/Esc       - Quit",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps < 1 {
				return fmt.Errorf("fps must be positive, got %d", fps)
			}
			world, camera, err := flags.load(0, 0)
			if err != nil {
				return err
			}
			return runView(cmd.Context(), flags.name(), world, camera, fps)
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 30, "target frames per second")
	return cmd
}

// viewer is the frame loop state. It is owned by the frame goroutine; the
// input goroutine only sends it functions to run.
type viewer struct {
	world  *trace.World
	orbit  *Orbit
	fov    float64
	width  int
	height int

	hud       *HUD
	showHUD   bool
	headlight bool
	homeLight math3d.Vec3

	dragging     bool
	lastX, lastY int
}

func newViewer(name string, world *trace.World, camera *render.Camera, fps int) *viewer {
	target := math3d.Zero3()
	if len(world.Objects) > 0 {
		target, _ = scene.Bounds(world.Objects)
	}

	v := &viewer{
		world: world,
		orbit: NewOrbit(fps, target, camera.Position()),
		fov:   camera.FieldOfView,
		hud:   NewHUD(name, len(world.Objects)),
	}
	if len(world.Lights) > 0 {
		v.homeLight = world.Lights[0].Position
	}
	return v
}

// frame traces the current view into a canvas sized for the terminal.
func (v *viewer) frame() (*render.Canvas, error) {
	v.orbit.Update()
	if v.headlight && len(v.world.Lights) > 0 {
		v.world.Lights[0].Position = v.orbit.Eye().Add(math3d.V3(0, 1, 0))
	}

	// Half-block cells hold two pixels per row.
	camera := render.NewCamera(v.width, v.height*2, v.fov)
	if err := camera.SetTransform(v.orbit.View()); err != nil {
		return nil, fmt.Errorf("orbit camera: %w", err)
	}
	return camera.Render(v.world), nil
}

func (v *viewer) toggleHeadlight() {
	if len(v.world.Lights) == 0 {
		return
	}
	v.headlight = !v.headlight
	if !v.headlight {
		v.world.Lights[0].Position = v.homeLight
	}
}

// handle translates a terminal event into a change of viewer state. It
// returns errQuit when the user asks to leave.
func handle(ev uv.Event) func(v *viewer) error {
	const torque = 0.04

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		return func(v *viewer) error {
			v.width, v.height = ev.Width, ev.Height
			return nil
		}

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("q", "escape", "ctrl+c"):
			return func(*viewer) error { return errQuit }
		case ev.MatchString("w", "up"):
			return func(v *viewer) error { v.orbit.ApplyImpulse(torque, 0); return nil }
		case ev.MatchString("s", "down"):
			return func(v *viewer) error { v.orbit.ApplyImpulse(-torque, 0); return nil }
		case ev.MatchString("a", "left"):
			return func(v *viewer) error { v.orbit.ApplyImpulse(0, torque); return nil }
		case ev.MatchString("d", "right"):
			return func(v *viewer) error { v.orbit.ApplyImpulse(0, -torque); return nil }
		case ev.MatchString("+", "="):
			return func(v *viewer) error { v.orbit.Zoom(0.9); return nil }
		case ev.MatchString("-", "_"):
			return func(v *viewer) error { v.orbit.Zoom(1.1); return nil }
		case ev.MatchString("space"):
			pitch := (rand.Float64() - 0.5) * 0.2
			yaw := (rand.Float64() - 0.5) * 0.4
			return func(v *viewer) error { v.orbit.ApplyImpulse(pitch, yaw); return nil }
		case ev.MatchString("r"):
			return func(v *viewer) error { v.orbit.Reset(); return nil }
		case ev.MatchString("l"):
			return func(v *viewer) error { v.toggleHeadlight(); return nil }
		case ev.MatchString("?"), ev.MatchString("shift+/"):
			return func(v *viewer) error { v.showHUD = !v.showHUD; return nil }
		}

	case uv.MouseClickEvent:
		return func(v *viewer) error {
			v.dragging = true
			v.lastX, v.lastY = ev.X, ev.Y
			return nil
		}

	case uv.MouseReleaseEvent:
		return func(v *viewer) error { v.dragging = false; return nil }

	case uv.MouseMotionEvent:
		return func(v *viewer) error {
			if v.dragging {
				dx, dy := ev.X-v.lastX, ev.Y-v.lastY
				v.orbit.ApplyImpulse(float64(dy)*0.01, float64(-dx)*0.01)
				v.lastX, v.lastY = ev.X, ev.Y
			}
			return nil
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			return func(v *viewer) error { v.orbit.Zoom(0.9); return nil }
		case uv.MouseWheelDown:
			return func(v *viewer) error { v.orbit.Zoom(1.1); return nil }
		}
	}
	return nil
}

func runView(ctx context.Context, name string, world *trace.World, camera *render.Camera, fps int) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1002h") // Enable button-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1002l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			log.Debug("terminal shutdown", "err", err)
		}
	}()

	v := newViewer(name, world, camera, fps)
	v.width, v.height = width, height

	updates := make(chan func(*viewer) error, 64)
	g, ctx := errgroup.WithContext(ctx)

	// Input: turn terminal events into updates for the frame loop.
	g.Go(func() error {
		events := term.Events()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return errQuit
				}
				update := handle(ev)
				if update == nil {
					continue
				}
				select {
				case updates <- update:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})

	// Frames: apply pending updates, trace, draw.
	g.Go(func() error {
		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case update := <-updates:
				prevW, prevH := v.width, v.height
				if err := update(v); err != nil {
					return err
				}
				if v.width != prevW || v.height != prevH {
					term.Erase()
					term.Resize(v.width, v.height)
				}
				continue
			case <-ticker.C:
			}

			if v.width <= 0 || v.height <= 0 {
				continue
			}

			start := time.Now()
			canvas, err := v.frame()
			if err != nil {
				return err
			}
			traced := time.Since(start)

			canvas.Draw(term, uv.Rect(0, 0, v.width, v.height))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}

			v.hud.UpdateFPS(traced)
			v.hud.Render(v.width, v.height, v.showHUD, v.headlight)
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}
