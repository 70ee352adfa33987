package main

import (
	"fmt"
	"time"
)

// HUD renders an overlay with scene info and frame timing
type HUD struct {
	name      string
	spheres   int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	frameTime time.Duration
}

// NewHUD creates a new HUD
func NewHUD(name string, spheres int) *HUD {
	return &HUD{
		name:    name,
		spheres: spheres,
		fpsTime: time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame) and records how
// long the trace took.
func (h *HUD) UpdateFPS(traced time.Duration) {
	h.frameTime = traced
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, show, headlight bool) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if !show {
		return
	}

	// Top left: FPS and trace time
	fmt.Printf("%s%s%s %.0f FPS %s%v %s", moveTo(1, 1), bgBlack, fgGreen, h.fps,
		dim, h.frameTime.Round(time.Millisecond), reset)

	// Top middle: scene name
	title := fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.name, reset)
	titleCol := max((width-len(h.name)-2)/2, 1)
	fmt.Print(moveTo(1, titleCol) + title)

	// Top right: sphere count
	count := fmt.Sprintf("%s%s%s %d spheres %s", bgBlack, fgCyan, bold, h.spheres, reset)
	fmt.Print(moveTo(1, max(width-13, 1)) + count)

	check := "[ ]"
	if headlight {
		check = "[✓]"
	}
	fmt.Print(moveTo(height, 1) + fmt.Sprintf("%s%s %s Headlight %s", bgBlack, fgWhite, check, reset))

	hint := fmt.Sprintf("%s%s%s L: headlight  R: reset %s", bgBlack, dim, fgYellow, reset)
	fmt.Print(moveTo(height, max(width-24, 1)) + hint)
}
