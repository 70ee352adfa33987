package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// Draw paints the canvas onto a terminal screen with half-block cells.
// Each terminal row shows two canvas rows: ▀ with the top pixel as
// foreground and the bottom pixel as background. A canvas meant for an
// area of N rows should therefore be 2N pixels tall.
func (c *Canvas) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		if topY >= c.Height {
			break
		}
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= c.Width {
				break
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: c.GetPixel(x, topY),
				},
			}
			// The last row of an odd-height canvas has no bottom half.
			if botY < c.Height {
				cell.Style.Bg = c.GetPixel(x, botY)
			}
			scr.SetCell(col, row, cell)
		}
	}
}
