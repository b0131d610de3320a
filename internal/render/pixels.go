package render

import (
	"image/color"
	"math"

	"canvas-grid/pkg/camera"
	"canvas-grid/pkg/grid"

	"github.com/zyedidia/generic/mapset"
)

// fogScale darkens cells outside the visible set.
const fogScale = 0.35

// DefaultPalette colours the scene terrain values, indexed by cell value.
var DefaultPalette = map[uint8]color.RGBA{
	0: {R: 40, G: 42, B: 48, A: 255},
	1: {R: 196, G: 192, B: 180, A: 255},
	2: {R: 112, G: 84, B: 52, A: 255},
	4: {R: 48, G: 96, B: 170, A: 255},
}

// Window is the block of whole cells covering a viewport.
type Window struct {
	X0, Y0 int
	W, H   int
}

// WindowFor returns the cells a viewport touches, clipped to the grid.
func WindowFor(vp *camera.Viewport) Window {
	side := int(vp.GridSideLength)
	x0 := clampInt(int(math.Floor(vp.WidthStart)), 0, side)
	y0 := clampInt(int(math.Floor(vp.HeightStart)), 0, side)
	x1 := clampInt(int(math.Ceil(vp.WidthStop)), 0, side)
	y1 := clampInt(int(math.Ceil(vp.HeightStop)), 0, side)
	return Window{X0: x0, Y0: y0, W: x1 - x0, H: y1 - y0}
}

// fillWindowRGBA writes one pixel per cell of win into buf, row by row
// along the grid y axis. Cells outside visible are dimmed; a nil visible
// set leaves every cell lit. Values missing from palette draw transparent.
func fillWindowRGBA(buf []byte, g *grid.Grid[uint8], win Window, palette map[uint8]color.RGBA, visible *mapset.Set[int]) {
	side := g.SideLength()
	data := g.Data()
	for py := 0; py < win.H; py++ {
		for px := 0; px < win.W; px++ {
			idx := (win.X0+px)*side + win.Y0 + py
			base := (py*win.W + px) * 4
			col, ok := palette[data[idx]]
			if !ok {
				buf[base+0], buf[base+1], buf[base+2], buf[base+3] = 0, 0, 0, 0
				continue
			}
			if visible != nil && !visible.Has(idx) {
				col.R = uint8(float64(col.R) * fogScale)
				col.G = uint8(float64(col.G) * fogScale)
				col.B = uint8(float64(col.B) * fogScale)
			}
			buf[base+0] = col.R
			buf[base+1] = col.G
			buf[base+2] = col.B
			buf[base+3] = col.A
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
