//go:build ebiten

package render

import (
	"image/color"

	"canvas-grid/pkg/camera"
	"canvas-grid/pkg/grid"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/zyedidia/generic/mapset"
)

// GridPainter uploads the visible window of a grid into an image and
// draws it scaled to the viewport.
type GridPainter struct {
	palette map[uint8]color.RGBA
	img     *ebiten.Image
	buf     []byte
	win     Window
}

// NewGridPainter returns a painter using palette, or DefaultPalette when nil.
func NewGridPainter(palette map[uint8]color.RGBA) *GridPainter {
	if palette == nil {
		palette = DefaultPalette
	}
	return &GridPainter{palette: palette}
}

// Draw paints the cells under vp onto dst. visible may be nil.
func (gp *GridPainter) Draw(dst *ebiten.Image, g *grid.Grid[uint8], vp *camera.Viewport, visible *mapset.Set[int]) {
	win := WindowFor(vp)
	if win.W <= 0 || win.H <= 0 {
		return
	}
	if gp.img == nil || gp.win.W != win.W || gp.win.H != win.H {
		gp.img = ebiten.NewImage(win.W, win.H)
		gp.buf = make([]byte, 4*win.W*win.H)
	}
	gp.win = win
	fillWindowRGBA(gp.buf, g, win, gp.palette, visible)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(vp.CellSizePx, vp.CellSizePx)
	x, y := vp.GridToScreen(float64(win.X0), float64(win.Y0))
	op.GeoM.Translate(x, y)
	dst.DrawImage(gp.img, op)
}
