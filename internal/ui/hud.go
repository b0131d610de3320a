//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var keyHelp = []string{
	"click   walk to cell",
	"rmb     paint brush",
	"f       flood fill",
	"tab     next brush",
	"wasd    pan  q/e turn",
	"wheel   zoom",
	"space   pause moves",
	"h/g     heuristic/diag",
	"v       fog  1/2 layers",
	"n       new seed",
	"f5/f9   save/load",
}

// HUD renders the info panel to the right of the grid view.
type HUD struct {
	width      int
	panel      *ebiten.Image
	lastHeight int
	lines      []string
}

// NewHUD constructs a HUD with the given panel width.
func NewHUD(width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{width: width}
}

// Update replaces the status lines shown on the next Draw.
func (h *HUD) Update(lines []string) {
	if h == nil {
		return
	}
	h.lines = lines
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, "Grid", face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	y += infoSpacing
	for _, line := range h.lines {
		text.Draw(h.panel, line, face, panelPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
		y += lineHeight
	}
	y += infoSpacing
	for _, line := range keyHelp {
		text.Draw(h.panel, line, face, panelPadding, y, color.RGBA{R: 140, G: 140, B: 150, A: 255})
		y += lineHeight
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

const (
	panelPadding   = 12
	lineHeight     = 16
	headerBaseline = 18
	infoSpacing    = 24
)
