package camera

import (
	"fmt"
	"math"
)

// ViewportEncodedLen is the number of floats used to encode a Viewport.
const ViewportEncodedLen = 14

// Report describes the drawable canvas in pixels.
type Report struct {
	CanvasWidth  float64
	CanvasHeight float64
}

// Viewport is the window of grid cells visible through a camera. Fields
// without a Px suffix are grid units.
type Viewport struct {
	CellSizePx     float64
	Width          float64
	WidthPx        float64
	Height         float64
	HeightPx       float64
	WidthStart     float64
	WidthStartPx   float64
	WidthStop      float64
	WidthStopPx    float64
	HeightStart    float64
	HeightStartPx  float64
	HeightStop     float64
	HeightStopPx   float64
	GridSideLength float64
}

// NewViewport returns a viewport for a grid with the given side length.
func NewViewport(sideLength int) *Viewport {
	return &Viewport{CellSizePx: 1, GridSideLength: float64(sideLength)}
}

// Apply recomputes the visible window for cam on a canvas of the reported
// size. When fit is set the window is kept inside the grid and the camera
// X/Y are moved to the clamped window centre.
func (v *Viewport) Apply(cam *Camera, report Report, fit bool) {
	side := v.GridSideLength
	zoom := cam.Z
	if zoom <= 0 {
		zoom = 1
	}

	cell := 1.0
	if side > 0 {
		cell = math.Round(report.CanvasWidth * zoom / side)
	}
	if cell < 1 {
		cell = 1
	}
	v.CellSizePx = cell
	v.WidthPx = report.CanvasWidth
	v.HeightPx = report.CanvasHeight
	v.Width = report.CanvasWidth / cell
	v.Height = report.CanvasHeight / cell

	v.WidthStart = cam.X - v.Width/2
	v.HeightStart = cam.Y - v.Height/2
	if fit {
		v.WidthStart = clampStart(v.WidthStart, side, v.Width)
		v.HeightStart = clampStart(v.HeightStart, side, v.Height)
		cam.X = v.WidthStart + v.Width/2
		cam.Y = v.HeightStart + v.Height/2
	}
	v.WidthStop = v.WidthStart + v.Width
	v.HeightStop = v.HeightStart + v.Height

	v.WidthStartPx = v.WidthStart * cell
	v.WidthStopPx = v.WidthStop * cell
	v.HeightStartPx = v.HeightStart * cell
	v.HeightStopPx = v.HeightStop * cell
}

func clampStart(start, side, span float64) float64 {
	limit := side - span
	if limit < 0 {
		return 0
	}
	if start < 0 {
		return 0
	}
	if start > limit {
		return limit
	}
	return start
}

// Contains reports whether grid coordinate (x, y) lies inside the window.
func (v *Viewport) Contains(x, y float64) bool {
	return x >= v.WidthStart && x < v.WidthStop && y >= v.HeightStart && y < v.HeightStop
}

// ScreenToGrid converts a canvas pixel into grid units.
func (v *Viewport) ScreenToGrid(px, py float64) (float64, float64) {
	return v.WidthStart + px/v.CellSizePx, v.HeightStart + py/v.CellSizePx
}

// GridToScreen converts grid units into a canvas pixel.
func (v *Viewport) GridToScreen(x, y float64) (float64, float64) {
	return (x - v.WidthStart) * v.CellSizePx, (y - v.HeightStart) * v.CellSizePx
}

// Encode flattens the viewport into 14 floats in field order.
func (v *Viewport) Encode() []float64 {
	return []float64{
		v.CellSizePx,
		v.Width, v.WidthPx,
		v.Height, v.HeightPx,
		v.WidthStart, v.WidthStartPx,
		v.WidthStop, v.WidthStopPx,
		v.HeightStart, v.HeightStartPx,
		v.HeightStop, v.HeightStopPx,
		v.GridSideLength,
	}
}

// DecodeViewport reads a buffer produced by Encode.
func DecodeViewport(buf []float64) (*Viewport, error) {
	if len(buf) != ViewportEncodedLen {
		return nil, fmt.Errorf("decode viewport from %d floats: %w", len(buf), ErrEncodingLength)
	}
	return &Viewport{
		CellSizePx:     buf[0],
		Width:          buf[1],
		WidthPx:        buf[2],
		Height:         buf[3],
		HeightPx:       buf[4],
		WidthStart:     buf[5],
		WidthStartPx:   buf[6],
		WidthStop:      buf[7],
		WidthStopPx:    buf[8],
		HeightStart:    buf[9],
		HeightStartPx:  buf[10],
		HeightStop:     buf[11],
		HeightStopPx:   buf[12],
		GridSideLength: buf[13],
	}, nil
}
