package camera

import (
	"math"
	"testing"
)

func TestViewportCellSizeMatchesCanvas(t *testing.T) {
	v := NewViewport(64)
	cam := New(0, 32, 32, 2)
	v.Apply(cam, Report{CanvasWidth: 640, CanvasHeight: 480}, false)

	if v.CellSizePx != 20 {
		t.Fatalf("cell size=%f want 20", v.CellSizePx)
	}
	if v.Width*v.CellSizePx != 640 {
		t.Fatalf("width*cell=%f want 640", v.Width*v.CellSizePx)
	}
	if v.Width != 32 || v.Height != 24 {
		t.Fatalf("window %fx%f want 32x24", v.Width, v.Height)
	}
	if v.WidthStart != 16 || v.WidthStop != 48 {
		t.Fatalf("width window [%f,%f) want [16,48)", v.WidthStart, v.WidthStop)
	}
	if v.HeightStartPx != 20*20 {
		t.Fatalf("height start px=%f want 400", v.HeightStartPx)
	}
}

func TestViewportMinimumCellSize(t *testing.T) {
	v := NewViewport(1000)
	v.Apply(New(0, 0, 0, 0.1), Report{CanvasWidth: 100, CanvasHeight: 100}, false)
	if v.CellSizePx != 1 {
		t.Fatalf("cell size=%f want 1", v.CellSizePx)
	}
}

func TestViewportFitClampsCamera(t *testing.T) {
	v := NewViewport(10)
	cam := New(0, -5, 20, 2)
	v.Apply(cam, Report{CanvasWidth: 100, CanvasHeight: 100}, true)

	if v.Width != 5 {
		t.Fatalf("width=%f want 5", v.Width)
	}
	if v.WidthStart != 0 || v.HeightStart != 5 {
		t.Fatalf("starts (%f,%f) want (0,5)", v.WidthStart, v.HeightStart)
	}
	if cam.X != 2.5 || cam.Y != 7.5 {
		t.Fatalf("camera moved to (%f,%f) want (2.5,7.5)", cam.X, cam.Y)
	}

	cam = New(0, 5, 5, 0.5)
	v.Apply(cam, Report{CanvasWidth: 100, CanvasHeight: 100}, true)
	if v.WidthStart != 0 || v.HeightStart != 0 {
		t.Fatalf("oversized view should pin to origin, got (%f,%f)", v.WidthStart, v.HeightStart)
	}
}

func TestViewportScreenConversions(t *testing.T) {
	v := NewViewport(64)
	v.Apply(New(0, 32, 32, 2), Report{CanvasWidth: 640, CanvasHeight: 480}, false)
	gx, gy := v.ScreenToGrid(100, 60)
	if gx != 21 || gy != 23 {
		t.Fatalf("screen->grid (%f,%f) want (21,23)", gx, gy)
	}
	px, py := v.GridToScreen(gx, gy)
	if math.Abs(px-100) > 1e-9 || math.Abs(py-60) > 1e-9 {
		t.Fatalf("grid->screen (%f,%f) want (100,60)", px, py)
	}
	if !v.Contains(gx, gy) || v.Contains(0, 0) {
		t.Fatal("contains mismatch")
	}
}

func TestViewportEncodeRoundTrip(t *testing.T) {
	v := NewViewport(16)
	v.Apply(New(0, 8, 8, 1), Report{CanvasWidth: 320, CanvasHeight: 200}, true)
	buf := v.Encode()
	if len(buf) != ViewportEncodedLen {
		t.Fatalf("encoded len=%d", len(buf))
	}
	if buf[0] != v.CellSizePx || buf[13] != 16 {
		t.Fatalf("field order mismatch: %v", buf)
	}
	back, err := DecodeViewport(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *back != *v {
		t.Fatalf("decoded %+v want %+v", *back, *v)
	}
}
