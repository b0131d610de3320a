//go:build ebiten

package ui

import (
	"image/color"

	"canvas-grid/pkg/camera"
	"canvas-grid/pkg/raycast"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	rayColor    = color.RGBA{R: 250, G: 220, B: 120, A: 90}
	hitColor    = color.RGBA{R: 250, G: 120, B: 80, A: 220}
	pathColor   = color.RGBA{R: 90, G: 220, B: 140, A: 230}
	cameraColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Overlay draws the ray fan, the planned path and the camera marker on top
// of the grid.
type Overlay struct {
	showRays bool
	showPath bool
}

// NewOverlay constructs a new overlay instance.
func NewOverlay() *Overlay {
	return &Overlay{showRays: true, showPath: true}
}

// Update toggles layers: 1 rays, 2 path.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showRays = !o.showRays
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showPath = !o.showPath
	}
}

// Draw renders the enabled layers. path holds grid indices, start excluded.
func (o *Overlay) Draw(screen *ebiten.Image, vp *camera.Viewport, cam camera.Camera, path []int, cast *raycast.Result) {
	cx, cy := vp.GridToScreen(cam.X, cam.Y)
	side := int(vp.GridSideLength)

	if o.showRays && cast != nil {
		for i := 0; i < cast.RayCount(); i++ {
			hit := cast.Hit(i)
			hx, hy := vp.GridToScreen(hit.X, hit.Y)
			vector.StrokeLine(screen, float32(cx), float32(cy), float32(hx), float32(hy), 1, rayColor, true)
			if hit.Collision {
				vector.DrawFilledCircle(screen, float32(hx), float32(hy), 2, hitColor, true)
			}
		}
	}

	if o.showPath && len(path) > 0 && side > 0 {
		px, py := cx, cy
		for _, idx := range path {
			x, y := float64(idx/side)+0.5, float64(idx%side)+0.5
			sx, sy := vp.GridToScreen(x, y)
			vector.StrokeLine(screen, float32(px), float32(py), float32(sx), float32(sy), 2, pathColor, true)
			px, py = sx, sy
		}
	}

	r := float32(vp.CellSizePx / 3)
	if r < 2 {
		r = 2
	}
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), r, cameraColor, true)
}
