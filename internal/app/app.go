//go:build ebiten

package app

import (
	"image/color"
	"math"
	"time"

	"canvas-grid/internal/log"
	"canvas-grid/internal/render"
	"canvas-grid/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	panelWidth = 240
	panStep    = 4
	moveTime   = 180 * time.Millisecond
)

// Game adapts a Session to the ebiten.Game interface.
type Game struct {
	session *Session
	logger  *log.Logger
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD

	width, height int
	cursor        int
	hasCursor     bool
	fog           bool
}

// New constructs a Game around s.
func New(s *Session, logger *log.Logger, width, height int) *Game {
	s.Resize(width, height)
	return &Game{
		session: s,
		logger:  logger,
		painter: render.NewGridPainter(nil),
		overlay: ui.NewOverlay(),
		hud:     ui.NewHUD(panelWidth),
		width:   width,
		height:  height,
		fog:     true,
	}
}

// Update handles per-frame input and advances camera animation.
func (g *Game) Update() error {
	s := g.session
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleCamera()
	g.handleEditing()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		s.CycleHeuristic()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		s.ToggleDiagonal()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.fog = !g.fog
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		s.Regenerate(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := s.Save(); err != nil {
			g.logger.Warnf("save: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		if err := s.Load(); err != nil {
			g.logger.Warnf("load: %v", err)
		}
	}
	g.overlay.Update()

	s.Update(time.Now())
	mx, my := ebiten.CursorPosition()
	g.cursor, g.hasCursor = -1, false
	if mx < g.width {
		g.cursor, g.hasCursor = s.CellAt(mx, my)
	}
	g.hud.Update(s.Stats(g.cursor, g.hasCursor))
	return nil
}

func (g *Game) handleCamera() {
	s := g.session
	dx, dy := 0.0, 0.0
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		dx -= panStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		dx += panStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyW) {
		dy -= panStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyS) {
		dy += panStep
	}
	if dx != 0 || dy != 0 {
		s.Pan(dx, dy, moveTime)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		s.Rotate(math.Pi/8, moveTime)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		s.Rotate(-math.Pi/8, moveTime)
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		factor := 1.25
		if wy < 0 {
			factor = 1 / factor
		}
		s.Zoom(factor, moveTime)
	}
}

func (g *Game) handleEditing() {
	s := g.session
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		s.CycleBrush()
	}
	if !g.hasCursor {
		return
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if err := s.WalkTo(g.cursor); err != nil {
			g.logger.Debugf("walk to %d: %v", g.cursor, err)
		}
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		if err := s.Paint(g.cursor); err != nil {
			g.logger.Debugf("paint %d: %v", g.cursor, err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		n, err := s.FillAt(g.cursor)
		if err != nil {
			g.logger.Debugf("fill %d: %v", g.cursor, err)
		}
		g.logger.Debugf("filled %d cells", n)
	}
}

// Draw renders the visible window, overlays and the info panel.
func (g *Game) Draw(screen *ebiten.Image) {
	s := g.session
	screen.Fill(color.Black)
	if g.fog {
		g.painter.Draw(screen, s.Grid, s.View, &s.Visible.Cells)
	} else {
		g.painter.Draw(screen, s.Grid, s.View, nil)
	}
	g.overlay.Draw(screen, s.View, *s.Cam, s.Path, &s.Visible)
	g.hud.Draw(screen, g.width, g.height)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width + panelWidth, g.height
}
