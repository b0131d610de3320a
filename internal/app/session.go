package app

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"canvas-grid/internal/core"
	"canvas-grid/internal/log"
	"canvas-grid/internal/store"
	"canvas-grid/pkg/astar"
	"canvas-grid/pkg/camera"
	"canvas-grid/pkg/editor"
	"canvas-grid/pkg/grid"
	"canvas-grid/pkg/motion"
	"canvas-grid/pkg/raycast"
)

// ErrUnknownScene is returned when the configured scene is not registered.
var ErrUnknownScene = errors.New("app: unknown scene")

var heuristics = []astar.Heuristic{
	astar.Default, astar.None, astar.Manhattan, astar.Chebyshev, astar.Euclidean, astar.Diagonal,
}

// Session is the viewer state independent of the window toolkit: the grid,
// its camera and the searches run against it.
type Session struct {
	cfg    *Config
	logger *log.Logger
	store  store.Storage

	scene core.Scene
	seed  int64

	Grid   *grid.Grid[uint8]
	Cam    *camera.Camera
	View   *camera.Viewport
	Frames *UpdateFrames
	Sched  *motion.Scheduler

	Heuristic astar.Heuristic
	Diagonal  bool
	Brush     uint8

	// Path holds the last planned route from the camera cell, start excluded.
	Path    []int
	Visible raycast.Result

	mem     *astar.Memory
	rays    []float64
	walk    []int
	walkJob motion.JobID
	report  camera.Report
}

// NewSession generates the configured scene. st may be nil.
func NewSession(cfg *Config, st store.Storage, logger *log.Logger) (*Session, error) {
	factory, ok := core.Scenes()[cfg.Scene]
	if !ok {
		return nil, fmt.Errorf("%q: %w", cfg.Scene, ErrUnknownScene)
	}
	h, ok := astar.ParseHeuristic(cfg.Heuristic)
	if !ok {
		logger.Warnf("unknown heuristic %q, using default", cfg.Heuristic)
	}
	frames := &UpdateFrames{}
	s := &Session{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		scene:     factory(core.ParseParams(cfg.SceneParams)),
		Frames:    frames,
		Sched:     motion.New(motion.Config{FPS: cfg.FPS, Frames: frames, Now: cfg.Now}),
		Heuristic: h,
		Diagonal:  cfg.Diagonal,
		Brush:     core.Wall,
		mem:       astar.NewMemory(),
		report:    camera.Report{CanvasWidth: float64(cfg.Width), CanvasHeight: float64(cfg.Height)},
	}
	s.Regenerate(cfg.Seed)
	return s, nil
}

// SceneName returns the name of the active scene.
func (s *Session) SceneName() string { return s.scene.Name() }

// Seed returns the seed the grid was generated from.
func (s *Session) Seed() int64 { return s.seed }

// Regenerate rebuilds the grid from seed and recentres the camera.
func (s *Session) Regenerate(seed int64) {
	s.stopWalk()
	s.seed = seed
	s.Grid = s.scene.Generate(seed)
	s.View = camera.NewViewport(s.Grid.SideLength())
	s.placeCamera()
	s.Path = nil
	s.Refresh()
}

func (s *Session) placeCamera() {
	side := s.Grid.SideLength()
	block := core.Impassable()
	best, bestDist := 0, math.MaxInt
	for i := 0; i < s.Grid.Size(); i++ {
		if s.Grid.Blocked(block, i) {
			continue
		}
		x, y := s.Grid.Coords(i)
		if d := (2*x-side)*(2*x-side) + (2*y-side)*(2*y-side); d < bestDist {
			best, bestDist = i, d
		}
	}
	x, y := s.Grid.Coords(best)
	s.Cam = camera.New(0, float64(x)+0.5, float64(y)+0.5, s.cfg.Zoom)
}

// Resize records a new canvas size.
func (s *Session) Resize(w, h int) {
	s.report = camera.Report{CanvasWidth: float64(w), CanvasHeight: float64(h)}
}

// Update runs pending scheduler frames and refreshes derived state.
func (s *Session) Update(now time.Time) {
	s.Frames.Flush(now)
	s.Refresh()
}

// Refresh recomputes the viewport and the visibility fan. The viewport is
// fitted on a copy so clamping at the grid edge never moves the camera.
func (s *Session) Refresh() {
	view := *s.Cam
	s.View.Apply(&view, s.report, true)
	res, err := raycast.Cast(*s.Cam, s.Grid, core.Walls(), &raycast.Options{
		Cells:     true,
		Rays:      true,
		RayCount:  s.cfg.Rays,
		RayFOV:    s.cfg.FOV,
		RaysReuse: s.rays,
	})
	if s.rays == nil || errors.Is(err, raycast.ErrReuseLength) {
		s.rays = res.Rays
	}
	s.Visible = res
}

// CellAt maps a canvas pixel to a grid index.
func (s *Session) CellAt(px, py int) (int, bool) {
	x, y := s.View.ScreenToGrid(float64(px), float64(py))
	return s.Grid.Index(x, y)
}

// CameraCell returns the index under the camera.
func (s *Session) CameraCell() (int, bool) {
	return s.Grid.Index(s.Cam.X, s.Cam.Y)
}

// Plan searches from the camera cell to target and stores the route in
// Path. Unreachable targets route to the nearest reachable cell.
func (s *Session) Plan(target int) error {
	from, ok := s.CameraCell()
	if !ok {
		return fmt.Errorf("camera outside grid: %w", grid.ErrOutOfBounds)
	}
	res, err := astar.Find(from, target, s.Grid, core.Impassable(), &astar.Options[uint8]{
		Diagonal:  s.Diagonal,
		Heuristic: s.Heuristic,
		Closest:   true,
		Weight:    core.TerrainWeight,
		Memory:    s.mem,
	})
	if err != nil {
		s.Path = nil
		return err
	}
	s.Path = slices.Clone(res.Path)
	slices.Reverse(s.Path)
	return nil
}

// WalkTo plans a route to target and animates the camera along it.
func (s *Session) WalkTo(target int) error {
	s.stopWalk()
	if err := s.Plan(target); err != nil {
		return err
	}
	s.walk = slices.Clone(s.Path)
	s.stepWalk()
	return nil
}

// Walking reports whether a route is being followed.
func (s *Session) Walking() bool { return s.walkJob != 0 }

func (s *Session) stopWalk() {
	if s.walkJob != 0 {
		s.Sched.Cancel(s.walkJob)
	}
	s.walk = nil
	s.walkJob = 0
}

func (s *Session) stepWalk() {
	if len(s.walk) == 0 || s.Grid.Blocked(core.Impassable(), s.walk[0]) {
		s.walk = nil
		s.walkJob = 0
		return
	}
	next := s.walk[0]
	s.walk = s.walk[1:]
	x, y := s.Grid.Coords(next)
	tx, ty := float64(x)+0.5, float64(y)+0.5
	heading := math.Atan2(tx-s.Cam.X, ty-s.Cam.Y)
	d := time.Duration(float64(s.cfg.StepMS)*(1+core.TerrainWeight(s.Grid.Data()[next], nil))) * time.Millisecond
	s.walkJob, _ = s.Sched.Move(s.Cam, heading, tx, ty, 0, d,
		motion.MoveOptions{AbsoluteR: true, AbsoluteX: true, AbsoluteY: true}, s.stepWalk)
}

// Pan shifts the camera by (dx, dy) cells over d.
func (s *Session) Pan(dx, dy float64, d time.Duration) {
	s.stopWalk()
	s.Sched.Move(s.Cam, 0, dx, dy, 0, d, motion.MoveOptions{}, nil)
}

// Rotate turns the camera by dr radians over d.
func (s *Session) Rotate(dr float64, d time.Duration) {
	s.Sched.Move(s.Cam, dr, 0, 0, 0, d, motion.MoveOptions{}, nil)
}

// Zoom scales the camera zoom by factor, never below 1.
func (s *Session) Zoom(factor float64, d time.Duration) {
	z := math.Max(1, s.Cam.Z*factor)
	s.Sched.Move(s.Cam, 0, 0, 0, z, d, motion.MoveOptions{AbsoluteZ: true}, nil)
}

// TogglePause pauses or resumes camera animation.
func (s *Session) TogglePause() {
	if s.Sched.Paused() {
		s.Sched.Resume()
		return
	}
	s.Sched.Pause()
}

// Paint writes the brush into cell i.
func (s *Session) Paint(i int) error {
	return editor.Set(s.Grid, i, s.Brush)
}

// FillAt flood fills the region containing i with the brush.
func (s *Session) FillAt(i int) (int, error) {
	return editor.Fill(s.Grid, i, s.Brush)
}

// CycleBrush advances to the next paintable terrain.
func (s *Session) CycleBrush() { s.Brush = core.NextTerrain(s.Brush) }

// CycleHeuristic advances to the next path heuristic.
func (s *Session) CycleHeuristic() {
	i := slices.Index(heuristics, s.Heuristic)
	s.Heuristic = heuristics[(i+1)%len(heuristics)]
}

// ToggleDiagonal switches between 4- and 8-connected paths.
func (s *Session) ToggleDiagonal() { s.Diagonal = !s.Diagonal }

// Save stores the grid and camera under the configured name.
func (s *Session) Save() error {
	if s.store == nil {
		return errors.New("no storage configured")
	}
	if err := s.store.SaveGrid(s.cfg.GridName, s.Grid); err != nil {
		return err
	}
	return s.store.SaveCamera(s.cfg.GridName, s.Cam)
}

// Load replaces the grid and camera with the stored ones.
func (s *Session) Load() error {
	if s.store == nil {
		return errors.New("no storage configured")
	}
	g, err := s.store.LoadGrid(s.cfg.GridName)
	if err != nil {
		return err
	}
	s.stopWalk()
	s.Grid = g
	s.View = camera.NewViewport(g.SideLength())
	if cam, err := s.store.LoadCamera(s.cfg.GridName); err == nil {
		s.Cam = cam
	} else {
		s.placeCamera()
	}
	s.Path = nil
	s.Refresh()
	return nil
}

// Stats returns the lines shown in the info panel.
func (s *Session) Stats(cursor int, hasCursor bool) []string {
	lines := []string{
		fmt.Sprintf("scene %s  seed %d", s.scene.Name(), s.seed),
		fmt.Sprintf("grid %dx%d", s.Grid.SideLength(), s.Grid.SideLength()),
		fmt.Sprintf("cam x %.2f y %.2f", s.Cam.X, s.Cam.Y),
		fmt.Sprintf("    r %.2f z %.2f", s.Cam.R, s.Cam.Z),
		fmt.Sprintf("cell px %.0f", s.View.CellSizePx),
		fmt.Sprintf("visible %d cells", s.Visible.Cells.Size()),
		fmt.Sprintf("path %d steps", len(s.Path)),
		fmt.Sprintf("jobs %d paused %v", s.Sched.Len(), s.Sched.Paused()),
		fmt.Sprintf("heuristic %s", s.Heuristic),
		fmt.Sprintf("diagonal %v", s.Diagonal),
		fmt.Sprintf("brush %s", core.TerrainName(s.Brush)),
	}
	if hasCursor {
		x, y := s.Grid.Coords(cursor)
		v, _ := s.Grid.GetIndex(cursor)
		lines = append(lines, fmt.Sprintf("cursor %d,%d %s", x, y, core.TerrainName(v)))
	}
	return lines
}
