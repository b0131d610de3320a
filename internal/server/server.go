// Package server animates cameras over a shared grid and streams their
// state to websocket clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"canvas-grid/internal/core"
	"canvas-grid/internal/log"
	"canvas-grid/internal/store"
	"canvas-grid/internal/stream"
	"canvas-grid/pkg/astar"
	"canvas-grid/pkg/camera"
	rng "canvas-grid/pkg/core"
	"canvas-grid/pkg/editor"
	"canvas-grid/pkg/grid"
	"canvas-grid/pkg/motion"
	"canvas-grid/pkg/raycast"
)

// ErrUnknownScene is returned when Config.Scene names no registered scene.
var ErrUnknownScene = errors.New("server: unknown scene")

// patrolPicks bounds how many random cells are tried when choosing a
// patrol target.
const patrolPicks = 32

type patrol struct {
	enabled bool
	walking bool
	job     motion.JobID
	path    []int
}

// Server owns the grid, its cameras and the scheduler that moves them.
type Server struct {
	cfg    Config
	logger *log.Logger
	store  store.Storage
	hub    *stream.Hub
	sched  *motion.Scheduler
	frames *motion.TickerFrames

	mu      sync.Mutex
	grid    *grid.Grid[uint8]
	cams    []*camera.Camera
	patrols []patrol
	rng     *rng.RNG
	mem     *astar.Memory

	lastCams []float64
	dirty    bool
}

// New loads the named grid and cameras from st, generating and saving
// them when absent. st may be nil.
func New(cfg Config, st store.Storage, logger *log.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		store:  st,
		rng:    rng.NewRNG(cfg.Seed),
		mem:    astar.NewMemory(),
	}
	schedCfg := motion.Config{FPS: cfg.FPS, Manual: cfg.Manual, Now: cfg.Now}
	if !cfg.Manual {
		s.frames = motion.NewTickerFrames(cfg.FPS)
		schedCfg.Frames = s.frames
	}
	s.sched = motion.New(schedCfg)

	g, err := s.loadGrid()
	if err != nil {
		return nil, err
	}
	s.grid = g
	s.cams = make([]*camera.Camera, cfg.Cameras)
	s.patrols = make([]patrol, cfg.Cameras)
	for i := range s.cams {
		s.cams[i] = s.loadCamera(i)
		s.patrols[i].enabled = cfg.Patrol
	}
	s.hub = stream.NewHub(logger, s.joinFrames, s.Apply)
	return s, nil
}

func (s *Server) loadGrid() (*grid.Grid[uint8], error) {
	if s.store != nil {
		g, err := s.store.LoadGrid(s.cfg.GridName)
		if err == nil {
			s.logger.Infof("loaded grid %q (%dx%d)", s.cfg.GridName, g.SideLength(), g.SideLength())
			return g, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	factory, ok := core.Scenes()[s.cfg.Scene]
	if !ok {
		return nil, fmt.Errorf("%q: %w", s.cfg.Scene, ErrUnknownScene)
	}
	g := factory(core.ParseParams(s.cfg.SceneParams)).Generate(s.cfg.Seed)
	s.logger.Infof("generated %s scene (%dx%d)", s.cfg.Scene, g.SideLength(), g.SideLength())
	if s.store != nil {
		if err := s.store.SaveGrid(s.cfg.GridName, g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (s *Server) cameraKey(i int) string {
	return fmt.Sprintf("%s/camera/%d", s.cfg.GridName, i)
}

// loadCamera returns the stored pose for camera i or one standing on the
// open cell nearest the grid centre.
func (s *Server) loadCamera(i int) *camera.Camera {
	if s.store != nil {
		if cam, err := s.store.LoadCamera(s.cameraKey(i)); err == nil {
			return cam
		}
	}
	side := s.grid.SideLength()
	start := s.openCellNear(side/2, side/2)
	x, y := s.grid.Coords(start)
	return camera.New(0, float64(x)+0.5, float64(y)+0.5, s.cfg.Zoom)
}

func (s *Server) openCellNear(cx, cy int) int {
	side := s.grid.SideLength()
	block := core.Impassable()
	best, bestDist := cx*side+cy, math.MaxInt
	for i := 0; i < s.grid.Size(); i++ {
		if s.grid.Blocked(block, i) {
			continue
		}
		x, y := s.grid.Coords(i)
		if d := (x-cx)*(x-cx) + (y-cy)*(y-cy); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Handler serves the websocket endpoint.
func (s *Server) Handler() *stream.Hub { return s.hub }

// Scheduler exposes the camera scheduler.
func (s *Server) Scheduler() *motion.Scheduler { return s.sched }

// Camera returns a copy of camera i.
func (s *Server) Camera(i int) camera.Camera {
	return s.sched.Snapshot(s.cams[i])
}

// Cell returns the terrain at index i.
func (s *Server) Cell(i int) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, _ := s.grid.GetIndex(i)
	return v
}

// Run steps the server at the configured rate until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	fs := core.NewFixedStep(s.cfg.TPS)
	ticker := time.NewTicker(fs.Interval() / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if fs.Due() > 0 {
				s.Step(now)
			}
		}
	}
}

// Step advances one broadcast tick: it restarts idle patrols and sends
// every changed camera, viewport and visibility frame.
func (s *Server) Step(now time.Time) {
	if s.cfg.Manual {
		s.sched.Tick(now)
	}

	s.mu.Lock()
	for i := range s.patrols {
		if s.patrols[i].enabled && !s.patrols[i].walking {
			s.startPatrolLocked(i)
		}
	}
	poses := make([]*camera.Camera, len(s.cams))
	for i, cam := range s.cams {
		snap := s.sched.Snapshot(cam)
		poses[i] = &snap
	}
	enc := camera.EncodeMulti(poses)
	changed := s.dirty || !slices.Equal(enc, s.lastCams)
	var frames [][]byte
	if changed {
		s.lastCams = enc
		if s.dirty {
			frames = append(frames, stream.EncodeGrid(s.grid.Data()))
			s.dirty = false
		}
		frames = append(frames, stream.EncodeFrame(stream.KindCameras, enc))
		for i, pose := range poses {
			frames = append(frames, s.viewportFrame(i, *pose), s.visibleFrameLocked(i, *pose))
		}
	}
	s.mu.Unlock()

	for _, f := range frames {
		s.hub.Broadcast(f)
	}
}

func (s *Server) viewportFrame(i int, pose camera.Camera) []byte {
	vp := camera.NewViewport(s.grid.SideLength())
	vp.Apply(&pose, camera.Report{CanvasWidth: s.cfg.CanvasWidth, CanvasHeight: s.cfg.CanvasHeight}, true)
	return stream.EncodeFrame(stream.KindViewport, append([]float64{float64(i)}, vp.Encode()...))
}

func (s *Server) visibleFrameLocked(i int, pose camera.Camera) []byte {
	res, _ := raycast.Cast(pose, s.grid, core.Walls(), &raycast.Options{
		Cells:    true,
		RayCount: s.cfg.Rays,
		RayFOV:   s.cfg.FOV,
	})
	cells := make([]int, 0, res.Cells.Size())
	res.Cells.Each(func(c int) { cells = append(cells, c) })
	slices.Sort(cells)
	values := make([]float64, 0, len(cells)+1)
	values = append(values, float64(i))
	for _, c := range cells {
		values = append(values, float64(c))
	}
	return stream.EncodeFrame(stream.KindVisible, values)
}

func (s *Server) joinFrames() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	poses := make([]*camera.Camera, len(s.cams))
	for i, cam := range s.cams {
		snap := s.sched.Snapshot(cam)
		poses[i] = &snap
	}
	return [][]byte{
		stream.EncodeGrid(s.grid.Data()),
		stream.EncodeFrame(stream.KindCameras, camera.EncodeMulti(poses)),
	}
}

// startPatrolLocked paths camera i to a random open cell, falling back to
// the closest reachable cell.
func (s *Server) startPatrolLocked(i int) {
	pose := s.sched.Snapshot(s.cams[i])
	from, ok := s.grid.Index(pose.X, pose.Y)
	if !ok {
		return
	}
	block := core.Impassable()
	for try := 0; try < patrolPicks; try++ {
		to := s.rng.IntRange(0, s.grid.Size()-1)
		if to == from || s.grid.Blocked(block, to) {
			continue
		}
		res, err := astar.Find(from, to, s.grid, block, &astar.Options[uint8]{
			Diagonal: true,
			Closest:  true,
			Weight:   core.TerrainWeight,
			Memory:   s.mem,
		})
		if err != nil || len(res.Path) == 0 {
			continue
		}
		path := slices.Clone(res.Path)
		slices.Reverse(path)
		s.patrols[i].path = path
		s.patrols[i].walking = true
		s.stepPatrolLocked(i)
		return
	}
}

// stepPatrolLocked queues the move into the next cell of camera i's path.
func (s *Server) stepPatrolLocked(i int) {
	p := &s.patrols[i]
	if !p.enabled || len(p.path) == 0 {
		p.walking = false
		p.path = nil
		return
	}
	next := p.path[0]
	p.path = p.path[1:]
	if s.grid.Blocked(core.Impassable(), next) {
		p.walking = false
		p.path = nil
		return
	}
	x, y := s.grid.Coords(next)
	pose := s.sched.Snapshot(s.cams[i])
	tx, ty := float64(x)+0.5, float64(y)+0.5
	heading := math.Atan2(tx-pose.X, ty-pose.Y)
	d := time.Duration(float64(s.cfg.StepMS)*(1+core.TerrainWeight(s.grid.Data()[next], nil))) * time.Millisecond
	p.job, _ = s.sched.Move(s.cams[i], heading, tx, ty, 0, d, motion.MoveOptions{AbsoluteR: true, AbsoluteX: true, AbsoluteY: true}, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.stepPatrolLocked(i)
	})
}

// Apply executes a client command.
func (s *Server) Apply(cmd stream.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cmd.Op != "save" && (cmd.Camera < 0 || cmd.Camera >= len(s.cams)) {
		s.logger.Debugf("command %q for unknown camera %d", cmd.Op, cmd.Camera)
		return
	}
	switch cmd.Op {
	case "move":
		s.sched.Cancel(s.patrols[cmd.Camera].job)
		s.patrols[cmd.Camera] = patrol{}
		opts := motion.MoveOptions{}
		if cmd.Absolute {
			opts = motion.MoveOptions{AbsoluteR: true, AbsoluteX: true, AbsoluteY: true, AbsoluteZ: true}
		}
		s.sched.Move(s.cams[cmd.Camera], cmd.R, cmd.X, cmd.Y, cmd.Z, time.Duration(cmd.DurationMS)*time.Millisecond, opts, nil)
	case "patrol":
		s.patrols[cmd.Camera].enabled = true
	case "set":
		idx, ok := s.grid.Index(cmd.X, cmd.Y)
		if !ok {
			return
		}
		if err := editor.Set(s.grid, idx, grid.ClampCell[uint8](int(cmd.Z))); err == nil {
			s.dirty = true
		}
	case "fill":
		idx, ok := s.grid.Index(cmd.X, cmd.Y)
		if !ok {
			return
		}
		n, err := editor.Fill(s.grid, idx, grid.ClampCell[uint8](int(cmd.Z)))
		if err == nil && n > 0 {
			s.dirty = true
		}
	case "save":
		if err := s.saveLocked(); err != nil {
			s.logger.Errorf("save: %v", err)
		}
	default:
		s.logger.Debugf("unknown command %q", cmd.Op)
	}
}

// Save persists the grid and every camera pose.
func (s *Server) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Server) saveLocked() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveGrid(s.cfg.GridName, s.grid); err != nil {
		return err
	}
	for i, cam := range s.cams {
		pose := s.sched.Snapshot(cam)
		if err := s.store.SaveCamera(s.cameraKey(i), &pose); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the frame ticker.
func (s *Server) Close() {
	if s.frames != nil {
		s.frames.Close()
	}
}
