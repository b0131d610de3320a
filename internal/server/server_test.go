package server

import (
	"errors"
	"io"
	"math"
	"path/filepath"
	"testing"
	"time"

	"canvas-grid/internal/core"
	"canvas-grid/internal/log"
	"canvas-grid/internal/store"
	"canvas-grid/internal/stream"

	_ "canvas-grid/internal/scenes"
)

func quiet() *log.Logger { return log.New(io.Discard, log.LevelNone) }

func testConfig() Config {
	cfg := *NewConfig()
	cfg.Scene = "empty"
	cfg.SceneParams = "side=16"
	cfg.Cameras = 1
	cfg.Patrol = false
	cfg.Manual = true
	cfg.FPS = 0
	return cfg
}

func TestNewPlacesCameraOnOpenCell(t *testing.T) {
	s, err := New(testConfig(), nil, quiet())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer s.Close()
	cam := s.Camera(0)
	if cam.X != 8.5 || cam.Y != 8.5 || cam.Z != 2 {
		t.Fatalf("camera=%+v", cam)
	}
}

func TestUnknownScene(t *testing.T) {
	cfg := testConfig()
	cfg.Scene = "nope"
	if _, err := New(cfg, nil, quiet()); !errors.Is(err, ErrUnknownScene) {
		t.Fatalf("err=%v want ErrUnknownScene", err)
	}
}

func TestMoveCommand(t *testing.T) {
	now := time.Unix(10, 0)
	cfg := testConfig()
	cfg.Now = func() time.Time { return now }
	s, err := New(cfg, nil, quiet())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.Step(now)
	s.Apply(stream.Command{Op: "move", X: 2, Y: -1, DurationMS: 100})
	now = now.Add(50 * time.Millisecond)
	s.Step(now)
	if cam := s.Camera(0); cam.X != 9.5 || cam.Y != 8 {
		t.Fatalf("halfway camera=%+v", cam)
	}
	now = now.Add(50 * time.Millisecond)
	s.Step(now)
	cam := s.Camera(0)
	if cam.X != 10.5 || cam.Y != 7.5 {
		t.Fatalf("camera=%+v want (10.5, 7.5)", cam)
	}

	s.Apply(stream.Command{Op: "move", Absolute: true, X: 1, Y: 1, Z: 3})
	if cam := s.Camera(0); cam.X != 1 || cam.Y != 1 || cam.Z != 3 {
		t.Fatalf("absolute move camera=%+v", cam)
	}
}

func TestEditCommands(t *testing.T) {
	s, err := New(testConfig(), nil, quiet())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.Apply(stream.Command{Op: "set", X: 3.5, Y: 4.2, Z: float64(core.Mud)})
	if v := s.Cell(3*16 + 4); v != core.Mud {
		t.Fatalf("set cell=%d want mud", v)
	}
	s.Apply(stream.Command{Op: "fill", X: 1, Y: 1, Z: float64(core.Water)})
	// 14x14 interior minus the single mud cell.
	water := 0
	for i := 0; i < 16*16; i++ {
		if s.Cell(i) == core.Water {
			water++
		}
	}
	if water != 14*14-1 {
		t.Fatalf("filled %d cells want %d", water, 14*14-1)
	}
}

func TestPatrolWalksOpenCells(t *testing.T) {
	cfg := testConfig()
	cfg.Scene = "rooms"
	cfg.SceneParams = "side=32,mud_chance=0.2"
	cfg.Patrol = true
	cfg.StepMS = 10
	now := time.Unix(0, 0)
	cfg.Now = func() time.Time { return now }
	s, err := New(cfg, nil, quiet())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	start := s.Camera(0)
	moved := false
	for i := 0; i < 400; i++ {
		now = now.Add(15 * time.Millisecond)
		s.Step(now)
		cam := s.Camera(0)
		_, fx := math.Modf(cam.X)
		_, fy := math.Modf(cam.Y)
		if fx != 0.5 || fy != 0.5 {
			continue
		}
		idx := int(math.Floor(cam.X))*32 + int(math.Floor(cam.Y))
		if v := s.Cell(idx); v == core.Wall || v == core.Water {
			t.Fatalf("camera entered blocked cell %d (%d) at %+v", idx, v, cam)
		}
		if cam.X != start.X || cam.Y != start.Y {
			moved = true
		}
	}
	if !moved {
		t.Fatal("patrol never moved the camera")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	st, err := store.NewJSONStore(path)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	s, err := New(testConfig(), st, quiet())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.Apply(stream.Command{Op: "set", X: 5, Y: 5, Z: float64(core.Wall)})
	s.Apply(stream.Command{Op: "move", Absolute: true, X: 3, Y: 4, Z: 1})
	s.Apply(stream.Command{Op: "save"})

	reloaded, err := New(testConfig(), st, quiet())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Cell(5*16+5) != core.Wall {
		t.Fatal("edited cell not persisted")
	}
	if cam := reloaded.Camera(0); cam.X != 3 || cam.Y != 4 {
		t.Fatalf("camera not persisted: %+v", cam)
	}
}
