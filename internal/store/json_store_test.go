package store

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"canvas-grid/pkg/camera"
	"canvas-grid/pkg/grid"
)

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("store file not created: %v", err)
	}

	g := grid.New[uint8](4)
	g.Set(1, 2, 7)
	if err := s.SaveGrid("level", g); err != nil {
		t.Fatalf("save grid: %v", err)
	}
	g.Set(1, 2, 0)
	if err := s.SaveCamera("main", camera.New(0.5, 1, 2, 3)); err != nil {
		t.Fatalf("save camera: %v", err)
	}

	reopened, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	loaded, err := reopened.LoadGrid("level")
	if err != nil {
		t.Fatalf("load grid: %v", err)
	}
	if v, _ := loaded.Get(1, 2); v != 7 || loaded.SideLength() != 4 {
		t.Fatalf("loaded cell=%d side=%d", v, loaded.SideLength())
	}
	cam, err := reopened.LoadCamera("main")
	if err != nil {
		t.Fatalf("load camera: %v", err)
	}
	if *cam != (camera.Camera{R: 0.5, X: 1, Y: 2, Z: 3}) {
		t.Fatalf("camera=%+v", *cam)
	}
	names, _ := reopened.Names()
	if !slices.Equal(names, []string{"level"}) {
		t.Fatalf("names=%v", names)
	}
}

func TestJSONStoreNotFound(t *testing.T) {
	s, err := NewJSONStore(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.LoadGrid("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("grid err=%v want ErrNotFound", err)
	}
	if _, err := s.LoadCamera("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("camera err=%v want ErrNotFound", err)
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewJSONStore(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestOpenDefaultsToJSON(t *testing.T) {
	t.Setenv("DB_TYPE", "")
	t.Setenv("DB_FILE", filepath.Join(t.TempDir(), "grids.json"))
	s, kind, err := Open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if kind != "json" {
		t.Fatalf("backend=%q want json", kind)
	}
	if _, ok := s.(*JSONStore); !ok {
		t.Fatalf("backend type %T", s)
	}
}
