package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"canvas-grid/pkg/camera"
	"canvas-grid/pkg/grid"
)

// JSONStore keeps every record in a single JSON file, rewritten on each save.
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *jsonData
}

type gridRecord struct {
	Side  int    `json:"side"`
	Cells []byte `json:"cells"`
}

type jsonData struct {
	Grids   map[string]gridRecord `json:"grids"`
	Cameras map[string][]float64  `json:"cameras"`
}

// NewJSONStore opens filePath, creating it when missing.
func NewJSONStore(filePath string) (*JSONStore, error) {
	s := &JSONStore{
		filePath: filePath,
		data: &jsonData{
			Grids:   make(map[string]gridRecord),
			Cameras: make(map[string][]float64),
		},
	}

	raw, err := os.ReadFile(filePath)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, s.data); err != nil {
			return nil, fmt.Errorf("decode %s: %w", filePath, err)
		}
		if s.data.Grids == nil {
			s.data.Grids = make(map[string]gridRecord)
		}
		if s.data.Cameras == nil {
			s.data.Cameras = make(map[string][]float64)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := s.flush(); err != nil {
			return nil, fmt.Errorf("create %s: %w", filePath, err)
		}
	default:
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	return s, nil
}

// flush writes the whole store. Callers hold the write lock or own s.
func (s *JSONStore) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, raw, 0o644)
}

// SaveGrid stores a copy of g under name.
func (s *JSONStore) SaveGrid(name string, g *grid.Grid[uint8]) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data.Grids[name] = gridRecord{Side: g.SideLength(), Cells: append([]byte(nil), g.Data()...)}
	if err := s.flush(); err != nil {
		return fmt.Errorf("save grid %q: %w", name, err)
	}
	return nil
}

// LoadGrid returns a fresh grid for name.
func (s *JSONStore) LoadGrid(name string) (*grid.Grid[uint8], error) {
	s.mutex.RLock()
	rec, ok := s.data.Grids[name]
	s.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("grid %q: %w", name, ErrNotFound)
	}
	g, err := grid.From(rec.Cells, true)
	if err != nil {
		return nil, fmt.Errorf("grid %q: %w", name, err)
	}
	return g, nil
}

// SaveCamera stores the pose of cam under name.
func (s *JSONStore) SaveCamera(name string, cam *camera.Camera) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data.Cameras[name] = cam.Encode()
	if err := s.flush(); err != nil {
		return fmt.Errorf("save camera %q: %w", name, err)
	}
	return nil
}

// LoadCamera returns the pose stored under name.
func (s *JSONStore) LoadCamera(name string) (*camera.Camera, error) {
	s.mutex.RLock()
	enc, ok := s.data.Cameras[name]
	s.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("camera %q: %w", name, ErrNotFound)
	}
	cam, err := camera.Decode(enc)
	if err != nil {
		return nil, fmt.Errorf("camera %q: %w", name, err)
	}
	return cam, nil
}

// Names lists stored grid names.
func (s *JSONStore) Names() ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	names := make([]string, 0, len(s.data.Grids))
	for name := range s.data.Grids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op for the JSON store.
func (s *JSONStore) Close() error {
	return nil
}
