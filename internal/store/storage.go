// Package store persists named grids and camera poses.
package store

import (
	"errors"

	"canvas-grid/pkg/camera"
	"canvas-grid/pkg/grid"
)

// ErrNotFound is returned when no record exists under a name.
var ErrNotFound = errors.New("store: not found")

// Storage defines the interface for grid and camera persistence.
type Storage interface {
	SaveGrid(name string, g *grid.Grid[uint8]) error
	LoadGrid(name string) (*grid.Grid[uint8], error)
	SaveCamera(name string, cam *camera.Camera) error
	LoadCamera(name string) (*camera.Camera, error)
	Names() ([]string, error)
	Close() error
}
