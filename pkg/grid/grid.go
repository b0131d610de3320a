package grid

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrOutOfBounds is returned when a coordinate or index falls outside the grid.
	ErrOutOfBounds = errors.New("grid: out of bounds")
	// ErrNotSquare is returned by From when the buffer length is not a perfect square.
	ErrNotSquare = errors.New("grid: buffer length is not a perfect square")
)

// Clamped8 is an 8-bit cell whose writes saturate instead of wrapping. Use
// ClampCell to convert wider values before storing them.
type Clamped8 uint8

// Cell lists the element widths a Grid can be backed by.
type Cell interface {
	~uint8 | ~uint16 | ~uint32
}

// Grid is a fixed-size square grid. Cell (x, y) lives at index x*side+y.
type Grid[T Cell] struct {
	data []T
	side int
	size int
}

// New allocates a zeroed grid with the given side length.
func New[T Cell](sideLength int) *Grid[T] {
	if sideLength < 0 {
		sideLength = 0
	}
	size := sideLength * sideLength
	return &Grid[T]{data: make([]T, size), side: sideLength, size: size}
}

// From wraps an existing buffer. When clone is true the buffer is copied,
// otherwise the grid aliases it.
func From[T Cell](data []T, clone bool) (*Grid[T], error) {
	side := int(math.Sqrt(float64(len(data))))
	for side*side > len(data) {
		side--
	}
	for (side+1)*(side+1) <= len(data) {
		side++
	}
	if side*side != len(data) {
		return nil, fmt.Errorf("from %d cells: %w", len(data), ErrNotSquare)
	}
	if clone {
		data = append([]T(nil), data...)
	}
	return &Grid[T]{data: data, side: side, size: len(data)}, nil
}

// Data exposes the backing slice so callers can read or write values directly.
func (g *Grid[T]) Data() []T { return g.data }

// SideLength returns the number of cells along one edge.
func (g *Grid[T]) SideLength() int { return g.side }

// Size returns the total number of cells.
func (g *Grid[T]) Size() int { return g.size }

// Index returns the linear index for (x, y). Fractional coordinates are floored.
func (g *Grid[T]) Index(x, y float64) (int, bool) {
	fx, fy := math.Floor(x), math.Floor(y)
	if fx < 0 || fy < 0 || fx >= float64(g.side) || fy >= float64(g.side) {
		return -1, false
	}
	return int(fx)*g.side + int(fy), true
}

// Coords converts a linear index back into (x, y).
func (g *Grid[T]) Coords(i int) (int, int) {
	if g.side == 0 {
		return 0, 0
	}
	return i / g.side, i % g.side
}

// InRange reports whether i addresses a cell.
func (g *Grid[T]) InRange(i int) bool { return i >= 0 && i < g.size }

// Get returns the value stored at (x, y).
func (g *Grid[T]) Get(x, y float64) (T, error) {
	i, ok := g.Index(x, y)
	if !ok {
		var zero T
		return zero, fmt.Errorf("get (%g,%g): %w", x, y, ErrOutOfBounds)
	}
	return g.data[i], nil
}

// Set stores v at (x, y).
func (g *Grid[T]) Set(x, y float64, v T) error {
	i, ok := g.Index(x, y)
	if !ok {
		return fmt.Errorf("set (%g,%g): %w", x, y, ErrOutOfBounds)
	}
	g.data[i] = v
	return nil
}

// GetIndex returns the value stored at linear index i.
func (g *Grid[T]) GetIndex(i int) (T, error) {
	if !g.InRange(i) {
		var zero T
		return zero, fmt.Errorf("get index %d: %w", i, ErrOutOfBounds)
	}
	return g.data[i], nil
}

// SetIndex stores v at linear index i.
func (g *Grid[T]) SetIndex(i int, v T) error {
	if !g.InRange(i) {
		return fmt.Errorf("set index %d: %w", i, ErrOutOfBounds)
	}
	g.data[i] = v
	return nil
}

// Clone returns a deep copy.
func (g *Grid[T]) Clone() *Grid[T] {
	return &Grid[T]{data: append([]T(nil), g.data...), side: g.side, size: g.size}
}

// Apply copies other into the grid position by position. Only the overlapping
// prefix is copied; the number of cells written is returned.
func (g *Grid[T]) Apply(other []T) int {
	return copy(g.data, other)
}

// Clear fills the grid with zeros.
func (g *Grid[T]) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}

// ClampCell saturates v into the range of T.
func ClampCell[T Cell](v int) T {
	if v <= 0 {
		return 0
	}
	top := ^T(0)
	if uint64(v) >= uint64(top) {
		return top
	}
	return T(v)
}
