// Package editor mutates grids in place.
package editor

import (
	"fmt"

	"canvas-grid/pkg/grid"

	"github.com/zyedidia/generic/mapset"
)

// Set writes value into the cell at index.
func Set[T grid.Cell](g *grid.Grid[T], index int, value T) error {
	return g.SetIndex(index, value)
}

// Fill replaces the 4-connected region of cells sharing the seed's value
// with value and returns the number of cells written.
//
// The region is filled span by span: the seed's row is swept in both
// directions, then every cell of that run is swept along its column.
// Matching side neighbours met during a column sweep are queued and
// re-seeded once the current spans are done.
func Fill[T grid.Cell](g *grid.Grid[T], seed int, value T) (int, error) {
	if !g.InRange(seed) {
		return 0, fmt.Errorf("fill seed %d: %w", seed, grid.ErrOutOfBounds)
	}
	data := g.Data()
	original := data[seed]
	if original == value {
		return 0, nil
	}

	side := g.SideLength()
	visited := make([]bool, g.Size())
	queued := mapset.New[int]()
	recheck := []int{seed}
	queued.Put(seed)
	count := 0

	match := func(i int) bool { return !visited[i] && data[i] == original }
	write := func(i int) {
		visited[i] = true
		data[i] = value
		count++
	}
	enqueue := func(i int) {
		if match(i) && !queued.Has(i) {
			queued.Put(i)
			recheck = append(recheck, i)
		}
	}

	run := make([]int, 0, side)
	for len(recheck) > 0 {
		i := recheck[len(recheck)-1]
		recheck = recheck[:len(recheck)-1]
		queued.Remove(i)
		if !match(i) {
			continue
		}
		x, y := i/side, i%side

		run = run[:0]
		for cx := x; cx >= 0; cx-- {
			idx := cx*side + y
			if !match(idx) {
				break
			}
			write(idx)
			run = append(run, cx)
		}
		for cx := x + 1; cx < side; cx++ {
			idx := cx*side + y
			if !match(idx) {
				break
			}
			write(idx)
			run = append(run, cx)
		}

		for _, cx := range run {
			for cy := y - 1; cy >= 0; cy-- {
				idx := cx*side + cy
				if !match(idx) {
					break
				}
				write(idx)
				if cx > 0 {
					enqueue(idx - side)
				}
				if cx < side-1 {
					enqueue(idx + side)
				}
			}
			for cy := y + 1; cy < side; cy++ {
				idx := cx*side + cy
				if !match(idx) {
					break
				}
				write(idx)
				if cx > 0 {
					enqueue(idx - side)
				}
				if cx < side-1 {
					enqueue(idx + side)
				}
			}
		}
	}
	return count, nil
}
