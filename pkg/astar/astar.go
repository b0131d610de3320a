// Package astar finds shortest paths across a grid.
package astar

import (
	"errors"
	"fmt"
	"math"

	"canvas-grid/pkg/grid"
)

// ErrInvalidEndpoint is returned when a start or goal index is outside the
// grid or sits on a blocked cell.
var ErrInvalidEndpoint = errors.New("astar: invalid endpoint")

// growChunk caps how many nodes Memory allocates per growth step.
const growChunk = 1 << 16

// WeightFunc returns the extra cost of entering a cell. It receives the
// heuristic in use so weights can be scaled against it.
type WeightFunc[T grid.Cell] func(value T, h HeuristicFunc) float64

// Options tunes a search. The zero value searches 4-connected with the
// Manhattan heuristic.
type Options[T grid.Cell] struct {
	Diagonal  bool
	Heuristic Heuristic
	// Closest returns a path to the reachable cell nearest the goal when
	// the goal itself cannot be reached.
	Closest bool
	Weight  WeightFunc[T]
	// Memory is reused between searches when non-nil.
	Memory *Memory
}

// Node is the per-cell search state. Parent is an index into the same
// node slice, -1 when unset.
type Node struct {
	Closed    bool
	Index     int
	Parent    int
	Visited   bool
	Combined  float64
	Grid      float64
	Heuristic float64

	heapIndex int
}

// Memory holds the node arena of a search. Passing the Memory returned by
// one search into the next avoids reallocating it.
type Memory struct {
	Nodes []Node

	open openHeap
}

// NewMemory returns an empty arena.
func NewMemory() *Memory { return &Memory{} }

// prepare sizes the arena to size nodes and resets every one of them.
func (m *Memory) prepare(size int) []Node {
	for len(m.Nodes) < size {
		step := size - len(m.Nodes)
		if step > growChunk {
			step = growChunk
		}
		m.Nodes = append(m.Nodes, make([]Node, step)...)
	}
	nodes := m.Nodes[:size]
	for i := range nodes {
		nodes[i] = Node{Index: i, Parent: -1, heapIndex: -1}
	}
	return nodes
}

// Result carries the path found and the arena used to find it.
type Result struct {
	// Path lists grid indices from the goal back towards the start, start
	// excluded. Nil means no path.
	Path   []int
	Memory *Memory
}

type offset struct {
	dx, dy   int
	diagonal bool
}

var (
	straightOffsets = []offset{{1, 0, false}, {0, -1, false}, {0, 1, false}, {-1, 0, false}}

	// E, N, S, W, NE, NW, SE, SW
	straightFirstOffsets = []offset{
		{1, 0, false}, {0, -1, false}, {0, 1, false}, {-1, 0, false},
		{1, -1, true}, {-1, -1, true}, {1, 1, true}, {-1, 1, true},
	}

	// E, NE, N, NW, W, SW, S, SE
	circularOffsets = []offset{
		{1, 0, false}, {1, -1, true}, {0, -1, false}, {-1, -1, true},
		{-1, 0, false}, {-1, 1, true}, {0, 1, false}, {1, 1, true},
	}
)

// Find searches for a path from index a to index b.
func Find[T grid.Cell](a, b int, g *grid.Grid[T], block grid.Blocker[T], opts *Options[T]) (Result, error) {
	if opts == nil {
		opts = &Options[T]{}
	}
	mem := opts.Memory
	if mem == nil {
		mem = NewMemory()
	}
	res := Result{Memory: mem}

	if a == b {
		res.Path = []int{}
		return res, nil
	}
	if !g.InRange(a) || g.Blocked(block, a) {
		return res, fmt.Errorf("start %d: %w", a, ErrInvalidEndpoint)
	}
	if !g.InRange(b) || g.Blocked(block, b) {
		return res, fmt.Errorf("goal %d: %w", b, ErrInvalidEndpoint)
	}

	kind := opts.Heuristic.resolve(opts.Diagonal)
	heuristic := kind.Func()
	offsets := straightOffsets
	if opts.Diagonal {
		offsets = circularOffsets
		if kind.straightFirst() {
			offsets = straightFirstOffsets
		}
	}

	side := g.SideLength()
	data := g.Data()
	bx, by := b/side, b%side
	nodes := mem.prepare(g.Size())
	open := &mem.open
	open.reset(nodes)

	start := &nodes[a]
	start.Heuristic = heuristic(a/side, a%side, bx, by)
	start.Combined = start.Heuristic
	start.Visited = true
	open.push(a)
	closest := a

	for open.len() > 0 {
		current := open.pop()
		if current == b {
			res.Path = pathTo(nodes, current)
			return res, nil
		}
		cur := &nodes[current]
		cur.Closed = true
		cx, cy := current/side, current%side

		for _, o := range offsets {
			nx, ny := cx+o.dx, cy+o.dy
			if nx < 0 || ny < 0 || nx >= side || ny >= side {
				continue
			}
			ni := nx*side + ny
			neighbor := &nodes[ni]
			if neighbor.Closed || g.Blocked(block, ni) {
				continue
			}

			// Only the unit step is scaled on diagonals; the cell weight is
			// added as is.
			cost := 1.0
			if o.diagonal {
				cost = math.Sqrt2
			}
			if opts.Weight != nil {
				cost += opts.Weight(data[ni], heuristic)
			}
			score := cur.Grid + cost
			seen := neighbor.Visited
			if seen && score >= neighbor.Grid {
				continue
			}

			neighbor.Visited = true
			neighbor.Parent = current
			if !seen {
				neighbor.Heuristic = heuristic(nx, ny, bx, by)
			}
			neighbor.Grid = score
			neighbor.Combined = score + neighbor.Heuristic

			if opts.Closest {
				best := &nodes[closest]
				if neighbor.Heuristic < best.Heuristic ||
					(neighbor.Heuristic == best.Heuristic && neighbor.Grid < best.Grid) {
					closest = ni
				}
			}

			if seen {
				open.rescore(ni)
			} else {
				open.push(ni)
			}
		}
	}

	if opts.Closest {
		res.Path = pathTo(nodes, closest)
	}
	return res, nil
}

// pathTo walks parents from n, excluding the root.
func pathTo(nodes []Node, n int) []int {
	path := []int{}
	for nodes[n].Parent != -1 {
		path = append(path, n)
		n = nodes[n].Parent
	}
	return path
}
