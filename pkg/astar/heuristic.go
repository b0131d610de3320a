package astar

import "math"

// Heuristic selects the distance estimate used to rank open nodes.
type Heuristic int

const (
	// Default picks Manhattan for 4-connected and Chebyshev for 8-connected searches.
	Default Heuristic = iota
	None
	Manhattan
	Chebyshev
	Euclidean
	Diagonal
)

// HeuristicFunc estimates the cost between two cells given as (x, y) pairs.
type HeuristicFunc func(ax, ay, bx, by int) float64

func (h Heuristic) String() string {
	switch h {
	case Default:
		return "default"
	case None:
		return "none"
	case Manhattan:
		return "manhattan"
	case Chebyshev:
		return "chebyshev"
	case Euclidean:
		return "euclidean"
	case Diagonal:
		return "diagonal"
	default:
		return "unknown"
	}
}

// ParseHeuristic maps a name produced by String back to a Heuristic.
func ParseHeuristic(name string) (Heuristic, bool) {
	for h := Default; h <= Diagonal; h++ {
		if h.String() == name {
			return h, true
		}
	}
	return Default, false
}

// resolve returns the concrete heuristic for the movement mode.
func (h Heuristic) resolve(diagonal bool) Heuristic {
	if h != Default {
		return h
	}
	if diagonal {
		return Chebyshev
	}
	return Manhattan
}

// Func returns the estimate function for h. Default resolves to Manhattan.
func (h Heuristic) Func() HeuristicFunc {
	switch h.resolve(false) {
	case None:
		return func(_, _, _, _ int) float64 { return 0 }
	case Chebyshev:
		return func(ax, ay, bx, by int) float64 {
			return math.Max(absDiff(ax, bx), absDiff(ay, by))
		}
	case Euclidean:
		return func(ax, ay, bx, by int) float64 {
			return math.Hypot(absDiff(ax, bx), absDiff(ay, by))
		}
	case Diagonal:
		return func(ax, ay, bx, by int) float64 {
			a, b := absDiff(ax, bx), absDiff(ay, by)
			return a + b - 0.5858*math.Min(a, b)
		}
	default:
		return func(ax, ay, bx, by int) float64 {
			return absDiff(ax, bx) + absDiff(ay, by)
		}
	}
}

// straightFirst reports whether neighbours should be visited with all
// straight moves before any diagonal one. Paths come out with fewer
// zig-zags for heuristics that rate diagonals as cheap as straights.
func (h Heuristic) straightFirst() bool {
	return h == Chebyshev || h == None
}

func absDiff(a, b int) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}
