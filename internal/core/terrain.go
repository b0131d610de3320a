package core

import (
	"canvas-grid/pkg/astar"
	"canvas-grid/pkg/grid"
)

// Terrain values stored in scene grids. Each is a distinct bit so walls can
// be tested with a mask.
const (
	Floor uint8 = 0
	Wall  uint8 = 1 << (iota - 1)
	Mud
	Water
)

var paintCycle = []uint8{Floor, Wall, Mud, Water}

// TerrainName returns a display name for v.
func TerrainName(v uint8) string {
	switch v {
	case Floor:
		return "floor"
	case Wall:
		return "wall"
	case Mud:
		return "mud"
	case Water:
		return "water"
	default:
		return "unknown"
	}
}

// Walls blocks movement and sight through wall cells.
func Walls() grid.Blocker[uint8] {
	return grid.Mask(Wall)
}

// Impassable blocks walls and water, for walkers that cannot swim.
func Impassable() grid.Blocker[uint8] {
	return grid.Mask(Wall | Water)
}

// TerrainWeight is the extra path cost of entering a cell.
func TerrainWeight(v uint8, _ astar.HeuristicFunc) float64 {
	switch v {
	case Mud:
		return 2
	case Water:
		return 4
	default:
		return 0
	}
}

// NextTerrain cycles to the next paintable terrain value.
func NextTerrain(v uint8) uint8 {
	for i, t := range paintCycle {
		if t == v {
			return paintCycle[(i+1)%len(paintCycle)]
		}
	}
	return Floor
}
