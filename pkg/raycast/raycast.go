// Package raycast casts DDA rays from a camera through a grid.
package raycast

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"canvas-grid/pkg/camera"
	"canvas-grid/pkg/grid"

	"github.com/zyedidia/generic/mapset"
)

// ErrReuseLength is returned alongside a complete Result when the RaysReuse
// buffer did not match the ray count and a fresh buffer was allocated.
var ErrReuseLength = errors.New("raycast: reuse buffer has wrong length")

// HitLen is the number of floats per ray record.
const HitLen = 7

// Side identifies the face of the cell a ray struck.
type Side int

const (
	SideNone Side = iota - 1
	// SideNorth is the low-y face, struck by rays travelling +y.
	SideNorth
	SideEast
	SideSouth
	SideWest
)

// boundaryEpsilon is how close a coordinate must be to an integer to
// count as lying on a cell boundary.
const boundaryEpsilon = 0.0001

// Options selects what Cast records. A nil *Options casts one ray along the
// camera heading.
type Options struct {
	Cells       bool
	DistanceMap bool
	Rays        bool
	RayCount    int
	RayFOV      float64
	// StepLimit bounds the number of cells a ray may enter. Zero means the
	// grid side length.
	StepLimit int
	RaysReuse []float64
}

// Hit is the decoded form of one ray record.
type Hit struct {
	X, Y      float64
	Distance  float64
	Range     float64
	Cell      int
	Fraction  float64
	Side      Side
	Angle     float64
	Collision bool
}

// Result holds whatever Cast was asked to record.
type Result struct {
	// Cells contains every cell any ray entered, the camera cell included.
	Cells mapset.Set[int]
	// DistanceMap groups cells by the farthest distance at which a ray entered them.
	DistanceMap map[float64][]int
	// DistanceMapKeysSorted lists DistanceMap keys, farthest first.
	DistanceMapKeysSorted []float64
	// Rays packs HitLen floats per ray:
	// x, y, distance, range, cell, fraction, side.
	Rays   []float64
	angles []float64
}

// RayCount returns the number of ray records.
func (r *Result) RayCount() int { return len(r.Rays) / HitLen }

// Hit decodes ray i.
func (r *Result) Hit(i int) Hit {
	rec := r.Rays[i*HitLen : (i+1)*HitLen]
	h := Hit{
		X:        rec[0],
		Y:        rec[1],
		Distance: rec[2],
		Range:    rec[3],
		Cell:     int(rec[4]),
		Fraction: rec[5],
		Side:     Side(rec[6]),
	}
	if i < len(r.angles) {
		h.Angle = r.angles[i]
	}
	h.Collision = h.Cell >= 0
	return h
}

// Cast traces rays from cam through g, stopping each at the first cell
// block reports as solid.
func Cast[T grid.Cell](cam camera.Camera, g *grid.Grid[T], block grid.Blocker[T], opts *Options) (Result, error) {
	if opts == nil {
		opts = &Options{Rays: true, RayCount: 1}
	}
	var res Result
	if !opts.Cells && !opts.Rays {
		return res, nil
	}

	count := opts.RayCount
	if count < 1 {
		count = 1
	}
	limit := opts.StepLimit
	if limit <= 0 {
		limit = g.SideLength()
	}

	var err error
	if opts.Rays {
		want := count * HitLen
		if opts.RaysReuse != nil && len(opts.RaysReuse) == want {
			res.Rays = opts.RaysReuse
		} else {
			if opts.RaysReuse != nil {
				err = fmt.Errorf("reuse %d floats for %d rays: %w", len(opts.RaysReuse), count, ErrReuseLength)
			}
			res.Rays = make([]float64, want)
		}
		res.angles = make([]float64, count)
	}

	vis := &tracker{}
	if opts.Cells {
		res.Cells = mapset.New[int]()
		vis.cells = &res.Cells
		if opts.DistanceMap {
			vis.seen = make(map[int]float64)
		}
	}

	angle := cam.R
	step := 0.0
	if count > 1 {
		angle = cam.R + opts.RayFOV/2
		step = opts.RayFOV / float64(count-1)
	}
	for i := 0; i < count; i++ {
		a := angle - float64(i)*step
		h := trace(cam, a, g, block, limit, vis)
		if opts.Rays {
			rec := res.Rays[i*HitLen : (i+1)*HitLen]
			rec[0] = h.X
			rec[1] = h.Y
			rec[2] = h.Distance
			rec[3] = h.Range
			rec[4] = float64(h.Cell)
			rec[5] = h.Fraction
			rec[6] = float64(h.Side)
			res.angles[i] = a
		}
	}

	if vis.seen != nil {
		res.DistanceMap = make(map[float64][]int)
		for cell, d := range vis.seen {
			res.DistanceMap[d] = append(res.DistanceMap[d], cell)
		}
		res.DistanceMapKeysSorted = make([]float64, 0, len(res.DistanceMap))
		for d, cells := range res.DistanceMap {
			sort.Ints(cells)
			res.DistanceMapKeysSorted = append(res.DistanceMapKeysSorted, d)
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(res.DistanceMapKeysSorted)))
	}
	return res, err
}

// trace walks a single ray. Direction (sin a, cos a) maps onto the grid's
// (x, y) axes, so a = 0 travels towards +y.
func trace[T grid.Cell](cam camera.Camera, a float64, g *grid.Grid[T], block grid.Blocker[T], limit int, vis *tracker) Hit {
	return walk(cam, a, math.Sin(a), math.Cos(a), g, block, limit, vis)
}

// walk steps the DDA along (dirX, dirY). When both axes reach a boundary at
// the same distance, y is stepped first.
func walk[T grid.Cell](cam camera.Camera, a, dirX, dirY float64, g *grid.Grid[T], block grid.Blocker[T], limit int, vis *tracker) Hit {
	miss := Hit{X: cam.X, Y: cam.Y, Cell: -1, Side: SideNone, Angle: a}
	idx, ok := g.Index(cam.X, cam.Y)
	if !ok {
		return miss
	}
	vis.record(idx, 0)

	side := g.SideLength()
	mapX, mapY := int(math.Floor(cam.X)), int(math.Floor(cam.Y))

	stepX, stepY := 1, 1
	deltaX, deltaY := math.Inf(1), math.Inf(1)
	sideX, sideY := math.Inf(1), math.Inf(1)
	if dirX != 0 {
		deltaX = math.Abs(1 / dirX)
		if dirX < 0 {
			stepX = -1
			sideX = (cam.X - float64(mapX)) * deltaX
		} else {
			sideX = (float64(mapX) + 1 - cam.X) * deltaX
		}
	}
	if dirY != 0 {
		deltaY = math.Abs(1 / dirY)
		if dirY < 0 {
			stepY = -1
			sideY = (cam.Y - float64(mapY)) * deltaY
		} else {
			sideY = (float64(mapY) + 1 - cam.Y) * deltaY
		}
	}

	distance := 0.0
	for steps := 0; steps < limit; steps++ {
		var crossedX bool
		if sideX < sideY {
			distance = sideX
			sideX += deltaX
			mapX += stepX
			crossedX = true
		} else {
			distance = sideY
			sideY += deltaY
			mapY += stepY
		}
		if math.IsInf(distance, 1) || mapX < 0 || mapY < 0 || mapX >= side || mapY >= side {
			break
		}
		idx = mapX*side + mapY
		vis.record(idx, distance)
		if !g.Blocked(block, idx) {
			continue
		}

		x := cam.X + dirX*distance
		y := cam.Y + dirY*distance
		h := Hit{
			X:         x,
			Y:         y,
			Distance:  distance,
			Range:     distance * math.Cos(cam.R-a),
			Cell:      idx,
			Angle:     a,
			Collision: true,
		}
		h.Side, h.Fraction = face(x, y, crossedX, stepX, stepY)
		return h
	}

	miss.X = cam.X + dirX*distance
	miss.Y = cam.Y + dirY*distance
	miss.Distance = distance
	miss.Range = distance * math.Cos(cam.R-a)
	return miss
}

// tracker collects traversed cells when cell recording is enabled.
type tracker struct {
	cells *mapset.Set[int]
	seen  map[int]float64
}

func (t *tracker) record(i int, d float64) {
	if t.cells == nil {
		return
	}
	t.cells.Put(i)
	if t.seen == nil {
		return
	}
	if prev, ok := t.seen[i]; !ok || d > prev {
		t.seen[i] = d
	}
}

// face classifies the struck face. A coordinate sitting on an integer
// boundary names the axis that was crossed; when both or neither do, the
// axis the DDA last stepped decides.
func face(x, y float64, crossedX bool, stepX, stepY int) (Side, float64) {
	onX := onBoundary(x)
	onY := onBoundary(y)
	if onX != onY {
		crossedX = onX
	}
	if crossedX {
		if stepX > 0 {
			return SideWest, fraction(y)
		}
		return SideEast, fraction(y)
	}
	if stepY > 0 {
		return SideNorth, fraction(x)
	}
	return SideSouth, fraction(x)
}

func onBoundary(v float64) bool {
	_, frac := math.Modf(v)
	frac = math.Abs(frac)
	return frac < boundaryEpsilon || frac > 1-boundaryEpsilon
}

func fraction(v float64) float64 {
	return v - math.Floor(v)
}
