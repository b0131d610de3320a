// Package scenes registers the terrain generators the demo and server
// start from.
package scenes

import (
	"canvas-grid/internal/core"
	rng "canvas-grid/pkg/core"
	"canvas-grid/pkg/grid"
)

type scene struct {
	name string
	cfg  Config
	gen  func(g *grid.Grid[uint8], r *rng.RNG, cfg Config)
}

func (s *scene) Name() string { return s.name }
func (s *scene) Side() int    { return s.cfg.Side }

// Generate builds a fresh grid from seed.
func (s *scene) Generate(seed int64) *grid.Grid[uint8] {
	g := grid.New[uint8](s.cfg.Side)
	s.gen(g, rng.NewRNG(seed), s.cfg)
	if s.cfg.Border {
		border(g)
	}
	return g
}

func register(name string, gen func(*grid.Grid[uint8], *rng.RNG, Config)) {
	core.Register(name, func(cfg map[string]string) core.Scene {
		return &scene{name: name, cfg: FromMap(cfg), gen: gen}
	})
}

func init() {
	register("empty", func(*grid.Grid[uint8], *rng.RNG, Config) {})
	register("noise", noise)
	register("maze", maze)
	register("rooms", rooms)
}

func border(g *grid.Grid[uint8]) {
	side := g.SideLength()
	data := g.Data()
	for i := 0; i < side; i++ {
		data[i] = core.Wall
		data[(side-1)*side+i] = core.Wall
		data[i*side] = core.Wall
		data[i*side+side-1] = core.Wall
	}
}

func noise(g *grid.Grid[uint8], r *rng.RNG, cfg Config) {
	data := g.Data()
	r.Scatter(data, cfg.WallChance, core.Wall)
	for i := range data {
		if data[i] == core.Floor && r.Chance(cfg.MudChance) {
			data[i] = core.Mud
		}
	}
	side := g.SideLength()
	for p := 0; p < cfg.WaterPools; p++ {
		pool(g, r.IntRange(0, side-1), r.IntRange(0, side-1), r.IntRange(2, max(2, side/10)))
	}
}

// pool paints a filled circle of water.
func pool(g *grid.Grid[uint8], cx, cy, radius int) {
	for x := cx - radius; x <= cx+radius; x++ {
		for y := cy - radius; y <= cy+radius; y++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			g.Set(float64(x), float64(y), core.Water)
		}
	}
}

// maze carves a perfect maze with an iterative depth-first backtracker.
// Passages sit on odd coordinates.
func maze(g *grid.Grid[uint8], r *rng.RNG, _ Config) {
	data := g.Data()
	for i := range data {
		data[i] = core.Wall
	}
	side := g.SideLength()
	cells := (side - 1) / 2
	if cells < 1 {
		return
	}
	visited := make([]bool, cells*cells)
	carve := func(cx, cy int) { data[(2*cx+1)*side+2*cy+1] = core.Floor }

	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	stack := [][2]int{{0, 0}}
	visited[0] = true
	carve(0, 0)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		order := dirs
		r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		moved := false
		for _, d := range order {
			nx, ny := cur[0]+d[0], cur[1]+d[1]
			if nx < 0 || ny < 0 || nx >= cells || ny >= cells || visited[nx*cells+ny] {
				continue
			}
			visited[nx*cells+ny] = true
			data[(2*cur[0]+1+d[0])*side+2*cur[1]+1+d[1]] = core.Floor
			carve(nx, ny)
			stack = append(stack, [2]int{nx, ny})
			moved = true
			break
		}
		if !moved {
			stack = stack[:len(stack)-1]
		}
	}
}

// rooms places rectangular rooms and joins consecutive room centres with
// L-shaped corridors.
func rooms(g *grid.Grid[uint8], r *rng.RNG, cfg Config) {
	data := g.Data()
	for i := range data {
		data[i] = core.Wall
	}
	side := g.SideLength()
	if side < 3 {
		return
	}
	hi := min(cfg.RoomMax, side-2)
	lo := min(cfg.RoomMin, hi)

	var prevX, prevY int
	for n := 0; n < cfg.Rooms; n++ {
		w, h := r.IntRange(lo, hi), r.IntRange(lo, hi)
		x0 := r.IntRange(1, side-1-w)
		y0 := r.IntRange(1, side-1-h)
		for x := x0; x < x0+w; x++ {
			for y := y0; y < y0+h; y++ {
				v := core.Floor
				if r.Chance(cfg.MudChance) {
					v = core.Mud
				}
				data[x*side+y] = v
			}
		}
		cx, cy := x0+w/2, y0+h/2
		if n > 0 {
			corridor(g, prevX, prevY, cx, cy)
		}
		prevX, prevY = cx, cy
	}
}

func corridor(g *grid.Grid[uint8], ax, ay, bx, by int) {
	data := g.Data()
	side := g.SideLength()
	open := func(x, y int) {
		if data[x*side+y] == core.Wall {
			data[x*side+y] = core.Floor
		}
	}
	for x := min(ax, bx); x <= max(ax, bx); x++ {
		open(x, ay)
	}
	for y := min(ay, by); y <= max(ay, by); y++ {
		open(bx, y)
	}
}
