package scenes

import (
	"slices"
	"testing"

	"canvas-grid/internal/core"
	"canvas-grid/pkg/astar"
	"canvas-grid/pkg/editor"
)

func TestRegistered(t *testing.T) {
	want := []string{"empty", "maze", "noise", "rooms"}
	if got := core.SceneNames(); !slices.Equal(got, want) {
		t.Fatalf("scenes=%v want %v", got, want)
	}
}

func TestSameSeedSameGrid(t *testing.T) {
	for _, name := range core.SceneNames() {
		s := core.Scenes()[name](map[string]string{"side": "31"})
		a, b := s.Generate(5), s.Generate(5)
		if !slices.Equal(a.Data(), b.Data()) {
			t.Fatalf("%s: equal seeds produced different grids", name)
		}
		if a.SideLength() != 31 {
			t.Fatalf("%s: side=%d want 31", name, a.SideLength())
		}
	}
}

func TestBorderIsWalled(t *testing.T) {
	g := core.Scenes()["empty"](nil).Generate(1)
	side := g.SideLength()
	for i := 0; i < side; i++ {
		for _, idx := range []int{i, (side-1)*side + i, i * side, i*side + side - 1} {
			if v, _ := g.GetIndex(idx); v != core.Wall {
				t.Fatalf("border cell %d=%d want wall", idx, v)
			}
		}
	}
	g = core.Scenes()["empty"](map[string]string{"border": "false"}).Generate(1)
	for _, v := range g.Data() {
		if v != core.Floor {
			t.Fatal("borderless empty scene should be all floor")
		}
	}
}

func TestMazeIsConnected(t *testing.T) {
	g := core.Scenes()["maze"](map[string]string{"side": "21"}).Generate(42)
	floors := 0
	for _, v := range g.Data() {
		if v == core.Floor {
			floors++
		}
	}
	// A perfect maze on 10x10 passage cells carves 100 cells and 99 links.
	if floors != 199 {
		t.Fatalf("floor cells=%d want 199", floors)
	}
	seed := 1*21 + 1
	filled, err := editor.Fill(g.Clone(), seed, core.Mud)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if filled != floors {
		t.Fatalf("flood reached %d of %d floor cells", filled, floors)
	}

	res, err := astar.Find(seed, 19*21+19, g, core.Walls(), &astar.Options[uint8]{})
	if err != nil || len(res.Path) == 0 {
		t.Fatalf("no path across the maze: %v", err)
	}
}

func TestRoomsAreConnected(t *testing.T) {
	g := core.Scenes()["rooms"](map[string]string{"side": "48", "mud_chance": "0"}).Generate(9)
	open := -1
	total := 0
	for i, v := range g.Data() {
		if v != core.Wall {
			total++
			if open < 0 {
				open = i
			}
		}
	}
	if open < 0 {
		t.Fatal("rooms scene carved nothing")
	}
	filled, err := editor.Fill(g.Clone(), open, core.Water)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if filled != total {
		t.Fatalf("rooms not connected: reached %d of %d open cells", filled, total)
	}
}

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{"side": "2", "wall_chance": "1.5", "room_min": "8", "room_max": "3"})
	d := DefaultConfig()
	if c.Side != d.Side || c.WallChance != d.WallChance {
		t.Fatalf("invalid values should keep defaults: %+v", c)
	}
	if c.RoomMin != 8 || c.RoomMax != 8 {
		t.Fatalf("room bounds=%d..%d want 8..8", c.RoomMin, c.RoomMax)
	}
}
