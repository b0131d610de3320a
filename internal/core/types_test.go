package core

import (
	"testing"

	"canvas-grid/pkg/grid"
)

type flatScene struct{ side int }

func (f flatScene) Name() string                     { return "flat" }
func (f flatScene) Side() int                        { return f.side }
func (f flatScene) Generate(int64) *grid.Grid[uint8] { return grid.New[uint8](f.side) }

func TestRegisterIgnoresInvalid(t *testing.T) {
	before := len(Scenes())
	Register("", func(map[string]string) Scene { return flatScene{} })
	Register("nil-factory", nil)
	if len(Scenes()) != before {
		t.Fatal("invalid registrations should be ignored")
	}

	Register("flat-test", func(cfg map[string]string) Scene { return flatScene{side: 3} })
	defer delete(scenes, "flat-test")
	s := Scenes()["flat-test"](nil)
	if s.Generate(0).SideLength() != 3 {
		t.Fatal("registered factory not returned")
	}
}

func TestParseParams(t *testing.T) {
	got := ParseParams("side=8, rooms=3,bad,=x")
	if len(got) != 2 || got["side"] != "8" || got["rooms"] != "3" {
		t.Fatalf("params=%v", got)
	}
}
