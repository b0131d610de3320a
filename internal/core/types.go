package core

import (
	"sort"
	"strings"

	"canvas-grid/pkg/grid"
)

// Scene generates the starting terrain for a square grid.
type Scene interface {
	Name() string
	Side() int
	Generate(seed int64) *grid.Grid[uint8]
}

// Factory constructs a Scene using an optional configuration map.
type Factory func(cfg map[string]string) Scene

var scenes = map[string]Factory{}

// Register adds a scene factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	scenes[name] = f
}

// Scenes exposes the registry of available scene factories.
func Scenes() map[string]Factory {
	return scenes
}

// SceneNames lists registered scenes alphabetically.
func SceneNames() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseParams splits "k=v,k2=v2" into a scene parameter map. Malformed
// pairs are skipped.
func ParseParams(s string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || k == "" {
			continue
		}
		out[k] = v
	}
	return out
}
