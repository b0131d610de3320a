package app

import (
	"flag"
	"time"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	Scene       string
	SceneParams string
	GridName    string
	Seed        int64

	Width  int
	Height int
	TPS    int
	FPS    float64
	Zoom   float64

	Rays      int
	FOV       float64
	Heuristic string
	Diagonal  bool
	StepMS    int

	Now func() time.Time
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Scene:     "rooms",
		GridName:  "default",
		Seed:      42,
		Width:     960,
		Height:    720,
		TPS:       60,
		FPS:       60,
		Zoom:      2,
		Rays:      96,
		FOV:       1.4,
		Heuristic: "default",
		Diagonal:  true,
		StepMS:    90,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Scene, "scene", c.Scene, "scene to generate")
	fs.StringVar(&c.SceneParams, "scene-params", c.SceneParams, "comma separated key=value scene parameters")
	fs.StringVar(&c.GridName, "grid", c.GridName, "name used when saving and loading")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for scene generation")
	fs.IntVar(&c.Width, "width", c.Width, "canvas width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "canvas height in pixels")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Float64Var(&c.FPS, "fps", c.FPS, "camera animation frame cap")
	fs.Float64Var(&c.Zoom, "zoom", c.Zoom, "initial zoom")
	fs.IntVar(&c.Rays, "rays", c.Rays, "rays in the visibility fan")
	fs.Float64Var(&c.FOV, "fov", c.FOV, "visibility field of view in radians")
	fs.StringVar(&c.Heuristic, "heuristic", c.Heuristic, "path heuristic: default, none, manhattan, chebyshev, euclidean, diagonal")
	fs.BoolVar(&c.Diagonal, "diagonal", c.Diagonal, "allow diagonal path steps")
	fs.IntVar(&c.StepMS, "step-ms", c.StepMS, "milliseconds per walked cell")
}
