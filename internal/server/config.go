package server

import (
	"flag"
	"os"
	"time"
)

// Config represents the command-line parameters for the grid server.
type Config struct {
	Addr        string
	Scene       string
	SceneParams string
	GridName    string
	Seed        int64

	Cameras int
	TPS     int
	FPS     float64
	StepMS  int
	Patrol  bool

	CanvasWidth  float64
	CanvasHeight float64
	Zoom         float64
	Rays         int
	FOV          float64

	// Manual drives the move scheduler from Step instead of its own ticker.
	Manual bool
	Now    func() time.Time
}

// NewConfig returns a Config populated with sensible defaults. PORT from
// the environment overrides the listen port.
func NewConfig() *Config {
	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	return &Config{
		Addr:         addr,
		Scene:        "rooms",
		GridName:     "default",
		Seed:         42,
		Cameras:      2,
		TPS:          20,
		FPS:          60,
		StepMS:       180,
		Patrol:       true,
		CanvasWidth:  640,
		CanvasHeight: 480,
		Zoom:         2,
		Rays:         48,
		FOV:          1.2,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.StringVar(&c.Scene, "scene", c.Scene, "scene generated when no stored grid exists")
	fs.StringVar(&c.SceneParams, "scene-params", c.SceneParams, "comma separated key=value scene parameters")
	fs.StringVar(&c.GridName, "grid", c.GridName, "name the grid and cameras are stored under")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for scene generation and patrols")
	fs.IntVar(&c.Cameras, "cameras", c.Cameras, "number of cameras")
	fs.IntVar(&c.TPS, "tps", c.TPS, "broadcast ticks per second")
	fs.Float64Var(&c.FPS, "fps", c.FPS, "camera animation frames per second")
	fs.IntVar(&c.StepMS, "step-ms", c.StepMS, "milliseconds per patrol step on open floor")
	fs.BoolVar(&c.Patrol, "patrol", c.Patrol, "walk cameras between random cells")
	fs.Float64Var(&c.CanvasWidth, "canvas-width", c.CanvasWidth, "client canvas width used for viewports")
	fs.Float64Var(&c.CanvasHeight, "canvas-height", c.CanvasHeight, "client canvas height used for viewports")
	fs.Float64Var(&c.Zoom, "zoom", c.Zoom, "initial camera zoom")
	fs.IntVar(&c.Rays, "rays", c.Rays, "rays cast per camera for visibility")
	fs.Float64Var(&c.FOV, "fov", c.FOV, "visibility field of view in radians")
}
