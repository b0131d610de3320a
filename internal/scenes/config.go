package scenes

import "strconv"

// Config controls scene dimensions and generation density.
type Config struct {
	Side int

	Border     bool
	WallChance float64
	MudChance  float64
	WaterPools int

	Rooms   int
	RoomMin int
	RoomMax int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Side:       64,
		Border:     true,
		WallChance: 0.22,
		MudChance:  0.05,
		WaterPools: 3,
		Rooms:      9,
		RoomMin:    4,
		RoomMax:    10,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["side"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 2 {
			c.Side = parsed
		}
	}
	if v, ok := cfg["border"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Border = parsed
		}
	}
	if v, ok := cfg["wall_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.WallChance = parsed
		}
	}
	if v, ok := cfg["mud_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.MudChance = parsed
		}
	}
	if v, ok := cfg["water_pools"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.WaterPools = parsed
		}
	}
	if v, ok := cfg["rooms"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Rooms = parsed
		}
	}
	if v, ok := cfg["room_min"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.RoomMin = parsed
		}
	}
	if v, ok := cfg["room_max"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.RoomMax = parsed
		}
	}
	if c.RoomMax < c.RoomMin {
		c.RoomMax = c.RoomMin
	}
	return c
}
