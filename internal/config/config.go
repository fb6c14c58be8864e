// Package config handles SpaceCraft configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Planet    PlanetConfig    `yaml:"planet"`
	MeshQueue MeshQueueConfig `yaml:"mesh_queue"`
	Noise     NoiseConfig     `yaml:"noise"`
	Camera    CameraConfig    `yaml:"camera"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Wireframe  bool `yaml:"wireframe"`
}

// PlanetConfig holds the planet shape and LOD settings.
type PlanetConfig struct {
	Radius         float32 `yaml:"radius"`
	MaxDepth       uint8   `yaml:"max_depth"`
	LODMultiplier  float32 `yaml:"lod_multiplier"`
	GridResolution int     `yaml:"grid_resolution"` // Quads along one patch edge
}

// MeshQueueConfig holds mesh request queue settings.
type MeshQueueConfig struct {
	Capacity int `yaml:"capacity"`
	// DrainPerFrame caps the requests handled per frame; 0 drains everything.
	DrainPerFrame int `yaml:"drain_per_frame"`
}

// NoiseConfig holds terrain relief settings.
type NoiseConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Seed        int64   `yaml:"seed"`
	Amplitude   float64 `yaml:"amplitude"` // Fraction of the radius
	Frequency   float64 `yaml:"frequency"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
}

// CameraConfig holds the fly camera settings.
type CameraConfig struct {
	StartDistance float32 `yaml:"start_distance"` // In planet radii from the center
	Speed         float32 `yaml:"speed"`          // Units per second
	FOV           float32 `yaml:"fov"`            // Vertical, degrees
	Sensitivity   float32 `yaml:"sensitivity"`
}

// MetricsConfig holds the debug HTTP server settings.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // Empty disables the server
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Planet: PlanetConfig{
			Radius:         1000,
			MaxDepth:       8,
			LODMultiplier:  7,
			GridResolution: 16,
		},
		MeshQueue: MeshQueueConfig{
			Capacity: 10000,
		},
		Noise: NoiseConfig{
			Enabled:     true,
			Seed:        1,
			Amplitude:   0.02,
			Frequency:   2,
			Octaves:     5,
			Persistence: 0.5,
			Lacunarity:  2,
		},
		Camera: CameraConfig{
			StartDistance: 3,
			Speed:         400,
			FOV:           60,
			Sensitivity:   0.2,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate rejects settings the planet cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Planet.Radius <= 0 {
		errs = append(errs, fmt.Errorf("planet.radius must be positive, got %v", c.Planet.Radius))
	}
	if c.Planet.LODMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("planet.lod_multiplier must be positive, got %v", c.Planet.LODMultiplier))
	}
	if c.Planet.GridResolution < 1 {
		errs = append(errs, fmt.Errorf("planet.grid_resolution must be at least 1, got %d", c.Planet.GridResolution))
	}
	// Six root patches must fit, and so must one split (four creates and a hide).
	if c.MeshQueue.Capacity < 6 {
		errs = append(errs, fmt.Errorf("mesh_queue.capacity must be at least 6, got %d", c.MeshQueue.Capacity))
	}
	if c.MeshQueue.DrainPerFrame < 0 {
		errs = append(errs, fmt.Errorf("mesh_queue.drain_per_frame must not be negative, got %d", c.MeshQueue.DrainPerFrame))
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics size must be positive, got %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	return errors.Join(errs...)
}
