package meshgen

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"
)

// NoiseConfig controls terrain relief.
type NoiseConfig struct {
	Enabled     bool
	Seed        int64
	Amplitude   float64
	Frequency   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
}

// DefaultNoiseConfig returns gentle relief that keeps the planet recognizably round.
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		Enabled:     true,
		Seed:        1,
		Amplitude:   0.02,
		Frequency:   2,
		Octaves:     5,
		Persistence: 0.5,
		Lacunarity:  2,
	}
}

// Displacer returns the relative height of the surface at a point on the unit sphere.
// The mesh radius at that point becomes radius * (1 + height).
type Displacer interface {
	Height(unit mgl32.Vec3) float32
}

// Smooth is a perfect sphere.
type Smooth struct{}

func (Smooth) Height(mgl32.Vec3) float32 { return 0 }

// Simplex sums octaves of 3D OpenSimplex noise.
type Simplex struct {
	noise opensimplex.Noise
	cfg   NoiseConfig
}

// NewSimplex creates a displacer seeded from cfg.
func NewSimplex(cfg NoiseConfig) *Simplex {
	if cfg.Octaves < 1 {
		cfg.Octaves = 1
	}
	return &Simplex{
		noise: opensimplex.New(cfg.Seed),
		cfg:   cfg,
	}
}

// Height returns a value in [-Amplitude, Amplitude].
func (s *Simplex) Height(unit mgl32.Vec3) float32 {
	x, y, z := float64(unit.X()), float64(unit.Y()), float64(unit.Z())

	amplitude := 1.0
	frequency := s.cfg.Frequency
	sum := 0.0
	norm := 0.0
	for i := 0; i < s.cfg.Octaves; i++ {
		sum += s.noise.Eval3(x*frequency, y*frequency, z*frequency) * amplitude
		norm += amplitude
		amplitude *= s.cfg.Persistence
		frequency *= s.cfg.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return float32(sum / norm * s.cfg.Amplitude)
}

// NewDisplacer picks the displacer described by cfg.
func NewDisplacer(cfg NoiseConfig) Displacer {
	if !cfg.Enabled || cfg.Amplitude == 0 {
		return Smooth{}
	}
	return NewSimplex(cfg)
}
