// Package heightmap turns noise fields into bounded, curve-shaped terrain heights.
package heightmap

import (
	"math"

	"landmass/internal/curve"
	"landmass/internal/falloff"
	"landmass/internal/noise"
)

// HeightMap is a square grid of elevations indexed [x][y] with its observed extrema.
// It is immutable once built.
type HeightMap struct {
	values [][]float32
	min    float32
	max    float32
}

// FromValues wraps an existing grid, scanning it for min/max. The grid must not be modified afterwards.
func FromValues(values [][]float32) *HeightMap {
	hm := &HeightMap{values: values, min: math.MaxFloat32, max: -math.MaxFloat32}
	for x := range values {
		for _, v := range values[x] {
			hm.min = min(hm.min, v)
			hm.max = max(hm.max, v)
		}
	}
	if len(values) == 0 {
		hm.min, hm.max = 0, 0
	}
	return hm
}

// Flat returns a width x width map of zeros.
func Flat(width int) *HeightMap {
	values := make([][]float32, width)
	for x := range values {
		values[x] = make([]float32, width)
	}
	return &HeightMap{values: values}
}

// Width returns the number of samples per edge.
func (h *HeightMap) Width() int { return len(h.values) }

// At returns the elevation at (x, y).
func (h *HeightMap) At(x, y int) float32 { return h.values[x][y] }

// Min returns the lowest elevation produced during generation.
func (h *HeightMap) Min() float32 { return h.min }

// Max returns the highest elevation produced during generation.
func (h *HeightMap) Max() float32 { return h.max }

// Settings controls how noise becomes height.
type Settings struct {
	Noise      noise.Settings `yaml:"noise"`
	Multiplier float32        `yaml:"multiplier"`
	Curve      *curve.Curve   `yaml:"curve"`

	UseFalloff  bool         `yaml:"use_falloff"`
	FalloffMode falloff.Mode `yaml:"falloff_mode"`
	// FalloffRadius is the mask radius in chunks for unbounded terrain; 0 uses the streaming window.
	FalloffRadius int `yaml:"falloff_radius_chunks"`
}

// DefaultSettings returns the default terrain profile.
func DefaultSettings() Settings {
	return Settings{
		Noise:       noise.DefaultSettings(),
		Multiplier:  30,
		Curve:       curve.EaseIn(),
		FalloffMode: falloff.Square,
	}
}

// MinHeight is the height produced by a normalized sample of 0.
func (s Settings) MinHeight() float32 {
	return s.Multiplier * s.Curve.Clone().Evaluate(0)
}

// MaxHeight is the height produced by a normalized sample of 1.
func (s Settings) MaxHeight() float32 {
	return s.Multiplier * s.Curve.Clone().Evaluate(1)
}

// Build generates a width x width height map centred on (centreX, centreY) in sample space.
func Build(width int, s Settings, centreX, centreY float64) *HeightMap {
	return build(width, s, centreX, centreY, nil, 0, 0)
}

// BuildWithFalloff is Build with the mask subtracted before the curve is applied. The cell
// (i, j) reads mask cell (startX+i, startY+j) through Mask.Lookup.
func BuildWithFalloff(width int, s Settings, centreX, centreY float64, mask *falloff.Mask, startX, startY int) *HeightMap {
	return build(width, s, centreX, centreY, mask, startX, startY)
}

func build(width int, s Settings, centreX, centreY float64, mask *falloff.Mask, startX, startY int) *HeightMap {
	values := noise.Generate(width, width, s.Noise, centreX, centreY)
	// the configured curve caches evaluation state; every build gets its own copy
	heightCurve := s.Curve.Clone()

	hm := &HeightMap{values: values, min: math.MaxFloat32, max: -math.MaxFloat32}
	for i := range width {
		for j := range width {
			v := values[i][j]
			if mask != nil {
				v -= mask.Lookup(startX+i, startY+j)
				if v < 0 {
					v = 0
				}
			}
			// evaluated at the raw (pre-remap) value, not a normalized position
			v *= heightCurve.Evaluate(v) * s.Multiplier
			values[i][j] = v

			hm.min = min(hm.min, v)
			hm.max = max(hm.max, v)
		}
	}
	if width == 0 {
		hm.min, hm.max = 0, 0
	}
	return hm
}
