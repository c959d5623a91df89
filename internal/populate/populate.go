// Package populate scatters objects over a chunk's height map.
package populate

import (
	"fmt"

	"landmass/internal/heightmap"
	"landmass/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

// Object is a kind of thing that can be placed on terrain.
type Object struct {
	Name string `yaml:"name"`
	// NoiseThreshold admits a cell when the placement noise is below it. Lower thresholds win ties.
	NoiseThreshold float32 `yaml:"noise_threshold"`
	// MinHeight and MaxHeight are normalized heights mapped through the height curve and multiplier.
	MinHeight    float32 `yaml:"min_height"`
	MaxHeight    float32 `yaml:"max_height"`
	HeightOffset float32 `yaml:"height_offset"`
}

// Settings controls population.
type Settings struct {
	Enabled bool `yaml:"enabled"`
	// IndexStep is the sample stride over the height map, 1-5.
	IndexStep int `yaml:"index_step"`
	// MaxChunkRadius limits population to chunks within this Chebyshev radius of the origin; 0 means all.
	MaxChunkRadius int      `yaml:"max_chunk_radius"`
	Objects        []Object `yaml:"objects"`
}

// DefaultSettings returns population disabled with a small object table.
func DefaultSettings() Settings {
	return Settings{
		IndexStep: 3,
		Objects: []Object{
			{Name: "rock", NoiseThreshold: 0.3, MinHeight: 0.2, MaxHeight: 0.9},
			{Name: "tree", NoiseThreshold: 0.45, MinHeight: 0.35, MaxHeight: 0.7, HeightOffset: 0.5},
		},
	}
}

// Validate reports settings that cannot be used.
func (s Settings) Validate() error {
	if !s.Enabled {
		return nil
	}
	if s.IndexStep < 1 || s.IndexStep > 5 {
		return fmt.Errorf("population index step %d outside [1,5]", s.IndexStep)
	}
	if s.MaxChunkRadius < 0 {
		return fmt.Errorf("population radius must not be negative, got %d", s.MaxChunkRadius)
	}
	for _, o := range s.Objects {
		if o.MinHeight > o.MaxHeight {
			return fmt.Errorf("object %q: min height %v above max height %v", o.Name, o.MinHeight, o.MaxHeight)
		}
	}
	return nil
}

// InRange reports whether a chunk at (x, y) should be populated.
func (s Settings) InRange(x, y int) bool {
	if !s.Enabled {
		return false
	}
	if s.MaxChunkRadius == 0 {
		return true
	}
	return max(abs(x), abs(y)) <= s.MaxChunkRadius
}

// Placement is one placed object in chunk-local space.
type Placement struct {
	Object   string
	Position mgl32.Vec3
}

type heightBand struct {
	lo, hi float32
}

// Populate returns placements for a height map of width numVertsPerLine. sampleCentre is the
// chunk's centre in sample space and offsets the placement noise so neighbouring chunks differ.
func Populate(s Settings, hm *heightmap.HeightMap, meshScale float32, hs heightmap.Settings, src noise.Source, centreX, centreY float64) []Placement {
	if len(s.Objects) == 0 || s.IndexStep < 1 {
		return nil
	}
	c := hs.Curve.Clone()
	bands := make([]heightBand, len(s.Objects))
	for i, o := range s.Objects {
		bands[i] = heightBand{
			lo: c.Evaluate(o.MinHeight) * hs.Multiplier,
			hi: c.Evaluate(o.MaxHeight) * hs.Multiplier,
		}
	}

	n := hm.Width()
	half := n / 2
	var out []Placement
	for x := 1; x < n-1; x += s.IndexStep {
		for y := 1; y < n-1; y += s.IndexStep {
			h := hm.At(x, y)
			nv := float32(noise.Sample01(src, float64(x)+centreX+float64(h), float64(y)+centreY+float64(h)))

			pick := -1
			for i, o := range s.Objects {
				if nv >= o.NoiseThreshold || h < bands[i].lo || h > bands[i].hi {
					continue
				}
				if pick < 0 || o.NoiseThreshold < s.Objects[pick].NoiseThreshold {
					pick = i
				}
			}
			if pick < 0 {
				continue
			}

			o := s.Objects[pick]
			out = append(out, Placement{
				Object: o.Name,
				Position: mgl32.Vec3{
					float32(x-half) * meshScale,
					h + o.HeightOffset,
					float32(half-y) * meshScale,
				},
			})
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
