// Package noise synthesizes layered gradient-noise height fields.
package noise

import (
	"fmt"
	"math"
	"math/rand"
)

// MinScale is the floor applied to Settings.Scale.
const MinScale = 0.0001

// NormalizeMode selects how accumulated octave values are mapped back to a usable range.
type NormalizeMode int

const (
	// NormalizeGlobal divides by the estimated maximum amplitude. Adjacent chunks generated
	// independently agree on their shared edges.
	NormalizeGlobal NormalizeMode = iota
	// NormalizeLocal rescales by the min/max observed in a single call. Separately generated
	// chunks will show seams.
	NormalizeLocal
)

func (m NormalizeMode) String() string {
	switch m {
	case NormalizeLocal:
		return "local"
	default:
		return "global"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m NormalizeMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *NormalizeMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "global", "":
		*m = NormalizeGlobal
	case "local":
		*m = NormalizeLocal
	default:
		return fmt.Errorf("unknown normalize mode %q", text)
	}
	return nil
}

// Settings describes a layered noise field.
type Settings struct {
	Seed        int64         `yaml:"seed"`
	OffsetX     float64       `yaml:"offset_x"`
	OffsetY     float64       `yaml:"offset_y"`
	Octaves     int           `yaml:"octaves"`
	Persistence float64       `yaml:"persistence"`
	Lacunarity  float64       `yaml:"lacunarity"`
	Scale       float64       `yaml:"scale"`
	Normalize   NormalizeMode `yaml:"normalize"`
	Source      SourceKind    `yaml:"source"`
}

// DefaultSettings returns the settings used by the default terrain profile.
func DefaultSettings() Settings {
	return Settings{
		Seed:        0,
		Octaves:     6,
		Persistence: 0.5,
		Lacunarity:  2,
		Scale:       50,
		Normalize:   NormalizeGlobal,
		Source:      SourcePerlin,
	}
}

// Clamp forces the settings into their valid ranges and returns the result.
func (s Settings) Clamp() Settings {
	if s.Scale < MinScale {
		s.Scale = MinScale
	}
	if s.Octaves < 0 {
		s.Octaves = 0
	}
	if s.Lacunarity < 1 {
		s.Lacunarity = 1
	}
	s.Persistence = math.Min(math.Max(s.Persistence, 0), 1)
	return s
}

// MaxAmplitude is the sum of octave amplitudes, the theoretical peak of the accumulated signal.
func (s Settings) MaxAmplitude() float64 {
	total := 0.0
	amplitude := 1.0
	for range s.Octaves {
		total += amplitude
		amplitude *= s.Persistence
	}
	return total
}

// Generate fills a width x height grid, indexed [x][y], with layered noise sampled around
// sampleCentre. The result depends only on the arguments.
func Generate(width, height int, settings Settings, centreX, centreY float64) [][]float32 {
	s := settings.Clamp()
	src := NewSource(s.Source, s.Seed)

	prng := rand.New(rand.NewSource(s.Seed))
	offsets := make([][2]float64, s.Octaves)
	for i := range offsets {
		offsets[i][0] = float64(prng.Intn(200000)-100000) + s.OffsetX + centreX
		offsets[i][1] = float64(prng.Intn(200000)-100000) - s.OffsetY - centreY
	}
	maxPossible := s.MaxAmplitude()

	values := make([][]float32, width)
	raw := make([]float64, width*height)
	minLocal := math.Inf(1)
	maxLocal := math.Inf(-1)

	halfW := float64(width) / 2
	halfH := float64(height) / 2

	for x := range width {
		values[x] = make([]float32, height)
		for y := range height {
			amplitude := 1.0
			frequency := 1.0
			h := 0.0
			for i := range s.Octaves {
				sx := (float64(x) - halfW + offsets[i][0]) / s.Scale * frequency
				sy := (float64(y) - halfH + offsets[i][1]) / s.Scale * frequency
				h += src.Sample(sx, sy) * amplitude
				amplitude *= s.Persistence
				frequency *= s.Lacunarity
			}
			minLocal = math.Min(minLocal, h)
			maxLocal = math.Max(maxLocal, h)
			raw[x*height+y] = h
		}
	}

	for x := range width {
		for y := range height {
			h := raw[x*height+y]
			switch s.Normalize {
			case NormalizeLocal:
				h = inverseLerp(minLocal, maxLocal, h)
			default:
				if maxPossible > 0 {
					h = math.Max((h+1)/(maxPossible/0.9), 0)
				} else {
					h = 0
				}
			}
			values[x][y] = float32(h)
		}
	}
	return values
}

func inverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return math.Min(math.Max((v-a)/(b-a), 0), 1)
}
