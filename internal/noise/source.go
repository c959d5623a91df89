package noise

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// SourceKind names a single-octave 2D noise function.
type SourceKind int

const (
	SourcePerlin SourceKind = iota
	SourceSimplex
	SourceValue
)

func (k SourceKind) String() string {
	switch k {
	case SourceSimplex:
		return "simplex"
	case SourceValue:
		return "value"
	default:
		return "perlin"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k SourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SourceKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "perlin", "":
		*k = SourcePerlin
	case "simplex":
		*k = SourceSimplex
	case "value":
		*k = SourceValue
	default:
		return fmt.Errorf("unknown noise source %q", text)
	}
	return nil
}

// Source is a deterministic 2D noise function with output roughly in [-1, 1].
// Implementations are read-only after construction and safe for concurrent use.
type Source interface {
	Sample(x, y float64) float64
}

// NewSource builds the noise function of the given kind for a seed.
func NewSource(kind SourceKind, seed int64) Source {
	switch kind {
	case SourceSimplex:
		return simplexSource{n: opensimplex.New(seed)}
	case SourceValue:
		return valueSource{seed: seed}
	default:
		return perlinSource{p: perlin.NewPerlin(2, 2, 1, seed)}
	}
}

// perlinLattice is the period of the go-perlin gradient table.
const perlinLattice = 256

type perlinSource struct {
	p *perlin.Perlin
}

// Sample wraps coordinates into one lattice period; go-perlin truncates toward zero
// and breaks continuity for large negative inputs.
func (s perlinSource) Sample(x, y float64) float64 {
	return s.p.Noise2D(wrap(x, perlinLattice), wrap(y, perlinLattice)) * math.Sqrt2
}

func wrap(v, period float64) float64 {
	v = math.Mod(v, period)
	if v < 0 {
		v += period
	}
	return v
}

type simplexSource struct {
	n opensimplex.Noise
}

func (s simplexSource) Sample(x, y float64) float64 {
	return s.n.Eval2(x, y)
}

type valueSource struct {
	seed int64
}

func (s valueSource) Sample(x, y float64) float64 {
	return valueNoise2D(x, y, s.seed)*2 - 1
}

// Sample01 maps a source into [0, 1], clamping overshoot.
func Sample01(src Source, x, y float64) float64 {
	return math.Min(math.Max(src.Sample(x, y)*0.5+0.5, 0), 1)
}
