// Package falloff builds edge attenuation masks used to sink terrain toward the map border.
package falloff

import (
	"fmt"
	"math"
)

// Mode selects the distance metric of the mask.
type Mode int

const (
	Square Mode = iota
	Circular
)

func (m Mode) String() string {
	if m == Circular {
		return "circular"
	}
	return "square"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "square", "":
		*m = Square
	case "circular":
		*m = Circular
	default:
		return fmt.Errorf("unknown falloff mode %q", text)
	}
	return nil
}

const (
	curveA = 3.0
	curveB = 2.2
)

// Mask is a square attenuation field in [0,1], 0 at the centre rising toward the edges.
// It is read-only after Generate and may be shared between goroutines.
type Mask struct {
	size   int
	values []float32
}

// Generate computes a size x size mask.
func Generate(size int, mode Mode) *Mask {
	m := &Mask{size: size, values: make([]float32, size*size)}
	for i := range size {
		for j := range size {
			x := float64(i)/float64(size)*2 - 1
			y := float64(j)/float64(size)*2 - 1

			var v float64
			switch mode {
			case Circular:
				v = math.Min(math.Sqrt(x*x+y*y), 1)
			default:
				v = math.Max(math.Abs(x), math.Abs(y))
			}
			m.values[i*size+j] = float32(evaluate(v))
		}
	}
	return m
}

func evaluate(v float64) float64 {
	a := math.Pow(v, curveA)
	return a / (a + math.Pow(curveB-curveB*v, curveA))
}

// Size returns the edge length of the mask.
func (m *Mask) Size() int { return m.size }

// At returns the mask value at an in-bounds cell.
func (m *Mask) At(x, y int) float32 {
	return m.values[x*m.size+y]
}

// Lookup returns the attenuation for a cell that may lie outside the mask.
//
// Cells inside the mask read directly. Cells within half a mask outside the border reflect
// onto an in-bounds cell, so the attenuation ring is mirrored around the map perimeter.
// Anything further out is unattenuated.
func (m *Mask) Lookup(x, y int) float32 {
	size := m.size
	xIn := x >= 0 && x < size
	yIn := y >= 0 && y < size
	if xIn && yIn {
		return m.At(x, y)
	}

	half := size / 2
	if x < -half || x >= size+half || y < -half || y >= size+half {
		return 0
	}

	switch {
	case !xIn && !yIn:
		x = absoluteIndex(x, size)
		y = absoluteIndex(y, size)
		if x > y {
			y = half
		} else {
			x = half
		}
	case !xIn:
		x = absoluteIndex(x, size)
		y = half
	default:
		y = absoluteIndex(y, size)
		x = half
	}
	return m.At(x, y)
}

// absoluteIndex maps an out-of-range index back inside [0, size).
func absoluteIndex(i, size int) int {
	if i < 0 {
		return -i
	}
	if i >= size {
		return i - size
	}
	return i
}
