package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Coord identifies a chunk on the terrain grid. Chunk (x, y) is centred on world (x, y) * meshWorldSize
// in the horizontal plane.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// CoordAt returns the chunk containing a horizontal world position.
func CoordAt(pos mgl32.Vec2, meshWorldSize float32) Coord {
	return Coord{
		X: int(math.Round(float64(pos.X() / meshWorldSize))),
		Y: int(math.Round(float64(pos.Y() / meshWorldSize))),
	}
}

// Bounds is an axis-aligned square in the horizontal plane.
type Bounds struct {
	Centre mgl32.Vec2
	Size   float32
}

// SqrDistance returns the squared distance from p to the nearest point of the square, 0 inside it.
func (b Bounds) SqrDistance(p mgl32.Vec2) float32 {
	half := b.Size / 2
	dx := max(abs32(p.X()-b.Centre.X())-half, 0)
	dy := max(abs32(p.Y()-b.Centre.Y())-half, 0)
	return dx*dx + dy*dy
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
