package terrain

import (
	"landmass/internal/mesh"
	"landmass/internal/populate"

	"github.com/go-gl/mathgl/mgl32"
)

// ViewerSource supplies the horizontal (x, z) world positions of every viewer. It is polled once per frame.
// Positions are compared slot by slot against the previous frame, so a source should keep each
// viewer at a stable index while it exists.
type ViewerSource interface {
	ViewerPositions() []mgl32.Vec2
}

// StaticViewers is a ViewerSource with fixed positions.
type StaticViewers []mgl32.Vec2

// ViewerPositions implements ViewerSource.
func (s StaticViewers) ViewerPositions() []mgl32.Vec2 { return s }

// Sink receives everything a renderer or physics engine needs from the terrain.
// All methods are called on the goroutine that drives the Manager.
type Sink interface {
	// ShowMesh replaces the displayed mesh of a chunk.
	ShowMesh(c Coord, m *mesh.Data)
	SetVisible(c Coord, visible bool)
	// CommitCollision is called at most once per chunk.
	CommitCollision(c Coord, m *mesh.Data)
	PlaceObjects(c Coord, placements []populate.Placement)
	// Release is called when a chunk is evicted; its meshes and objects can be freed.
	Release(c Coord)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) ShowMesh(Coord, *mesh.Data) {}
func (NopSink) SetVisible(Coord, bool) {}
func (NopSink) CommitCollision(Coord, *mesh.Data) {}
func (NopSink) PlaceObjects(Coord, []populate.Placement) {}
func (NopSink) Release(Coord) {}
