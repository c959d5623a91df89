package game

import (
	"landmass/internal/mesh"
	"landmass/internal/populate"
	"landmass/internal/terrain"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StatsSink counts terrain output instead of rendering it.
type StatsSink struct {
	MeshesShown       int
	MeshesByLOD       map[int]int
	VisibilityChanges int
	Visible           int
	Collisions        int
	Placements        int
	Released          int
	Triangles         int
}

// NewStatsSink returns an empty sink.
func NewStatsSink() *StatsSink {
	return &StatsSink{MeshesByLOD: make(map[int]int)}
}

func (s *StatsSink) ShowMesh(_ terrain.Coord, m *mesh.Data) {
	s.MeshesShown++
	s.MeshesByLOD[m.LOD]++
	s.Triangles += m.TriangleCount()
}

func (s *StatsSink) SetVisible(_ terrain.Coord, visible bool) {
	s.VisibilityChanges++
	if visible {
		s.Visible++
	} else {
		s.Visible--
	}
}

func (s *StatsSink) CommitCollision(terrain.Coord, *mesh.Data) {
	s.Collisions++
}

func (s *StatsSink) PlaceObjects(_ terrain.Coord, placements []populate.Placement) {
	s.Placements += len(placements)
}

func (s *StatsSink) Release(terrain.Coord) {
	s.Released++
}

// MarshalLogObject lets the sink be logged with zap.Object.
func (s *StatsSink) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("meshes", s.MeshesShown)
	enc.AddInt("triangles", s.Triangles)
	enc.AddInt("visible", s.Visible)
	enc.AddInt("visibilityChanges", s.VisibilityChanges)
	enc.AddInt("collisions", s.Collisions)
	enc.AddInt("placements", s.Placements)
	enc.AddInt("released", s.Released)
	return nil
}

var _ terrain.Sink = (*StatsSink)(nil)
var _ zapcore.ObjectMarshaler = (*StatsSink)(nil)

func statsField(s *StatsSink) zap.Field { return zap.Object("stats", s) }
