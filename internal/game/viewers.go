package game

import (
	"landmass/internal/config"

	"github.com/go-gl/mathgl/mgl32"
)

// Viewer moves in a straight line on the horizontal plane. Vectors are (x, z).
type Viewer struct {
	Position mgl32.Vec2
	Velocity mgl32.Vec2
}

// ViewerPath is a scripted set of viewers. It implements terrain.ViewerSource.
type ViewerPath struct {
	viewers   []Viewer
	positions []mgl32.Vec2
}

// NewViewerPath builds viewers from their configured start points and velocities.
func NewViewerPath(cfg []config.ViewerConfig) *ViewerPath {
	p := &ViewerPath{}
	for _, v := range cfg {
		p.Add(Viewer{
			Position: mgl32.Vec2{v.X, v.Z},
			Velocity: mgl32.Vec2{v.VX, v.VZ},
		})
	}
	return p
}

// Add appends a viewer.
func (p *ViewerPath) Add(v Viewer) {
	p.viewers = append(p.viewers, v)
	p.positions = append(p.positions, v.Position)
}

// Len returns the number of viewers.
func (p *ViewerPath) Len() int { return len(p.viewers) }

// Advance moves every viewer by one frame of velocity.
func (p *ViewerPath) Advance() {
	for i := range p.viewers {
		v := &p.viewers[i]
		v.Position = v.Position.Add(v.Velocity)
		p.positions[i] = v.Position
	}
}

// ViewerPositions returns the current positions. The slice is reused between frames.
func (p *ViewerPath) ViewerPositions() []mgl32.Vec2 { return p.positions }
