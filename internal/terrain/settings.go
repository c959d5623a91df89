package terrain

import (
	"errors"
	"fmt"
	"math"

	"landmass/internal/heightmap"
	"landmass/internal/mesh"
	"landmass/internal/populate"
)

// LODInfo pairs a mesh LOD with the distance up to which it is shown.
type LODInfo struct {
	LOD             int     `yaml:"lod"`
	VisibleDistance float32 `yaml:"visible_distance"`
}

// SqrVisibleDistance returns VisibleDistance squared.
func (l LODInfo) SqrVisibleDistance() float32 {
	return l.VisibleDistance * l.VisibleDistance
}

// Settings configures a Manager and its chunks.
type Settings struct {
	Height     heightmap.Settings
	Mesh       mesh.Settings
	Population populate.Settings

	// LODs is ordered by ascending VisibleDistance. The last entry's distance is the view distance.
	LODs             []LODInfo
	ColliderLODIndex int

	ViewerMoveThreshold float32
	CollisionDistance   float32
	// MaxCachedChunks bounds the chunk store in unbounded mode; 0 keeps every chunk.
	MaxCachedChunks int
}

// DefaultSettings returns the default streaming profile.
func DefaultSettings() Settings {
	return Settings{
		Height:     heightmap.DefaultSettings(),
		Mesh:       mesh.DefaultSettings(),
		Population: populate.DefaultSettings(),
		LODs: []LODInfo{
			{LOD: 0, VisibleDistance: 200},
			{LOD: 1, VisibleDistance: 400},
			{LOD: 4, VisibleDistance: 600},
		},
		ViewerMoveThreshold: 25,
		CollisionDistance:   10,
	}
}

// MaxViewDistance is the distance beyond which chunks are hidden.
func (s Settings) MaxViewDistance() float32 {
	if len(s.LODs) == 0 {
		return 0
	}
	return s.LODs[len(s.LODs)-1].VisibleDistance
}

// ViewRadius is the number of chunks streamed in each direction around a viewer.
func (s Settings) ViewRadius() int {
	return int(math.Round(float64(s.MaxViewDistance() / s.Mesh.MeshWorldSize())))
}

// FixedChunkCount is the number of chunks in a fixed-size terrain.
func (s Settings) FixedChunkCount() int {
	side := 2*s.Mesh.FixedTerrainSize + 1
	return side * side
}

// Validate reports every configuration error that makes streaming impossible.
func (s Settings) Validate() error {
	var errs []error
	if err := s.Mesh.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Population.Validate(); err != nil {
		errs = append(errs, err)
	}
	if s.Height.Curve == nil {
		errs = append(errs, errors.New("height curve is required"))
	}

	if len(s.LODs) == 0 {
		errs = append(errs, errors.New("at least one LOD is required"))
	}
	for i, l := range s.LODs {
		if l.LOD < 0 || l.LOD >= mesh.NumSupportedLODs {
			errs = append(errs, fmt.Errorf("lod %d: level %d outside [0,%d)", i, l.LOD, mesh.NumSupportedLODs))
		}
		if l.VisibleDistance <= 0 {
			errs = append(errs, fmt.Errorf("lod %d: visible distance must be positive", i))
		}
		if i > 0 && l.VisibleDistance <= s.LODs[i-1].VisibleDistance {
			errs = append(errs, fmt.Errorf("lod %d: visible distance %v not above previous %v", i, l.VisibleDistance, s.LODs[i-1].VisibleDistance))
		}
	}
	if s.ColliderLODIndex < 0 || s.ColliderLODIndex >= len(s.LODs) {
		errs = append(errs, fmt.Errorf("collider lod index %d outside [0,%d)", s.ColliderLODIndex, len(s.LODs)))
	}

	if s.ViewerMoveThreshold < 0 {
		errs = append(errs, errors.New("viewer move threshold must not be negative"))
	}
	if s.CollisionDistance <= 0 {
		errs = append(errs, errors.New("collision distance must be positive"))
	}
	if s.MaxCachedChunks < 0 {
		errs = append(errs, errors.New("max cached chunks must not be negative"))
	}
	if len(errs) == 0 && !s.Mesh.FixedTerrain && s.MaxCachedChunks > 0 {
		window := 2*s.ViewRadius() + 1
		if s.MaxCachedChunks < window*window {
			errs = append(errs, fmt.Errorf("max cached chunks %d below the %d chunk streaming window", s.MaxCachedChunks, window*window))
		}
	}
	return errors.Join(errs...)
}
