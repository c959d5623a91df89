package mesh

import "fmt"

const (
	// NumSupportedLODs is the number of decimation levels a mesh can be built at.
	NumSupportedLODs = 5
	// NumSupportedFlatShadedChunkSizes limits flat shading to the smaller chunk sizes,
	// since it triples the vertex count.
	NumSupportedFlatShadedChunkSizes = 3
)

// SupportedChunkSizes lists the chunk edge lengths in quads. Each is divisible by every LOD stride.
var SupportedChunkSizes = [...]int{48, 72, 96, 120, 144, 168, 192, 216, 240}

// Settings describes chunk geometry.
type Settings struct {
	ChunkSizeIndex           int     `yaml:"chunk_size_index"`
	FlatShadedChunkSizeIndex int     `yaml:"flat_shaded_chunk_size_index"`
	Scale                    float32 `yaml:"scale"`
	FlatShading              bool    `yaml:"flat_shading"`

	// FixedTerrain bounds the world to chunk coordinates [-FixedTerrainSize, FixedTerrainSize] on both axes.
	FixedTerrain     bool `yaml:"fixed_terrain"`
	FixedTerrainSize int  `yaml:"fixed_terrain_size"`
}

// DefaultSettings returns the default mesh geometry.
func DefaultSettings() Settings {
	return Settings{
		ChunkSizeIndex: 4,
		Scale:          2.5,
	}
}

// Validate reports settings that cannot produce a mesh.
func (s Settings) Validate() error {
	if s.FlatShading {
		if s.FlatShadedChunkSizeIndex < 0 || s.FlatShadedChunkSizeIndex >= NumSupportedFlatShadedChunkSizes {
			return fmt.Errorf("flat shaded chunk size index %d outside [0,%d)", s.FlatShadedChunkSizeIndex, NumSupportedFlatShadedChunkSizes)
		}
	} else if s.ChunkSizeIndex < 0 || s.ChunkSizeIndex >= len(SupportedChunkSizes) {
		return fmt.Errorf("chunk size index %d outside [0,%d)", s.ChunkSizeIndex, len(SupportedChunkSizes))
	}
	if s.Scale <= 0 {
		return fmt.Errorf("mesh scale must be positive, got %v", s.Scale)
	}
	if s.FixedTerrain && s.FixedTerrainSize < 0 {
		return fmt.Errorf("fixed terrain size must not be negative, got %d", s.FixedTerrainSize)
	}
	return nil
}

// ChunkSize returns the chunk edge length in quads at LOD 0.
func (s Settings) ChunkSize() int {
	if s.FlatShading {
		return SupportedChunkSizes[s.FlatShadedChunkSizeIndex]
	}
	return SupportedChunkSizes[s.ChunkSizeIndex]
}

// NumVertsPerLine is the height samples per chunk edge, including one border vertex on each side.
func (s Settings) NumVertsPerLine() int {
	return s.ChunkSize() + 3
}

// MeshWorldSize is the world-space edge length covered by one chunk.
func (s Settings) MeshWorldSize() float32 {
	return float32(s.NumVertsPerLine()-3) * s.Scale
}

// SkipIncrement is the vertex stride used at a LOD level.
func SkipIncrement(lod int) int {
	if lod == 0 {
		return 1
	}
	return lod * 2
}
