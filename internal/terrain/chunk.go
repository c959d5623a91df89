package terrain

import (
	"math"

	"landmass/internal/falloff"
	"landmass/internal/heightmap"
	"landmass/internal/mesh"
	"landmass/internal/noise"
	"landmass/internal/populate"
	"landmass/internal/worker"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// State is a chunk's position in its load/collision lifecycle.
type State int

const (
	StateCreated State = iota
	StateHeightMapPending
	StateHeightMapReady
	StateCollisionPending
	StateCollisionReady
)

func (s State) String() string {
	switch s {
	case StateHeightMapPending:
		return "height-map-pending"
	case StateHeightMapReady:
		return "height-map-ready"
	case StateCollisionPending:
		return "collision-pending"
	case StateCollisionReady:
		return "collision-ready"
	default:
		return "created"
	}
}

// MeshState tracks one LOD mesh of a chunk.
type MeshState int

const (
	MeshNone MeshState = iota
	MeshPending
	MeshReady
)

// chunkEnv is everything chunks of one manager share. viewers is refreshed by the manager every frame.
type chunkEnv struct {
	settings     Settings
	pool         *worker.Pool
	sink         Sink
	log          *zap.Logger
	placeNoise   noise.Source
	collisionSqr float32
	viewers      []mgl32.Vec2
}

type lodMesh struct {
	lod   int
	state MeshState
	data  *mesh.Data
}

// Chunk is one terrain tile. All methods must be called from the goroutine that dispatches the
// worker pool; background tasks only see immutable inputs.
type Chunk struct {
	coord        Coord
	bounds       Bounds
	centreX      float64
	centreY      float64
	env          *chunkEnv
	lodMeshes    []lodMesh
	previousLOD  int
	heightMap    *heightmap.HeightMap
	loading      bool
	visible      bool
	collider     *mesh.Data
	colliderWant bool
	released     bool

	// alwaysInBounds chunks belong to a fixed-size terrain and promote collision regardless of distance.
	alwaysInBounds bool

	onVisibilityChanged func(c *Chunk, visible bool)
	onCollision         func(c *Chunk)
}

func newChunk(coord Coord, env *chunkEnv) *Chunk {
	ms := env.settings.Mesh
	worldSize := ms.MeshWorldSize()
	pos := mgl32.Vec2{float32(coord.X) * worldSize, float32(coord.Y) * worldSize}

	c := &Chunk{
		coord:       coord,
		bounds:      Bounds{Centre: pos, Size: worldSize},
		centreX:     float64(coord.X) * float64(ms.ChunkSize()),
		centreY:     float64(coord.Y) * float64(ms.ChunkSize()),
		env:         env,
		lodMeshes:   make([]lodMesh, len(env.settings.LODs)),
		previousLOD: -1,
	}
	for i, l := range env.settings.LODs {
		c.lodMeshes[i].lod = l.LOD
	}
	return c
}

// Coord returns the chunk's grid coordinate.
func (c *Chunk) Coord() Coord { return c.coord }

// Bounds returns the chunk's horizontal extent in world space.
func (c *Chunk) Bounds() Bounds { return c.bounds }

// Visible reports whether the chunk is within view distance of a viewer and has a height map.
func (c *Chunk) Visible() bool { return c.visible }

// CurrentLOD returns the index into the LOD table of the displayed mesh, or -1 if none is displayed.
func (c *Chunk) CurrentLOD() int { return c.previousLOD }

// HeightMap returns the chunk's height map, nil until it has been generated.
func (c *Chunk) HeightMap() *heightmap.HeightMap { return c.heightMap }

// CollisionMesh returns the committed collision mesh, nil until committed.
func (c *Chunk) CollisionMesh() *mesh.Data { return c.collider }

// Mesh returns the generated mesh for an LOD table index, if any.
func (c *Chunk) Mesh(lodIndex int) *mesh.Data { return c.lodMeshes[lodIndex].data }

// MeshState returns the generation state of an LOD table index.
func (c *Chunk) MeshState(lodIndex int) MeshState { return c.lodMeshes[lodIndex].state }

// State returns the chunk's lifecycle state.
func (c *Chunk) State() State {
	switch {
	case c.collider != nil:
		return StateCollisionReady
	case c.colliderWant:
		return StateCollisionPending
	case c.heightMap != nil:
		return StateHeightMapReady
	case c.loading:
		return StateHeightMapPending
	default:
		return StateCreated
	}
}

// Load requests the chunk's height map in the background.
func (c *Chunk) Load() {
	if c.loading || c.heightMap != nil {
		return
	}
	c.loading = true
	hs := c.env.settings.Height
	width := c.env.settings.Mesh.NumVertsPerLine()
	cx, cy := c.centreX, c.centreY
	worker.Request(c.env.pool, func() *heightmap.HeightMap {
		return heightmap.Build(width, hs, cx, cy)
	}, c.onHeightMap)
}

// LoadWithFalloff is Load with a shared falloff mask subtracted. (startX, startY) is the mask
// cell under the chunk's first height sample.
func (c *Chunk) LoadWithFalloff(mask *falloff.Mask, startX, startY int) {
	if c.loading || c.heightMap != nil {
		return
	}
	c.loading = true
	hs := c.env.settings.Height
	width := c.env.settings.Mesh.NumVertsPerLine()
	cx, cy := c.centreX, c.centreY
	worker.Request(c.env.pool, func() *heightmap.HeightMap {
		return heightmap.BuildWithFalloff(width, hs, cx, cy, mask, startX, startY)
	}, c.onHeightMap)
}

// LoadFlat installs an all-zero height map immediately.
func (c *Chunk) LoadFlat() {
	if c.loading || c.heightMap != nil {
		return
	}
	c.loading = true
	c.onHeightMap(heightmap.Flat(c.env.settings.Mesh.NumVertsPerLine()))
}

func (c *Chunk) onHeightMap(hm *heightmap.HeightMap) {
	if c.released {
		return
	}
	c.heightMap = hm
	c.loading = false

	c.Update()
	if c.alwaysInBounds {
		c.UpdateCollision()
	}
	c.populate()
}

func (c *Chunk) populate() {
	ps := c.env.settings.Population
	if !ps.InRange(c.coord.X, c.coord.Y) {
		return
	}
	hm := c.heightMap
	hs := c.env.settings.Height
	scale := c.env.settings.Mesh.Scale
	src := c.env.placeNoise
	cx, cy := c.centreX, c.centreY
	worker.Request(c.env.pool, func() []populate.Placement {
		return populate.Populate(ps, hm, scale, hs, src, cx, cy)
	}, func(p []populate.Placement) {
		if c.released || len(p) == 0 {
			return
		}
		c.env.sink.PlaceObjects(c.coord, p)
	})
}

// sqrViewerDistance returns the squared distance from the chunk to its closest viewer.
func (c *Chunk) sqrViewerDistance() float32 {
	best := float32(math.MaxFloat32)
	for _, v := range c.env.viewers {
		best = min(best, c.bounds.SqrDistance(v))
	}
	return best
}

// Update recomputes visibility and the displayed LOD. It does nothing before the height map arrives.
func (c *Chunk) Update() {
	if c.heightMap == nil || c.released {
		return
	}
	lods := c.env.settings.LODs
	dist := float32(math.Sqrt(float64(c.sqrViewerDistance())))

	wasVisible := c.visible
	visible := dist <= c.env.settings.MaxViewDistance()

	if visible {
		lodIndex := 0
		for i := 0; i < len(lods)-1; i++ {
			if dist > lods[i].VisibleDistance {
				lodIndex = i + 1
			} else {
				break
			}
		}

		if lodIndex != c.previousLOD {
			lm := &c.lodMeshes[lodIndex]
			switch lm.state {
			case MeshReady:
				c.previousLOD = lodIndex
				c.env.sink.ShowMesh(c.coord, lm.data)
			case MeshNone:
				c.requestMesh(lodIndex)
			}
		}
	}

	if wasVisible != visible {
		c.visible = visible
		c.env.sink.SetVisible(c.coord, visible)
		if c.onVisibilityChanged != nil {
			c.onVisibilityChanged(c, visible)
		}
	}
}

func (c *Chunk) requestMesh(lodIndex int) {
	lm := &c.lodMeshes[lodIndex]
	lm.state = MeshPending
	hm := c.heightMap
	ms := c.env.settings.Mesh
	lod := lm.lod
	worker.Request(c.env.pool, func() *mesh.Data {
		return mesh.Build(hm, ms, lod)
	}, func(d *mesh.Data) {
		c.onMesh(lodIndex, d)
	})
}

// onMesh caches a finished mesh. Meshes for LODs no longer wanted stay cached for reuse.
func (c *Chunk) onMesh(lodIndex int, d *mesh.Data) {
	if c.released {
		return
	}
	lm := &c.lodMeshes[lodIndex]
	lm.data = d
	lm.state = MeshReady

	c.Update()
	if lodIndex == c.env.settings.ColliderLODIndex {
		c.UpdateCollision()
	}
}

// UpdateCollision requests the collider LOD once a viewer is within its visible distance and
// commits it once a viewer is within the collision distance. A committed collider is never replaced.
func (c *Chunk) UpdateCollision() {
	if c.collider != nil || c.heightMap == nil || c.released {
		return
	}
	idx := c.env.settings.ColliderLODIndex
	lm := &c.lodMeshes[idx]
	sqr := c.sqrViewerDistance()

	if c.alwaysInBounds || sqr < c.env.settings.LODs[idx].SqrVisibleDistance() {
		c.colliderWant = true
		if lm.state == MeshNone {
			c.requestMesh(idx)
		}
	}

	if c.alwaysInBounds || sqr < c.env.collisionSqr {
		if lm.state == MeshReady {
			c.colliderWant = true
			c.collider = lm.data
			c.env.sink.CommitCollision(c.coord, lm.data)
			c.env.log.Debug("collision committed", zap.Stringer("coord", c.coord), zap.Int("lod", lm.lod))
			if c.onCollision != nil {
				c.onCollision(c)
			}
		}
	}
}

// release drops the chunk's data; late task completions are ignored afterwards.
func (c *Chunk) release() {
	c.released = true
	c.heightMap = nil
	c.collider = nil
	for i := range c.lodMeshes {
		c.lodMeshes[i].data = nil
	}
	c.env.sink.Release(c.coord)
}
