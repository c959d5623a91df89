// Package terrain streams procedurally generated terrain chunks around a set of viewers.
package terrain

import (
	"fmt"
	"slices"

	"landmass/internal/falloff"
	"landmass/internal/noise"
	"landmass/internal/profiling"
	"landmass/internal/worker"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Manager owns every chunk and decides which are loaded and visible. It is not safe for
// concurrent use: Start and Update must be called from one goroutine, which also receives
// every Sink call.
type Manager struct {
	settings Settings
	viewers  ViewerSource
	pool     *worker.Pool
	log      *zap.Logger
	prof     *profiling.Profiler

	env     *chunkEnv
	store   *Store
	visible []*Chunk

	meshWorldSize float32
	viewRadius    int
	sqrMoveThresh float32

	mask       *falloff.Mask
	maskRadius int

	lastFrame []mgl32.Vec2
	lastTick  []mgl32.Vec2

	collisionReady int
	fullyLoaded    bool
	onLoaded       []func()
}

// NewManager validates settings and prepares a manager. It does not stream anything until Start.
// log and prof may be nil.
func NewManager(s Settings, viewers ViewerSource, sink Sink, pool *worker.Pool, log *zap.Logger, prof *profiling.Profiler) (*Manager, error) {
	s.Height.Noise = s.Height.Noise.Clamp()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("terrain settings: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if sink == nil {
		sink = NopSink{}
	}

	m := &Manager{
		settings:      s,
		viewers:       viewers,
		pool:          pool,
		log:           log,
		prof:          prof,
		meshWorldSize: s.Mesh.MeshWorldSize(),
		viewRadius:    s.ViewRadius(),
		sqrMoveThresh: s.ViewerMoveThreshold * s.ViewerMoveThreshold,
	}
	m.env = &chunkEnv{
		settings:     s,
		pool:         pool,
		sink:         sink,
		log:          log,
		placeNoise:   noise.NewSource(s.Height.Noise.Source, s.Height.Noise.Seed),
		collisionSqr: s.CollisionDistance * s.CollisionDistance,
	}

	capacity := s.MaxCachedChunks
	if s.Mesh.FixedTerrain {
		capacity = 0
	}
	store, err := NewStore(capacity, m.evict)
	if err != nil {
		return nil, fmt.Errorf("chunk store: %w", err)
	}
	m.store = store

	if s.Height.UseFalloff {
		m.maskRadius = m.falloffRadius()
		inner := s.Mesh.NumVertsPerLine() - 3
		m.mask = falloff.Generate((2*m.maskRadius+1)*inner+3, s.Height.FalloffMode)
	}
	return m, nil
}

func (m *Manager) falloffRadius() int {
	switch {
	case m.settings.Mesh.FixedTerrain:
		return m.settings.Mesh.FixedTerrainSize
	case m.settings.Height.FalloffRadius > 0:
		return m.settings.Height.FalloffRadius
	default:
		return m.viewRadius
	}
}

// Settings returns the validated settings the manager runs with.
func (m *Manager) Settings() Settings { return m.settings }

// MeshWorldSize returns the world-space edge length of one chunk.
func (m *Manager) MeshWorldSize() float32 { return m.meshWorldSize }

// FalloffMask returns the shared falloff mask, nil when falloff is disabled.
func (m *Manager) FalloffMask() *falloff.Mask { return m.mask }

// Chunk returns the chunk at coord without affecting eviction order.
func (m *Manager) Chunk(coord Coord) (*Chunk, bool) { return m.store.Peek(coord) }

// ChunkCount returns the number of chunks held.
func (m *Manager) ChunkCount() int { return m.store.Len() }

// Visible returns the currently visible chunks.
func (m *Manager) Visible() []*Chunk { return slices.Clone(m.visible) }

// FullyLoaded reports whether every chunk of a fixed-size terrain has committed its collision mesh.
func (m *Manager) FullyLoaded() bool { return m.fullyLoaded }

// OnFullyLoaded registers fn to run once every chunk of a fixed-size terrain has committed its
// collision mesh. If that already happened fn runs immediately.
func (m *Manager) OnFullyLoaded(fn func()) {
	if m.fullyLoaded {
		fn()
		return
	}
	m.onLoaded = append(m.onLoaded, fn)
}

// Start polls the viewers and runs the first streaming pass.
func (m *Manager) Start() {
	positions := m.poll()
	m.lastFrame = positions
	m.lastTick = positions
	m.updateVisibleChunks()
}

// Update advances one frame: deliver finished background work, check collision promotion if a
// viewer moved, and re-stream once a viewer has moved past the threshold since the last pass.
func (m *Manager) Update() {
	defer m.prof.Track("terrain.Update")()

	positions := m.poll()

	stop := m.prof.Track("worker.Dispatch")
	m.pool.Dispatch()
	stop()

	if moved(m.lastFrame, positions, 0) {
		stop := m.prof.Track("terrain.updateCollision")
		for _, c := range slices.Clone(m.visible) {
			c.UpdateCollision()
		}
		stop()
	}
	m.lastFrame = positions

	if moved(m.lastTick, positions, m.sqrMoveThresh) {
		m.lastTick = positions
		m.updateVisibleChunks()
	}
}

func (m *Manager) poll() []mgl32.Vec2 {
	positions := slices.Clone(m.viewers.ViewerPositions())
	m.env.viewers = positions
	return positions
}

// moved reports whether any viewer travelled more than sqrt(sqrThresh), or the viewer count changed.
// Viewers are matched by index. Streaming depends only on the set of positions, so a reordered
// or replaced viewer counts as movement exactly when some slot's position shifted.
func moved(prev, cur []mgl32.Vec2, sqrThresh float32) bool {
	if len(prev) != len(cur) {
		return true
	}
	for i := range cur {
		if d := cur[i].Sub(prev[i]); d.Dot(d) > sqrThresh {
			return true
		}
	}
	return false
}

func (m *Manager) updateVisibleChunks() {
	defer m.prof.Track("terrain.updateVisibleChunks")()

	updated := make(map[Coord]struct{}, len(m.visible))
	for i := len(m.visible) - 1; i >= 0; i-- {
		// Update may hide and remove this chunk from the list
		c := m.visible[i]
		updated[c.coord] = struct{}{}
		c.Update()
	}

	// chunks still visible and every coordinate of every viewer window stay resident
	// until the next pass, however many viewers there are
	keep := make(map[Coord]struct{}, len(m.visible))
	touched := make([]Coord, 0, len(m.visible))
	for _, c := range m.visible {
		keep[c.coord] = struct{}{}
		touched = append(touched, c.coord)
	}
	var pending []Coord
	m.eachStreamedCoord(func(coord Coord) {
		if _, ok := keep[coord]; !ok {
			keep[coord] = struct{}{}
			touched = append(touched, coord)
		}
		if _, ok := updated[coord]; !ok {
			pending = append(pending, coord)
		}
	})
	if size := m.store.Retain(touched); m.settings.MaxCachedChunks > 0 && size > m.settings.MaxCachedChunks {
		m.log.Debug("chunk cache grown to cover viewer windows", zap.Int("capacity", size))
	}

	for _, coord := range pending {
		if c, ok := m.store.Get(coord); ok {
			c.Update()
			continue
		}
		m.createChunk(coord)
	}
}

// eachStreamedCoord enumerates the coordinates that should be loaded, without duplicates.
func (m *Manager) eachStreamedCoord(fn func(Coord)) {
	if m.settings.Mesh.FixedTerrain {
		size := m.settings.Mesh.FixedTerrainSize
		for y := -size; y <= size; y++ {
			for x := -size; x <= size; x++ {
				fn(Coord{X: x, Y: y})
			}
		}
		return
	}

	seen := make(map[Coord]struct{})
	r := m.viewRadius
	for _, v := range m.env.viewers {
		centre := CoordAt(v, m.meshWorldSize)
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				coord := Coord{X: centre.X + dx, Y: centre.Y + dy}
				if _, ok := seen[coord]; ok {
					continue
				}
				seen[coord] = struct{}{}
				fn(coord)
			}
		}
	}
}

func (m *Manager) createChunk(coord Coord) {
	c := newChunk(coord, m.env)
	c.alwaysInBounds = m.settings.Mesh.FixedTerrain
	c.onVisibilityChanged = m.visibilityChanged
	c.onCollision = m.collisionCommitted
	m.store.Add(c)
	m.log.Debug("chunk created", zap.Stringer("coord", coord))

	switch {
	case m.settings.Height.Multiplier == 0:
		// every height scales to zero, so skip the noise pass
		c.LoadFlat()
	case m.mask != nil:
		inner := m.settings.Mesh.NumVertsPerLine() - 3
		c.LoadWithFalloff(m.mask, (coord.X+m.maskRadius)*inner, (m.maskRadius-coord.Y)*inner)
	default:
		c.Load()
	}
}

func (m *Manager) visibilityChanged(c *Chunk, visible bool) {
	if visible {
		m.visible = append(m.visible, c)
		return
	}
	if i := slices.Index(m.visible, c); i >= 0 {
		m.visible = slices.Delete(m.visible, i, i+1)
	}
}

func (m *Manager) collisionCommitted(c *Chunk) {
	if !m.settings.Mesh.FixedTerrain || m.fullyLoaded {
		return
	}
	m.collisionReady++
	if m.collisionReady < m.settings.FixedChunkCount() {
		return
	}
	m.fullyLoaded = true
	m.log.Info("terrain fully loaded", zap.Int("chunks", m.collisionReady))
	for _, fn := range m.onLoaded {
		fn()
	}
	m.onLoaded = nil
}

func (m *Manager) evict(c *Chunk) {
	if c.visible {
		c.visible = false
		m.visibilityChanged(c, false)
	}
	c.release()
	m.log.Debug("chunk evicted", zap.Stringer("coord", c.coord))
}
