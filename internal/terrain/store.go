package terrain

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Store maps coordinates to chunks. With a capacity it evicts the least recently used chunk
// once full; without one it keeps every chunk forever.
type Store struct {
	chunks   map[Coord]*Chunk
	recency  *lru.Cache[Coord, *Chunk]
	capacity int
	onEvict  func(*Chunk)
}

// NewStore creates a store. capacity <= 0 means unbounded. onEvict runs for every evicted chunk.
func NewStore(capacity int, onEvict func(*Chunk)) (*Store, error) {
	s := &Store{
		chunks:   make(map[Coord]*Chunk),
		capacity: capacity,
		onEvict:  onEvict,
	}
	if capacity > 0 {
		cache, err := lru.NewWithEvict(capacity, func(coord Coord, c *Chunk) {
			delete(s.chunks, coord)
			if s.onEvict != nil {
				s.onEvict(c)
			}
		})
		if err != nil {
			return nil, err
		}
		s.recency = cache
	}
	return s, nil
}

// Get returns the chunk at coord and marks it recently used.
func (s *Store) Get(coord Coord) (*Chunk, bool) {
	c, ok := s.chunks[coord]
	if ok && s.recency != nil {
		s.recency.Get(coord)
	}
	return c, ok
}

// Peek returns the chunk at coord without touching its recency.
func (s *Store) Peek(coord Coord) (*Chunk, bool) {
	c, ok := s.chunks[coord]
	return c, ok
}

// Add inserts a chunk, evicting the least recently used one if the store is full.
func (s *Store) Add(c *Chunk) {
	s.chunks[c.coord] = c
	if s.recency != nil {
		s.recency.Add(c.coord, c)
	}
}

// Len returns the number of stored chunks.
func (s *Store) Len() int { return len(s.chunks) }

// Retain marks every chunk in coords as most recently used and sizes the store so that none
// of them can be evicted before the next Retain, even when coords outnumber the configured
// capacity. Chunks outside coords are evicted first when the store shrinks back.
// It returns the effective capacity, 0 when unbounded.
func (s *Store) Retain(coords []Coord) int {
	if s.recency == nil {
		return 0
	}
	for _, coord := range coords {
		s.recency.Get(coord)
	}
	size := max(s.capacity, len(coords))
	s.recency.Resize(size)
	return size
}
