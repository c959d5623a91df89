// Package game runs a headless terrain streaming session: scripted viewers drive a
// terrain.Manager frame by frame.
package game

import (
	"context"
	"time"

	"landmass/internal/config"
	"landmass/internal/profiling"
	"landmass/internal/terrain"
	"landmass/internal/worker"

	"go.uber.org/zap"
)

// Session owns the streaming manager, its worker pool and the viewers that move through the world.
type Session struct {
	Manager *terrain.Manager
	Viewers *ViewerPath
	Stats   *StatsSink

	pool    *worker.Pool
	prof    *profiling.Profiler
	log     *zap.Logger
	limiter *FPSLimiter
	cfg     config.SessionConfig

	frames int
	loaded bool
}

// NewSession builds a session from cfg. log may be nil.
func NewSession(cfg *config.Config, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		Viewers: NewViewerPath(cfg.Session.Viewers),
		Stats:   NewStatsSink(),
		pool:    worker.New(cfg.Streaming.Workers, log.Named("worker")),
		prof:    profiling.New(),
		log:     log,
		limiter: NewFPSLimiter(cfg.Session.FPSLimit),
		cfg:     cfg.Session,
	}

	m, err := terrain.NewManager(cfg.Terrain(), s.Viewers, s.Stats, s.pool, log.Named("terrain"), s.prof)
	if err != nil {
		s.pool.Close()
		return nil, err
	}
	s.Manager = m
	m.OnFullyLoaded(func() {
		s.loaded = true
		log.Info("terrain fully loaded", zap.Int("frame", s.frames), zap.Int("chunks", m.ChunkCount()))
	})
	return s, nil
}

// Frames returns the number of frames run so far.
func (s *Session) Frames() int { return s.frames }

// Loaded reports whether the fully loaded event has fired.
func (s *Session) Loaded() bool { return s.loaded }

// Run starts streaming and steps frames until the frame budget is spent, ctx is cancelled, or,
// with stop_when_loaded, the terrain is fully loaded. A zero frame budget runs until one of
// the other conditions holds.
func (s *Session) Run(ctx context.Context) error {
	start := time.Now()
	s.log.Info("session started",
		zap.Int("viewers", s.Viewers.Len()),
		zap.Float32("meshWorldSize", s.Manager.MeshWorldSize()),
		zap.Bool("fixed", s.Manager.Settings().Mesh.FixedTerrain),
	)
	s.Manager.Start()

	for !s.done() {
		if err := ctx.Err(); err != nil {
			s.finish(start)
			return err
		}
		s.Step()
		s.limiter.Wait()
	}
	s.finish(start)
	return nil
}

func (s *Session) done() bool {
	if s.cfg.StopWhenLoaded && s.loaded {
		return true
	}
	return s.cfg.Frames > 0 && s.frames >= s.cfg.Frames
}

// Step advances the viewers and the manager by one frame.
func (s *Session) Step() {
	s.prof.ResetFrame()
	s.Viewers.Advance()
	s.Manager.Update()
	s.frames++

	if s.cfg.ProfileEvery > 0 && s.frames%s.cfg.ProfileEvery == 0 {
		s.log.Debug("frame",
			zap.Int("frame", s.frames),
			zap.Int("chunks", s.Manager.ChunkCount()),
			zap.Int("visible", len(s.Manager.Visible())),
			zap.Int("pending", s.pool.Pending()),
			zap.Int64("workers", s.pool.RunningWorkers()),
			zap.String("top", s.prof.TopN(5)),
		)
	}
}

func (s *Session) finish(start time.Time) {
	s.log.Info("session finished",
		zap.Int("frames", s.frames),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chunks", s.Manager.ChunkCount()),
		zap.Bool("loaded", s.loaded),
		statsField(s.Stats),
	)
	s.log.Debug("profile totals", zap.String("top", s.prof.TopTotals(8)))
}

// Close stops the worker pool. Completions still queued are discarded.
func (s *Session) Close() {
	s.pool.Close()
}
