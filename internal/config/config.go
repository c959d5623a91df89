// Package config handles landmass configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"landmass/internal/curve"
	"landmass/internal/falloff"
	"landmass/internal/heightmap"
	"landmass/internal/mesh"
	"landmass/internal/noise"
	"landmass/internal/populate"
	"landmass/internal/preview"
	"landmass/internal/terrain"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Run modes.
const (
	RunStream  = "stream"
	RunPreview = "preview"
)

// Config holds all landmass settings.
type Config struct {
	Run        string            `yaml:"run"`
	Logging    LoggingConfig     `yaml:"logging"`
	Noise      noise.Settings    `yaml:"noise"`
	Height     HeightConfig      `yaml:"height"`
	Mesh       mesh.Settings     `yaml:"mesh"`
	LOD        LODConfig         `yaml:"lod"`
	Streaming  StreamingConfig   `yaml:"streaming"`
	Population populate.Settings `yaml:"population"`
	Session    SessionConfig     `yaml:"session"`
	Preview    preview.Settings  `yaml:"preview"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// HeightConfig shapes normalized noise into terrain heights.
type HeightConfig struct {
	Multiplier    float32      `yaml:"multiplier"`
	Curve         *curve.Curve `yaml:"curve"`
	UseFalloff    bool         `yaml:"use_falloff"`
	FalloffMode   falloff.Mode `yaml:"falloff_mode"`
	FalloffRadius int          `yaml:"falloff_radius_chunks"`
}

// LODConfig is the level-of-detail table.
type LODConfig struct {
	Levels        []terrain.LODInfo `yaml:"levels"`
	ColliderIndex int               `yaml:"collider_index"`
}

// StreamingConfig controls chunk streaming.
type StreamingConfig struct {
	ViewerMoveThreshold float32 `yaml:"viewer_move_threshold"`
	CollisionDistance   float32 `yaml:"collision_distance"`
	MaxCachedChunks     int     `yaml:"max_cached_chunks"`
	Workers             int     `yaml:"workers"`
}

// SessionConfig drives the headless simulation loop.
type SessionConfig struct {
	Frames         int            `yaml:"frames"`
	FPSLimit       int            `yaml:"fps_limit"`
	StopWhenLoaded bool           `yaml:"stop_when_loaded"`
	ProfileEvery   int            `yaml:"profile_every"`
	Viewers        []ViewerConfig `yaml:"viewers"`
}

// ViewerConfig is a viewer moving in a straight line at constant velocity, in world units per frame.
type ViewerConfig struct {
	X  float32 `yaml:"x"`
	Z  float32 `yaml:"z"`
	VX float32 `yaml:"vx"`
	VZ float32 `yaml:"vz"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	hs := heightmap.DefaultSettings()
	ts := terrain.DefaultSettings()
	return &Config{
		Run: RunStream,
		Logging: LoggingConfig{
			Level: "info",
		},
		Noise: noise.DefaultSettings(),
		Height: HeightConfig{
			Multiplier:  hs.Multiplier,
			Curve:       hs.Curve,
			FalloffMode: hs.FalloffMode,
		},
		Mesh: mesh.DefaultSettings(),
		LOD: LODConfig{
			Levels:        ts.LODs,
			ColliderIndex: ts.ColliderLODIndex,
		},
		Streaming: StreamingConfig{
			ViewerMoveThreshold: ts.ViewerMoveThreshold,
			CollisionDistance:   ts.CollisionDistance,
			Workers:             4,
		},
		Population: populate.DefaultSettings(),
		Session: SessionConfig{
			Frames:   600,
			FPSLimit: 60,
			Viewers:  []ViewerConfig{{VX: 4}},
		},
		Preview: preview.DefaultSettings(),
	}
}

// HeightSettings assembles the height map settings.
func (c *Config) HeightSettings() heightmap.Settings {
	return heightmap.Settings{
		Noise:         c.Noise,
		Multiplier:    c.Height.Multiplier,
		Curve:         c.Height.Curve,
		UseFalloff:    c.Height.UseFalloff,
		FalloffMode:   c.Height.FalloffMode,
		FalloffRadius: c.Height.FalloffRadius,
	}
}

// Terrain assembles the streaming settings.
func (c *Config) Terrain() terrain.Settings {
	return terrain.Settings{
		Height:              c.HeightSettings(),
		Mesh:                c.Mesh,
		Population:          c.Population,
		LODs:                c.LOD.Levels,
		ColliderLODIndex:    c.LOD.ColliderIndex,
		ViewerMoveThreshold: c.Streaming.ViewerMoveThreshold,
		CollisionDistance:   c.Streaming.CollisionDistance,
		MaxCachedChunks:     c.Streaming.MaxCachedChunks,
	}
}

// Validate clamps noise settings into range and reports every remaining error, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	c.Noise = c.Noise.Clamp()

	var errs []error
	switch c.Run {
	case RunStream:
		if err := c.Terrain().Validate(); err != nil {
			errs = append(errs, err)
		}
		if c.Streaming.Workers < 1 {
			errs = append(errs, fmt.Errorf("streaming workers must be at least 1, got %d", c.Streaming.Workers))
		}
		if c.Session.Frames < 0 || c.Session.FPSLimit < 0 || c.Session.ProfileEvery < 0 {
			errs = append(errs, errors.New("session frames, fps limit and profile interval must not be negative"))
		}
		if len(c.Session.Viewers) == 0 {
			errs = append(errs, errors.New("session needs at least one viewer"))
		}
	case RunPreview:
		if err := c.Mesh.Validate(); err != nil {
			errs = append(errs, err)
		}
		if err := c.Preview.Validate(); err != nil {
			errs = append(errs, err)
		}
		if c.Height.Curve == nil {
			errs = append(errs, errors.New("height curve is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown run mode %q", c.Run))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
