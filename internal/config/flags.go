package config

import (
	"flag"

	"landmass/internal/preview"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagSeed    = flag.Int64("seed", 0, "Noise seed")
	flagFixed   = flag.Int("fixed", 0, "Generate a fixed-size terrain of this chunk radius")
	flagFrames  = flag.Int("frames", 0, "Number of frames to simulate (0 runs until stopped)")
	flagPreview = flag.String("preview", "", "Export a preview instead of streaming: noise, falloff or mesh")
	flagOutput  = flag.String("o", "", "Preview output path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config flag.
func ConfigPath() string {
	return *flagConfig
}

// setFlags returns the names of the flags given on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// applyFlags applies the CLI overrides named in set to the config. Flags left at their
// defaults never override file values.
func applyFlags(cfg *Config, set map[string]bool) {
	if set["debug"] && *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if set["seed"] {
		cfg.Noise.Seed = *flagSeed
	}
	if set["fixed"] {
		cfg.Mesh.FixedTerrain = true
		cfg.Mesh.FixedTerrainSize = *flagFixed
	}
	if set["frames"] {
		cfg.Session.Frames = *flagFrames
	}
	if set["preview"] {
		cfg.Run = RunPreview
		var mode preview.Mode
		if err := mode.UnmarshalText([]byte(*flagPreview)); err != nil {
			// leave the run mode invalid so Validate reports it
			cfg.Run = *flagPreview
		} else {
			cfg.Preview.Mode = mode
		}
	}
	if set["o"] {
		cfg.Preview.Output = *flagOutput
	}
}
