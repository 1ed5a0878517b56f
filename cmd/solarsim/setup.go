package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/logging"
	"github.com/san-kum/solarsim/internal/orbit"
	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/sim"
)

// loadConfig resolves settings in increasing precedence: defaults, config
// file, .env and SOLARSIM_* variables, then flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnv(envFiles...); err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if flags.Changed("textures") {
		cfg.Render.TextureDir = textureDir
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-json") {
		cfg.Logging.JSON = logJSON
	}
	if flags.Changed("start") {
		cfg.Simulation.StartTime = startTime
	}
	if flags.Changed("speed") {
		cfg.Simulation.TimeSpeed = timeSpeed
	}
	if flags.Changed("fps") {
		cfg.Simulation.FPS = fps
	}
	if flags.Changed("no-orbits") {
		cfg.Render.ShowOrbits = !noOrbits
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func scales(cfg *config.Config) scene.Scales {
	return scene.Scales{Distance: cfg.Render.DistanceScale, Size: cfg.Render.SizeScale}
}

func lens(cfg *config.Config) scene.Lens {
	return scene.Lens{FOV: cfg.Render.FOV, Near: cfg.Render.Near, Far: cfg.Render.Far}
}

// newSimulation registers the solar system, places the camera and, when the
// camera config names a target body, turns towards it.
func newSimulation(cfg *config.Config, loader orbit.TextureLoader) (*sim.Simulation, error) {
	sys, err := orbit.NewSolarSystem(loader)
	if err != nil {
		return nil, err
	}
	cam, err := camera.New(cfg.CameraOptions())
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	s := sim.New(sys, cam, cfg.SimConfig())

	if target := cfg.Camera.Target; target != "" {
		id, err := sys.Lookup(target)
		if err != nil {
			return nil, fmt.Errorf("camera target %q: %w", target, err)
		}
		b, err := sys.Body(id)
		if err != nil {
			return nil, err
		}
		if err := cam.PointAt(scales(cfg).Point(b.Position)); err != nil {
			slog.Warn("cannot face camera target", "component", "cli", "target", target, "error", err)
		}
	}
	return s, nil
}

func initLogging(cfg *config.Config) *slog.Logger {
	return logging.Init(cfg.Logging).With("component", "cli")
}
