package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/sim"
)

const (
	DefaultStartTime     = 2.552
	DefaultTimeSpeed     = 0.1
	DefaultFPS           = 100.0
	DefaultDistanceScale = 1e-8
	DefaultSizeScale     = 5e-6
	DefaultOrbitSegments = 360
	DefaultFOV           = 70.0
	DefaultNear          = 0.001
	DefaultFar           = 500.0
	DefaultWidth         = 1280
	DefaultHeight        = 720
	DefaultServerAddr    = ":8080"
	DefaultStreamFPS     = 20.0
)

var ErrInvalidConfig = errors.New("config: invalid")

// Vec is a YAML-friendly [x, y, z] triple.
type Vec [3]float64

func (v Vec) Vec3() dynamo.Vec3 { return dynamo.Vec3{X: v[0], Y: v[1], Z: v[2]} }

func FromVec3(v dynamo.Vec3) Vec { return Vec{v.X, v.Y, v.Z} }

type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Camera     CameraConfig     `yaml:"camera"`
	Render     RenderConfig     `yaml:"render"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type SimulationConfig struct {
	StartTime float64 `yaml:"start_time"`
	TimeSpeed float64 `yaml:"time_speed"`
	FPS       float64 `yaml:"fps"`
}

// CameraConfig is expressed in scene units. Preset, when set, overrides the
// pose fields.
type CameraConfig struct {
	Preset      string  `yaml:"preset,omitempty"`
	Position    Vec     `yaml:"position,flow"`
	Forward     Vec     `yaml:"forward,flow"`
	Up          Vec     `yaml:"up,flow"`
	Target      string  `yaml:"target,omitempty"`
	MoveSpeed   float64 `yaml:"move_speed"`
	TurnSpeed   float64 `yaml:"turn_speed"`
	MinSpeed    float64 `yaml:"min_speed"`
	MaxSpeed    float64 `yaml:"max_speed"`
	SpeedFactor float64 `yaml:"speed_factor"`
}

type RenderConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	FOV           float64 `yaml:"fov"`
	Near          float64 `yaml:"near"`
	Far           float64 `yaml:"far"`
	DistanceScale float64 `yaml:"distance_scale"`
	SizeScale     float64 `yaml:"size_scale"`
	TextureDir    string  `yaml:"texture_dir"`
	Skybox        string  `yaml:"skybox"`
	ShowOrbits    bool    `yaml:"show_orbits"`
	OrbitSegments int     `yaml:"orbit_segments"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	StreamFPS      float64       `yaml:"stream_fps"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`

	// RequestsPerSecond and Burst limit API calls per client IP; zero
	// disables the limit.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		Simulation: SimulationConfig{
			StartTime: DefaultStartTime,
			TimeSpeed: DefaultTimeSpeed,
			FPS:       DefaultFPS,
		},
		Camera: CameraConfig{
			MoveSpeed:   camera.DefaultMoveSpeed,
			TurnSpeed:   camera.DefaultTurnSpeed,
			MinSpeed:    camera.DefaultMinSpeed,
			MaxSpeed:    camera.DefaultMaxSpeed,
			SpeedFactor: camera.DefaultSpeedFactor,
		},
		Render: RenderConfig{
			Width:         DefaultWidth,
			Height:        DefaultHeight,
			FOV:           DefaultFOV,
			Near:          DefaultNear,
			Far:           DefaultFar,
			DistanceScale: DefaultDistanceScale,
			SizeScale:     DefaultSizeScale,
			TextureDir:    "images",
			Skybox:        "stars.tga",
			ShowOrbits:    true,
			OrbitSegments: DefaultOrbitSegments,
		},
		Server: ServerConfig{
			Addr:           DefaultServerAddr,
			AllowedOrigins: []string{"*"},
			StreamFPS:      DefaultStreamFPS,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,

			RequestsPerSecond: 20,
			Burst:             40,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
	cfg.Camera.setPose(Viewpoints["default"])
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Camera.Preset != "" {
		if err := cfg.ApplyPreset(cfg.Camera.Preset); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case !finite(c.Simulation.StartTime) || !finite(c.Simulation.TimeSpeed):
		return fmt.Errorf("%w: start_time and time_speed must be finite", ErrInvalidConfig)
	case !(c.Simulation.FPS > 0) || math.IsInf(c.Simulation.FPS, 0):
		return fmt.Errorf("%w: fps must be positive, got %f", ErrInvalidConfig, c.Simulation.FPS)
	case c.Render.DistanceScale <= 0 || c.Render.SizeScale <= 0:
		return fmt.Errorf("%w: render scales must be positive", ErrInvalidConfig)
	case c.Render.OrbitSegments < 3:
		return fmt.Errorf("%w: orbit_segments must be at least 3, got %d", ErrInvalidConfig, c.Render.OrbitSegments)
	case c.Render.Near <= 0 || c.Render.Far <= c.Render.Near:
		return fmt.Errorf("%w: need 0 < near < far", ErrInvalidConfig)
	case c.Render.Width <= 0 || c.Render.Height <= 0:
		return fmt.Errorf("%w: window size must be positive", ErrInvalidConfig)
	case c.Server.StreamFPS <= 0:
		return fmt.Errorf("%w: stream_fps must be positive", ErrInvalidConfig)
	case c.Server.RequestsPerSecond < 0 || c.Server.Burst < 0:
		return fmt.Errorf("%w: rate limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// CameraOptions converts the camera section for camera.New.
func (c *Config) CameraOptions() camera.Options {
	return camera.Options{
		Position:    c.Camera.Position.Vec3(),
		Forward:     c.Camera.Forward.Vec3(),
		Up:          c.Camera.Up.Vec3(),
		MoveSpeed:   c.Camera.MoveSpeed,
		TurnSpeed:   c.Camera.TurnSpeed,
		MinSpeed:    c.Camera.MinSpeed,
		MaxSpeed:    c.Camera.MaxSpeed,
		SpeedFactor: c.Camera.SpeedFactor,
	}
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		StartTime:  c.Simulation.StartTime,
		TimeSpeed:  c.Simulation.TimeSpeed,
		ShowOrbits: c.Render.ShowOrbits,
	}
}

// ApplyPreset replaces the camera pose with a named viewpoint.
func (c *Config) ApplyPreset(name string) error {
	vp := GetPreset(name)
	if vp == nil {
		return fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, name)
	}
	c.Camera.Preset = name
	c.Camera.setPose(*vp)
	return nil
}

func (cc *CameraConfig) setPose(vp Viewpoint) {
	cc.Position = vp.Position
	cc.Forward = vp.Forward
	cc.Up = vp.Up
	cc.Target = vp.Target
}
