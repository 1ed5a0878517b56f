package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const EnvPrefix = "SOLARSIM_"

// LoadEnv reads .env style files into the process environment. Missing files
// are not an error; variables already set are never overwritten.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("no env file", "component", "config", "file", f)
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from SOLARSIM_* variables.
func (c *Config) ApplyEnv() error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *float64) {
		if v, ok := lookup(key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = f
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}

	num("START_TIME", &c.Simulation.StartTime)
	num("TIME_SPEED", &c.Simulation.TimeSpeed)
	num("FPS", &c.Simulation.FPS)
	num("MOVE_SPEED", &c.Camera.MoveSpeed)
	str("TEXTURE_DIR", &c.Render.TextureDir)
	flag("SHOW_ORBITS", &c.Render.ShowOrbits)
	str("SERVER_ADDR", &c.Server.Addr)
	num("STREAM_FPS", &c.Server.StreamFPS)
	str("LOG_LEVEL", &c.Logging.Level)
	flag("LOG_JSON", &c.Logging.JSON)

	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v, ok := lookup("PRESET"); ok {
		if err := c.ApplyPreset(v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}
