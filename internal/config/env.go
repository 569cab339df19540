package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "THEATER_"

type lookupFunc func(key string) (string, bool)

func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return values, nil
}

func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}
	float := func(key string, dst *float32) {
		if v, ok := lookup(EnvPrefix + key); ok {
			f, err := strconv.ParseFloat(v, 32)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = float32(f)
		}
	}

	str("WINDOW_TITLE", &c.Window.Title)
	integer("WINDOW_WIDTH", &c.Window.Width)
	integer("WINDOW_HEIGHT", &c.Window.Height)
	str("VIDEO_SOURCE", &c.Video.Source)
	str("VIDEO_QUALITY", &c.Video.Quality)
	boolean("VIDEO_AUTOPLAY", &c.Video.Autoplay)
	boolean("VIDEO_AUDIO", &c.Video.Audio)
	float("ENV_INTENSITY", &c.Environment.Intensity)
	float("LIGHT_INTENSITY", &c.Light.Intensity)
	str("TONE_MAPPING", &c.Renderer.ToneMapping)
	float("EXPOSURE", &c.Renderer.Exposure)
	integer("MSAA", &c.Renderer.MSAA)
	boolean("VSYNC", &c.Renderer.VSync)
	boolean("PROFILING", &c.Profiling)

	if len(errs) > 0 {
		return fmt.Errorf("failed to apply environment: %w", errors.Join(errs...))
	}
	return nil
}
