package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/renderer"
	"github.com/Carmen-Shannon/oxy-theater/engine/video"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no path is given. It is optional.
const DefaultPath = "theater.yaml"

// DefaultEnvFile is the dotenv file merged under the process environment. It is optional.
const DefaultEnvFile = ".env"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Vec3 is a three component vector written as a YAML sequence.
type Vec3 [3]float32

// WindowConfig sizes the native window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// VideoConfig describes the embedded player.
type VideoConfig struct {
	Source         string `yaml:"source"`
	ElementID      string `yaml:"element_id"`
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	Autoplay       bool   `yaml:"autoplay"`
	Quality        string `yaml:"quality"`
	ModestBranding bool   `yaml:"modest_branding"`
	Controls       bool   `yaml:"controls"`
	CCLoadPolicy   int    `yaml:"cc_load_policy"`
	FS             bool   `yaml:"fs"`
	Loop           bool   `yaml:"loop"`
	PlaysInline    bool   `yaml:"plays_inline"`
	Rel            bool   `yaml:"rel"`
	DisableKB      bool   `yaml:"disable_kb"`
	Audio          bool   `yaml:"audio"`
}

// SurfaceConfig places the video surface in the world.
type SurfaceConfig struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Position Vec3    `yaml:"position"`
	Scale    float32 `yaml:"scale"`
}

// EnvironmentConfig lists the background cube faces in +X, -X, +Y, -Y, +Z, -Z order.
type EnvironmentConfig struct {
	Faces     [common.CubeFaceCount]string `yaml:"faces"`
	Intensity float32                      `yaml:"intensity"`
}

// ModelConfig places the model stand-in.
type ModelConfig struct {
	Scale     float32 `yaml:"scale"`
	Position  Vec3    `yaml:"position"`
	RotationY float32 `yaml:"rotation_y"`
}

// LightConfig configures the directional light.
type LightConfig struct {
	Color      Vec3    `yaml:"color"`
	Intensity  float32 `yaml:"intensity"`
	Position   Vec3    `yaml:"position"`
	ShadowFar  float32 `yaml:"shadow_far"`
	ShadowMap  int     `yaml:"shadow_map"`
	NormalBias float32 `yaml:"normal_bias"`
}

// CameraConfig configures the perspective camera and its controls.
type CameraConfig struct {
	Fov      float32 `yaml:"fov"`
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
	Position Vec3    `yaml:"position"`
	Damping  bool    `yaml:"damping"`
}

// RendererConfig configures the primary renderer.
type RendererConfig struct {
	ToneMapping string  `yaml:"tone_mapping"`
	Exposure    float32 `yaml:"exposure"`
	MSAA        int     `yaml:"msaa"`
	VSync       bool    `yaml:"vsync"`
	Shadows     bool    `yaml:"shadows"`
	FrameLimit  float64 `yaml:"frame_limit"`
}

// FogConfig configures linear fog.
type FogConfig struct {
	Color Vec3    `yaml:"color"`
	Near  float32 `yaml:"near"`
	Far   float32 `yaml:"far"`
}

// Config is the full application configuration.
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Video       VideoConfig       `yaml:"video"`
	Surface     SurfaceConfig     `yaml:"surface"`
	Environment EnvironmentConfig `yaml:"environment"`
	Model       ModelConfig       `yaml:"model"`
	Light       LightConfig       `yaml:"light"`
	Camera      CameraConfig      `yaml:"camera"`
	Renderer    RendererConfig    `yaml:"renderer"`
	Fog         FogConfig         `yaml:"fog"`
	Profiling   bool              `yaml:"profiling"`
}

// Default returns the configuration the theater scene is tuned for.
//
// Returns:
//   - *Config: a new default configuration
func Default() *Config {
	opts := video.DefaultOptions()
	return &Config{
		Window: WindowConfig{Title: "oxy theater", Width: 1280, Height: 720},
		Video: VideoConfig{
			Source:         "media/video.mp4",
			ElementID:      "iframe",
			Width:          opts.Width,
			Height:         opts.Height,
			Autoplay:       opts.Autoplay,
			Quality:        string(opts.SuggestedQuality),
			ModestBranding: opts.ModestBranding,
			Controls:       opts.Controls,
			CCLoadPolicy:   opts.CCLoadPolicy,
			FS:             opts.FS,
			Loop:           opts.Loop,
			PlaysInline:    opts.PlaysInline,
			Rel:            opts.Rel,
			DisableKB:      opts.DisableKB,
			Audio:          true,
		},
		Surface: SurfaceConfig{Width: 720, Height: 405, Position: Vec3{0, 0, -4}, Scale: 0.01},
		Environment: EnvironmentConfig{
			Faces: [common.CubeFaceCount]string{
				"environment/px.png", "environment/nx.png",
				"environment/py.png", "environment/ny.png",
				"environment/pz.png", "environment/nz.png",
			},
			Intensity: 2.5,
		},
		Model: ModelConfig{Scale: 10, Position: Vec3{0, -4, 0}, RotationY: math.Pi / 2},
		Light: LightConfig{
			Color:      Vec3{1, 1, 1},
			Intensity:  3,
			Position:   Vec3{0.25, 3, -2.25},
			ShadowFar:  15,
			ShadowMap:  1024,
			NormalBias: 0.05,
		},
		Camera: CameraConfig{Fov: 75, Near: 0.1, Far: 2000, Position: Vec3{4, 1, -4}, Damping: true},
		Renderer: RendererConfig{
			ToneMapping: renderer.ToneMappingReinhard.String(),
			Exposure:    3,
			MSAA:        4,
			VSync:       true,
			Shadows:     true,
		},
		Fog: FogConfig{Color: Vec3{1, 1, 1}, Near: 10, Far: 30},
	}
}

// Load builds a configuration from defaults, then the YAML file at path, then the environment.
// The process environment wins over entries of the dotenv file. Missing files are skipped.
//
// Parameters:
//   - path: the YAML file, empty for DefaultPath
//   - envFile: the dotenv file, empty for DefaultEnvFile
//
// Returns:
//   - *Config: the loaded configuration, not yet validated
//   - error: an error if a file exists but could not be parsed
func Load(path, envFile string) (*Config, error) {
	dotenv, err := readEnvFile(common.Coalesce(envFile, DefaultEnvFile))
	if err != nil {
		return nil, err
	}
	return load(common.Coalesce(path, DefaultPath), func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	})
}

func load(path string, lookup lookupFunc) (*Config, error) {
	c := Default()
	if err := c.readFile(path); err != nil {
		return nil, err
	}
	if err := c.applyEnv(lookup); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks values the engine cannot recover from.
//
// Returns:
//   - error: an error wrapping ErrInvalidConfig, or nil
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Surface.Width <= 0 || c.Surface.Height <= 0 {
		errs = append(errs, fmt.Errorf("surface size %dx%d", c.Surface.Width, c.Surface.Height))
	}
	if _, err := renderer.ParseToneMapping(c.Renderer.ToneMapping); err != nil {
		errs = append(errs, err)
	}
	if c.Renderer.Exposure <= 0 {
		errs = append(errs, fmt.Errorf("exposure %v must be positive", c.Renderer.Exposure))
	}
	if c.Renderer.MSAA != int(renderer.MSAAOff) && c.Renderer.MSAA != int(renderer.MSAA4x) {
		errs = append(errs, fmt.Errorf("msaa %d must be 1 or 4", c.Renderer.MSAA))
	}
	if _, err := video.ParseQuality(c.Video.Quality); err != nil {
		errs = append(errs, err)
	}
	if c.Video.Source == "" {
		errs = append(errs, errors.New("video source is empty"))
	}
	if c.Fog.Far < c.Fog.Near {
		errs = append(errs, fmt.Errorf("fog far %v is before near %v", c.Fog.Far, c.Fog.Near))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// playerCopy maps VideoConfig onto video.Options. Fields with matching names copy directly.
var playerCopy = copier.Option{
	FieldNameMapping: []copier.FieldNameMapping{{
		SrcType: VideoConfig{},
		DstType: video.Options{},
		Mapping: map[string]string{
			"Source":  "VideoID",
			"Quality": "SuggestedQuality",
		},
	}},
	Converters: []copier.TypeConverter{{
		SrcType: copier.String,
		DstType: video.Quality(""),
		Fn: func(src any) (any, error) {
			return video.ParseQuality(src.(string))
		},
	}},
}

// PlayerOptions derives the player configuration from the video section. Events are left for the caller.
//
// Returns:
//   - video.Options: the player options
//   - error: if the quality name is not recognized
func (c *Config) PlayerOptions() (video.Options, error) {
	var opts video.Options
	if err := copier.CopyWithOption(&opts, &c.Video, playerCopy); err != nil {
		return video.Options{}, fmt.Errorf("failed to derive player options: %w", err)
	}
	return opts, nil
}

// ToneMapping returns the parsed tone mapping, falling back to Reinhard.
func (c *Config) ToneMapping() renderer.ToneMapping {
	t, err := renderer.ParseToneMapping(c.Renderer.ToneMapping)
	if err != nil {
		return renderer.ToneMappingReinhard
	}
	return t
}
