package main

import (
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-theater/internal/config"
	"github.com/spf13/cobra"
)

// GLFW and the wgpu surface must live on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// overrides holds flag values. Only flags set on the command line replace loaded config.
type overrides struct {
	video       string
	quality     string
	toneMapping string
	exposure    float32
	width       int
	height      int
	autoplay    bool
	audio       bool
	vsync       bool
	profiling   bool
}

func newRootCommand() *cobra.Command {
	var configPath, envFile string
	var o overrides

	cmd := &cobra.Command{
		Use:          "theater",
		Short:        "Render a lit 3D theater with an embedded video screen",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, envFile)
			if err != nil {
				return err
			}
			o.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML config file (default "+config.DefaultPath+")")
	f.StringVar(&envFile, "env-file", "", "dotenv file (default "+config.DefaultEnvFile+")")
	f.StringVar(&o.video, "video", "", "video file or URL to play on the screen")
	f.StringVar(&o.quality, "quality", "", "suggested quality: small, medium, large, hd720, hd1080 or highdef")
	f.StringVar(&o.toneMapping, "tone-mapping", "", "tone mapping: none, linear, reinhard, cineon or aces")
	f.Float32Var(&o.exposure, "exposure", 0, "tone mapping exposure")
	f.IntVar(&o.width, "width", 0, "window width")
	f.IntVar(&o.height, "height", 0, "window height")
	f.BoolVar(&o.autoplay, "autoplay", false, "start playback as soon as the video is ready")
	f.BoolVar(&o.audio, "audio", true, "play the video's audio track")
	f.BoolVar(&o.vsync, "vsync", true, "pace frames to the display refresh")
	f.BoolVar(&o.profiling, "profile", false, "log frame rate and memory once per second")
	return cmd
}

func (o overrides) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("video") {
		cfg.Video.Source = o.video
	}
	if changed("quality") {
		cfg.Video.Quality = o.quality
	}
	if changed("tone-mapping") {
		cfg.Renderer.ToneMapping = o.toneMapping
	}
	if changed("exposure") {
		cfg.Renderer.Exposure = o.exposure
	}
	if changed("width") {
		cfg.Window.Width = o.width
	}
	if changed("height") {
		cfg.Window.Height = o.height
	}
	if changed("autoplay") {
		cfg.Video.Autoplay = o.autoplay
	}
	if changed("audio") {
		cfg.Video.Audio = o.audio
	}
	if changed("vsync") {
		cfg.Renderer.VSync = o.vsync
	}
	if changed("profile") {
		cfg.Profiling = o.profiling
	}
}
