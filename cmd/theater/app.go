package main

import (
	"context"
	"log"
	"math"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine"
	"github.com/Carmen-Shannon/oxy-theater/engine/camera"
	"github.com/Carmen-Shannon/oxy-theater/engine/interaction"
	"github.com/Carmen-Shannon/oxy-theater/engine/light"
	"github.com/Carmen-Shannon/oxy-theater/engine/loader"
	"github.com/Carmen-Shannon/oxy-theater/engine/overlay"
	"github.com/Carmen-Shannon/oxy-theater/engine/renderer"
	"github.com/Carmen-Shannon/oxy-theater/engine/scene"
	"github.com/Carmen-Shannon/oxy-theater/engine/video"
	"github.com/Carmen-Shannon/oxy-theater/engine/window"
	"github.com/Carmen-Shannon/oxy-theater/internal/config"
	"github.com/go-gl/mathgl/mgl32"
)

func vec(v config.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// buildWorld creates the 3D scene: fog, the directional light and the model stand-in.
// The environment arrives later from the loader.
func buildWorld(cfg *config.Config) (scene.Scene, scene.Object, light.Light) {
	shadow := light.DefaultShadow()
	shadow.Far = cfg.Light.ShadowFar
	shadow.MapSize = cfg.Light.ShadowMap
	shadow.NormalBias = cfg.Light.NormalBias

	sun := light.NewDirectionalLight(
		light.WithPosition(vec(cfg.Light.Position)),
		light.WithColor(vec(cfg.Light.Color)),
		light.WithIntensity(cfg.Light.Intensity),
		light.WithShadows(shadow),
	)

	s := cfg.Model.Scale
	model := scene.NewMesh("model",
		scene.NewBoxGeometry(0.6, 0.4, 0.6),
		scene.NewMaterial(scene.WithColor(mgl32.Vec3{0.8, 0.75, 0.7})),
		scene.WithTransform(common.Transform{
			Position: vec(cfg.Model.Position),
			Rotation: mgl32.Vec3{0, cfg.Model.RotationY, 0},
			Scale:    mgl32.Vec3{s, s, s},
		}),
	)

	world := scene.NewScene(
		scene.WithObjects(model),
		scene.WithLights(sun),
		scene.WithFog(vec(cfg.Fog.Color), cfg.Fog.Near, cfg.Fog.Far),
	)
	scene.ApplyEnvironmentIntensity(world, cfg.Environment.Intensity)
	return world, model, sun
}

// buildScreen creates the video surface and the occlusion proxy mirroring it.
func buildScreen(cfg *config.Config) (overlay.Scene, overlay.Surface, overlay.OcclusionProxy) {
	t := common.NewTransform()
	t.Position = vec(cfg.Surface.Position)
	t.Scale = mgl32.Vec3{cfg.Surface.Scale, cfg.Surface.Scale, cfg.Surface.Scale}

	surface := overlay.NewSurface(cfg.Video.ElementID,
		overlay.WithSurfaceSize(cfg.Surface.Width, cfg.Surface.Height),
		overlay.WithSurfaceTransform(t),
	)
	return overlay.NewScene(surface), surface, overlay.NewOcclusionProxy(surface)
}

func buildCamera(cfg *config.Config, width, height int) (camera.Camera, camera.CameraController) {
	options := []camera.CameraControllerOption{
		camera.WithStartPosition(vec(cfg.Camera.Position)),
	}
	if cfg.Camera.Damping {
		options = append(options, camera.WithDamping(6, 1))
	}
	controls := camera.NewCameraController(options...)

	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	cam := camera.NewCamera(
		camera.WithFov(cfg.Camera.Fov*math.Pi/180),
		camera.WithAspect(aspect),
		camera.WithNear(cfg.Camera.Near),
		camera.WithFar(cfg.Camera.Far),
		camera.WithController(controls),
	)
	return cam, controls
}

// theater owns the per-frame state shared by the engine stages.
type theater struct {
	cfg *config.Config

	world    scene.Scene
	surfaces overlay.Scene
	proxy    overlay.OcclusionProxy
	cam      camera.Camera
	controls camera.CameraController

	compositor  overlay.Compositor
	interaction interaction.Controller
	environment *loader.Pending[*common.CubeTextureStagingData]

	api        video.API
	player     video.Player
	playerOpts video.Options
	playerErr  error
}

func run(ctx context.Context, cfg *config.Config) error {
	playerOpts, err := cfg.PlayerOptions()
	if err != nil {
		return err
	}

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	defer win.Close()

	present := renderer.PresentModeVSync
	if !cfg.Renderer.VSync {
		present = renderer.PresentModeUncapped
	}
	primary := renderer.NewRenderer(win,
		renderer.WithToneMapping(cfg.ToneMapping(), cfg.Renderer.Exposure),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Renderer.MSAA)),
		renderer.WithPresentMode(present),
		renderer.WithShadowMap(cfg.Renderer.Shadows),
	)

	t := &theater{cfg: cfg}
	t.world, _, _ = buildWorld(cfg)
	var surface overlay.Surface
	t.surfaces, surface, t.proxy = buildScreen(cfg)
	t.world.Add(t.proxy.Object())
	t.cam, t.controls = buildCamera(cfg, win.Width(), win.Height())

	screen := overlay.NewRenderer(primary.Target(), overlay.WithSize(win.Width(), win.Height()))
	t.compositor = overlay.NewCompositor(primary, screen, t.world, t.surfaces, t.cam)

	ictx := interaction.NewContext(interaction.Target{Object: t.proxy.Object(), Handler: interaction.PlaybackToggle})
	t.interaction = interaction.NewController(ictx)

	t.environment = loader.NewLoader().LoadCubeTexture(cfg.Environment.Faces)
	t.api = video.LoadAPI(ctx, video.WithAudio(cfg.Video.Audio))
	t.playerOpts = playerOpts
	t.playerOpts.Events = video.Events{
		OnReady: func(p video.Player) {
			ictx.SetPlayer(p)
		},
		OnStateChange: func(p video.Player, s video.State) {
			log.Printf("[Video] %s %s", p.ID(), s)
		},
	}
	log.Printf("[Theater] screen %s at %v", surface.Name(), surface.Transform().Position)

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithProfiling(cfg.Profiling),
		engine.WithRenderFrameLimit(cfg.Renderer.FrameLimit),
		engine.WithStage(engine.StagePrepare, t.prepare),
		engine.WithStage(engine.StageInteraction, func(float32) { t.interaction.Update(t.cam) }),
		engine.WithStage(engine.StageControls, t.updateControls),
		engine.WithStage(engine.StageRender, t.renderScene),
		engine.WithStage(engine.StageOverlay, func(float32) { t.compositor.RenderOverlay() }),
	)
	t.bindInput(win, eng)

	err = eng.Run()
	if t.player != nil {
		if cerr := t.player.Close(); cerr != nil {
			log.Printf("[Theater] %v", cerr)
		}
	}
	return err
}

func (t *theater) bindInput(win window.Window, eng engine.Engine) {
	win.SetResizeCallback(func(width, height int) {
		t.compositor.Primary().SetPixelRatio(win.PixelRatio())
		t.compositor.Resize(width, height)
	})
	win.SetMouseMoveCallback(func(x, y float64) {
		t.interaction.PointerMove(x, y, win.Width(), win.Height())
	})
	win.SetClickCallback(func(_, _ float64) {
		t.interaction.Click()
	})
	win.SetDragCallback(func(button int, dx, dy float64) {
		if button == common.MouseButtonLeft {
			t.controls.Rotate(float32(dx), float32(dy))
			return
		}
		t.controls.Pan(float32(dx), float32(dy))
	})
	win.SetScrollCallback(t.controls.Zoom)
	win.SetKeyDownCallback(func(keyCode uint32) {
		if keyCode == common.KeyEsc {
			eng.Quit()
			return
		}
		if t.player != nil {
			t.player.HandleKey(keyCode)
		}
	})
}

// prepare drains asynchronous completions on the frame thread.
func (t *theater) prepare(float32) {
	if res, ok := t.environment.Poll(); ok && res.Err == nil {
		t.world.SetBackground(res.Value)
		t.world.SetEnvironment(res.Value)
	}

	if t.player == nil && t.playerErr == nil && t.api.Ready().Fired() {
		p, err := video.NewPlayer(t.api, t.surfaces, t.cfg.Video.ElementID, t.playerOpts)
		if err != nil {
			log.Printf("[Theater] %v", err)
			t.playerErr = err
		} else {
			t.player = p
			t.proxy.Reveal(p.Ready())
		}
	}

	t.proxy.Sync()
	if t.player != nil {
		t.player.Poll()
	}
}

func (t *theater) updateControls(dt float32) {
	t.controls.Update(dt)
	t.cam.Update()
}

func (t *theater) renderScene(float32) {
	if err := t.compositor.RenderScene(); err != nil {
		log.Printf("[Theater] %v", err)
	}
}
