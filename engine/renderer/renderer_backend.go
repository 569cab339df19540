package renderer

import (
	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/camera"
	"github.com/Carmen-Shannon/oxy-theater/engine/light"
	"github.com/Carmen-Shannon/oxy-theater/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. The render loop is paced by this.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// FrameState is everything the backend needs for the frame-wide bind group.
type FrameState struct {
	Camera      camera.GPUCameraUniform
	Light       light.GPULight
	Scene       GPUSceneUniform
	ClearColor  mgl32.Vec3
	Environment *common.CubeTextureStagingData
	Background  bool
}

// DrawItem is one mesh draw, flattened from the scene graph.
type DrawItem struct {
	// ID keys the backend's per-object GPU resource cache.
	ID       uint64
	Geometry *scene.Geometry
	Uniform  GPUObjectUniform
	Blending scene.Blending
	Side     scene.Side
	Texture  *common.TextureStagingData
	// Version changes whenever the material changes and the uniform must be re-uploaded.
	Version uint64
}

// Backend executes frames for the Renderer. The wgpu implementation owns the device and surface;
// tests supply recording fakes.
type Backend interface {
	// ConfigureSurface (re)creates the swapchain and depth attachments.
	//
	// Parameters:
	//   - width: the drawing buffer width in pixels
	//   - height: the drawing buffer height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode. It takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the swapchain texture, uploads frame uniforms and begins the 3D pass.
	//
	// Parameters:
	//   - frame: the frame-wide state
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame(frame FrameState) error

	// DrawBackground draws the environment cube behind all geometry.
	DrawBackground()

	// DrawMesh draws one mesh, creating or refreshing its GPU resources as needed.
	//
	// Parameters:
	//   - item: the mesh to draw
	//
	// Returns:
	//   - error: an error if GPU resources could not be created
	DrawMesh(item DrawItem) error

	// EndFrame ends the 3D pass and submits it. The surface stays acquired for later passes.
	EndFrame()

	// Present presents the surface and releases the swapchain texture.
	Present()

	// Forget releases cached GPU resources for objects not drawn since the last call.
	Forget(keep map[uint64]bool)
}

// GPUTarget exposes the device and current swapchain view so other passes can draw into the same frame.
type GPUTarget interface {
	// Device returns the GPU device.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the device queue.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// SurfaceFormat returns the swapchain texture format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// CurrentView returns the swapchain view of the frame in flight, or nil between frames.
	//
	// Returns:
	//   - *wgpu.TextureView: the current view
	CurrentView() *wgpu.TextureView
}
