package renderer

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/camera"
	"github.com/Carmen-Shannon/oxy-theater/engine/scene"
	"github.com/Carmen-Shannon/oxy-theater/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxPixelRatio caps the drawing buffer density on high-DPI displays.
const MaxPixelRatio float32 = 2

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend Backend

	width, height int
	pixelRatio    float32
	toneMapping   ToneMapping
	exposure      float32
	shadowMap     bool
	presentMode   PresentMode

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	msaa                 MSAASampleCount
	pendingPixelRatio    *float32
}

// Renderer draws a scene.Scene from a camera.Camera into the window surface.
//
// It flattens the scene graph into draw items each frame and hands them to its Backend.
// Presenting is left to the caller so later passes, such as the overlay, can draw into
// the same frame first.
type Renderer interface {
	// Resize sets the logical size and reconfigures the surface at size times pixel ratio.
	//
	// Parameters:
	//   - width: the logical width
	//   - height: the logical height
	Resize(width, height int)

	// Size returns the logical size.
	//
	// Returns:
	//   - int: the logical width
	//   - int: the logical height
	Size() (int, int)

	// DrawingBufferSize returns the surface size in pixels.
	//
	// Returns:
	//   - int: the pixel width
	//   - int: the pixel height
	DrawingBufferSize() (int, int)

	// SetPixelRatio sets the drawing buffer density, clamped to (0, MaxPixelRatio].
	//
	// Parameters:
	//   - ratio: framebuffer pixels per logical unit
	SetPixelRatio(ratio float32)

	// PixelRatio returns the effective drawing buffer density.
	//
	// Returns:
	//   - float32: the pixel ratio
	PixelRatio() float32

	// SetToneMapping selects the tone mapping operator.
	//
	// Parameters:
	//   - t: the tone mapping operator
	SetToneMapping(t ToneMapping)

	// ToneMapping returns the tone mapping operator.
	//
	// Returns:
	//   - ToneMapping: the operator
	ToneMapping() ToneMapping

	// SetToneMappingExposure sets the exposure fed to the tone mapping operator.
	//
	// Parameters:
	//   - exposure: the exposure, ignored when not positive
	SetToneMappingExposure(exposure float32)

	// ToneMappingExposure returns the exposure.
	//
	// Returns:
	//   - float32: the exposure
	ToneMappingExposure() float32

	// SetShadowMapEnabled records whether shadow mapping is requested.
	//
	// Parameters:
	//   - enabled: true to request shadow maps
	SetShadowMapEnabled(enabled bool)

	// ShadowMapEnabled reports whether shadow mapping is requested.
	//
	// Returns:
	//   - bool: true if requested
	ShadowMapEnabled() bool

	// SetPresentMode sets the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Render draws the scene as seen by the camera. The frame is submitted but not presented.
	// Nothing is drawn while the drawing buffer has zero area.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - cam: the camera to draw from
	//
	// Returns:
	//   - error: an error if the frame could not begin
	Render(s scene.Scene, cam camera.Camera) error

	// Present presents the frame submitted by Render.
	Present()

	// Target returns the GPU target shared with other passes, or nil when the backend is not GPU-backed.
	//
	// Returns:
	//   - GPUTarget: the shared GPU target
	Target() GPUTarget
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for a window. Unless WithBackend is given, a wgpu backend is
// created on the window surface, which panics if no adapter or device is available.
//
// Parameters:
//   - win: the window to draw into, may be nil when WithBackend is given
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the new renderer
func NewRenderer(win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		pixelRatio:  1,
		toneMapping: ToneMappingNone,
		exposure:    1,
		presentMode: PresentModeVSync,
		msaa:        MSAA4x,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	if win != nil {
		r.width, r.height = win.Width(), win.Height()
		r.pixelRatio = clampPixelRatio(win.PixelRatio())
	}
	if r.pendingPixelRatio != nil {
		r.pixelRatio = clampPixelRatio(*r.pendingPixelRatio)
	}

	if r.backend == nil {
		if win == nil {
			panic("renderer: a window is required without an explicit backend")
		}
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
	}

	r.backend.SetPresentMode(r.presentMode)
	r.configure()
	return r
}

func clampPixelRatio(ratio float32) float32 {
	if ratio <= 0 {
		return 1
	}
	return common.Clamp(ratio, 0, MaxPixelRatio)
}

func (r *renderer) drawingBufferSizeLocked() (int, int) {
	return int(float32(r.width)*r.pixelRatio + 0.5), int(float32(r.height)*r.pixelRatio + 0.5)
}

func (r *renderer) configure() {
	r.mu.Lock()
	w, h := r.drawingBufferSizeLocked()
	r.mu.Unlock()
	if w <= 0 || h <= 0 {
		return
	}
	r.backend.ConfigureSurface(w, h)
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	r.width, r.height = max(width, 0), max(height, 0)
	r.mu.Unlock()
	r.configure()
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) DrawingBufferSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drawingBufferSizeLocked()
}

func (r *renderer) SetPixelRatio(ratio float32) {
	r.mu.Lock()
	ratio = clampPixelRatio(ratio)
	changed := ratio != r.pixelRatio
	r.pixelRatio = ratio
	r.mu.Unlock()
	if changed {
		r.configure()
	}
}

func (r *renderer) PixelRatio() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pixelRatio
}

func (r *renderer) SetToneMapping(t ToneMapping) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toneMapping = t
}

func (r *renderer) ToneMapping() ToneMapping {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.toneMapping
}

func (r *renderer) SetToneMappingExposure(exposure float32) {
	if exposure <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exposure = exposure
}

func (r *renderer) ToneMappingExposure() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exposure
}

func (r *renderer) SetShadowMapEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shadowMap = enabled
}

func (r *renderer) ShadowMapEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shadowMap
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	r.presentMode = mode
	r.mu.Unlock()
	r.backend.SetPresentMode(mode)
	r.configure()
}

func (r *renderer) Render(s scene.Scene, cam camera.Camera) error {
	r.mu.Lock()
	w, h := r.drawingBufferSizeLocked()
	tone, exposure := r.toneMapping, r.exposure
	r.mu.Unlock()
	if w <= 0 || h <= 0 {
		return nil
	}

	frame := buildFrameState(s, cam, tone, exposure)
	if err := r.backend.BeginFrame(frame); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	if frame.Background {
		r.backend.DrawBackground()
	}

	items := collectDrawItems(s, cam.Position())
	keep := make(map[uint64]bool, len(items))
	for _, item := range items {
		keep[item.ID] = true
		if err := r.backend.DrawMesh(item); err != nil {
			log.Printf("[Renderer] failed to draw object %d: %v", item.ID, err)
		}
	}
	r.backend.EndFrame()
	r.backend.Forget(keep)
	return nil
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Target() GPUTarget {
	if t, ok := r.backend.(GPUTarget); ok {
		return t
	}
	return nil
}

func buildFrameState(s scene.Scene, cam camera.Camera, tone ToneMapping, exposure float32) FrameState {
	frame := FrameState{
		Camera:      cam.Uniform(),
		ClearColor:  s.ClearColor(),
		Environment: s.Environment(),
		Background:  s.Background() != nil,
	}
	if frame.Environment == nil && frame.Background {
		frame.Environment = s.Background()
	}
	for _, l := range s.Lights() {
		if l.Enabled() {
			frame.Light = l.GPU()
			break
		}
	}
	frame.Scene = GPUSceneUniform{
		ToneMapping: uint32(tone),
		Exposure:    exposure,
	}
	if frame.Environment != nil {
		frame.Scene.EnvEnabled = 1
	}
	if fog := s.Fog(); fog != nil {
		frame.Scene.FogColor = fog.Color
		frame.Scene.FogNear = fog.Near
		frame.Scene.FogFar = fog.Far
		frame.Scene.FogEnabled = 1
	}
	return frame
}

// collectDrawItems flattens visible meshes: opaque ones in graph order, then blended
// translucent ones back to front. Hidden parents hide their children.
func collectDrawItems(s scene.Scene, eye mgl32.Vec3) []DrawItem {
	var opaque, translucent []DrawItem
	var dist []float32

	var visit func(scene.Object)
	visit = func(o scene.Object) {
		if !o.Visible() {
			return
		}
		if item, ok := drawItemFor(o); ok {
			if item.Blending == scene.BlendingNormal && item.Uniform.Opacity < 1 {
				translucent = append(translucent, item)
				pos := o.WorldMatrix().Col(3).Vec3()
				dist = append(dist, pos.Sub(eye).Len())
			} else {
				opaque = append(opaque, item)
			}
		}
		for _, child := range o.Children() {
			visit(child)
		}
	}
	for _, o := range s.Objects() {
		visit(o)
	}

	idx := make([]int, len(translucent))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return dist[idx[a]] > dist[idx[b]] })
	for _, i := range idx {
		opaque = append(opaque, translucent[i])
	}
	return opaque
}

func drawItemFor(o scene.Object) (DrawItem, bool) {
	geom, mat := o.Geometry(), o.Material()
	if geom == nil || mat == nil || len(geom.Vertices) == 0 {
		return DrawItem{}, false
	}
	model := o.WorldMatrix()
	normal := model
	if model.Det() != 0 {
		normal = model.Inv().Transpose()
	}
	u := GPUObjectUniform{
		Model:        model,
		NormalMatrix: normal,
		Color:        mat.Color(),
		Opacity:      mat.Opacity(),
		EnvIntensity: mat.EnvMapIntensity(),
	}
	if mat.Texture() != nil {
		u.HasTexture = 1
	}
	if mat.Lit() {
		u.Lit = 1
	}
	return DrawItem{
		ID:       o.ID(),
		Geometry: geom,
		Uniform:  u,
		Blending: mat.Blending(),
		Side:     mat.Side(),
		Texture:  mat.Texture(),
		Version:  mat.Version(),
	}, true
}
