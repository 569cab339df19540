package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/camera"
	"github.com/Carmen-Shannon/oxy-theater/engine/light"
	"github.com/Carmen-Shannon/oxy-theater/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	configured  [][2]int
	presentMode PresentMode
	frames      []FrameState
	background  int
	draws       []DrawItem
	ended       int
	presented   int
	kept        map[uint64]bool
	beginErr    error
	drawErr     error
}

var _ Backend = &fakeBackend{}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.configured = append(f.configured, [2]int{width, height})
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = mode }

func (f *fakeBackend) BeginFrame(frame FrameState) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeBackend) DrawBackground() { f.background++ }

func (f *fakeBackend) DrawMesh(item DrawItem) error {
	f.draws = append(f.draws, item)
	return f.drawErr
}

func (f *fakeBackend) EndFrame() { f.ended++ }

func (f *fakeBackend) Present() { f.presented++ }

func (f *fakeBackend) Forget(keep map[uint64]bool) { f.kept = keep }

func newTestCamera() camera.Camera {
	return camera.NewCamera(camera.WithLookAt(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}))
}

func meshAt(name string, z float32, mat scene.Material) scene.Object {
	t := common.NewTransform()
	t.Position = mgl32.Vec3{0, 0, z}
	return scene.NewMesh(name, scene.NewBoxGeometry(1, 1, 1), mat, scene.WithTransform(t))
}

func TestPixelRatioClamped(t *testing.T) {
	fb := &fakeBackend{}
	r := NewRenderer(nil, WithBackend(fb), WithSize(100, 50), WithPixelRatio(3))

	assert.Equal(t, MaxPixelRatio, r.PixelRatio())
	w, h := r.DrawingBufferSize()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
	require.NotEmpty(t, fb.configured)
	assert.Equal(t, [2]int{200, 100}, fb.configured[len(fb.configured)-1])

	r.SetPixelRatio(0)
	assert.Equal(t, float32(1), r.PixelRatio())
	r.SetPixelRatio(1.5)
	w, h = r.DrawingBufferSize()
	assert.Equal(t, 150, w)
	assert.Equal(t, 75, h)
}

func TestSetPixelRatioReconfiguresOnlyOnChange(t *testing.T) {
	fb := &fakeBackend{}
	r := NewRenderer(nil, WithBackend(fb), WithSize(100, 50))
	before := len(fb.configured)

	r.SetPixelRatio(1)
	assert.Len(t, fb.configured, before)

	r.SetPixelRatio(2)
	require.Len(t, fb.configured, before+1)
	assert.Equal(t, [2]int{200, 100}, fb.configured[before])
}

func TestResizeReconfigures(t *testing.T) {
	fb := &fakeBackend{}
	r := NewRenderer(nil, WithBackend(fb), WithSize(10, 10))
	r.Resize(640, 360)

	w, h := r.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 360, h)
	assert.Equal(t, [2]int{640, 360}, fb.configured[len(fb.configured)-1])
}

func TestRenderSkipsZeroSize(t *testing.T) {
	fb := &fakeBackend{}
	r := NewRenderer(nil, WithBackend(fb))
	s := scene.NewScene(scene.WithObjects(meshAt("a", 0, scene.NewMaterial())))

	require.NoError(t, r.Render(s, newTestCamera()))
	assert.Empty(t, fb.frames)
	assert.Empty(t, fb.configured)
}

func TestRenderOrdersTranslucentBackToFront(t *testing.T) {
	fb := &fakeBackend{}
	r := NewRenderer(nil, WithBackend(fb), WithSize(64, 64))

	near := meshAt("near", 5, scene.NewMaterial(scene.WithOpacity(0.5)))
	far := meshAt("far", -5, scene.NewMaterial(scene.WithOpacity(0.5)))
	solid := meshAt("solid", 0, scene.NewMaterial())
	occluder := meshAt("occluder", 1, scene.NewMaterial(scene.WithOpacity(0), scene.WithBlending(scene.BlendingNone)))
	s := scene.NewScene(scene.WithObjects(near, far, solid, occluder))

	require.NoError(t, r.Render(s, newTestCamera()))
	require.Len(t, fb.draws, 4)

	var ids []uint64
	for _, d := range fb.draws {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []uint64{solid.ID(), occluder.ID(), far.ID(), near.ID()}, ids)
	assert.Equal(t, 1, fb.ended)
	assert.Zero(t, fb.presented)
	assert.Len(t, fb.kept, 4)
}

func TestRenderHiddenParentHidesChildren(t *testing.T) {
	fb := &fakeBackend{}
	r := NewRenderer(nil, WithBackend(fb), WithSize(64, 64))

	child := meshAt("child", 0, scene.NewMaterial())
	parent := scene.NewObject("parent", scene.WithChildren(child), scene.WithVisible(false))
	s := scene.NewScene(scene.WithObjects(parent))

	require.NoError(t, r.Render(s, newTestCamera()))
	assert.Empty(t, fb.draws)
	assert.Empty(t, fb.kept)
}

func TestRenderFrameState(t *testing.T) {
	fb := &fakeBackend{}
	r := NewRenderer(nil, WithBackend(fb), WithSize(64, 64), WithToneMapping(ToneMappingACESFilmic, 1.25))

	bg := &common.CubeTextureStagingData{}
	off := light.NewDirectionalLight(light.WithEnabled(false), light.WithIntensity(9))
	on := light.NewDirectionalLight(light.WithIntensity(3))
	s := scene.NewScene(
		scene.WithLights(off, on),
		scene.WithFog(mgl32.Vec3{0.1, 0.2, 0.3}, 1, 20),
		scene.WithClearColor(mgl32.Vec3{0.5, 0.5, 0.5}),
	)
	s.SetBackground(bg)

	require.NoError(t, r.Render(s, newTestCamera()))
	require.Len(t, fb.frames, 1)
	frame := fb.frames[0]

	assert.Same(t, bg, frame.Environment)
	assert.True(t, frame.Background)
	assert.Equal(t, 1, fb.background)
	assert.Equal(t, uint32(1), frame.Scene.EnvEnabled)
	assert.Equal(t, uint32(1), frame.Scene.FogEnabled)
	assert.Equal(t, float32(20), frame.Scene.FogFar)
	assert.Equal(t, uint32(ToneMappingACESFilmic), frame.Scene.ToneMapping)
	assert.Equal(t, float32(1.25), frame.Scene.Exposure)
	assert.Equal(t, float32(3), frame.Light.Intensity)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, frame.ClearColor)
}

func TestRenderWithoutBackgroundLeavesEnvDisabled(t *testing.T) {
	fb := &fakeBackend{}
	r := NewRenderer(nil, WithBackend(fb), WithSize(64, 64))

	require.NoError(t, r.Render(scene.NewScene(), newTestCamera()))
	require.Len(t, fb.frames, 1)
	assert.Nil(t, fb.frames[0].Environment)
	assert.Zero(t, fb.frames[0].Scene.EnvEnabled)
	assert.Zero(t, fb.background)
}

func TestRenderBeginErrorWrapped(t *testing.T) {
	cause := errors.New("surface lost")
	fb := &fakeBackend{beginErr: cause}
	r := NewRenderer(nil, WithBackend(fb), WithSize(64, 64))

	err := r.Render(scene.NewScene(), newTestCamera())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Zero(t, fb.ended)
}

func TestRenderDrawErrorDoesNotAbortFrame(t *testing.T) {
	fb := &fakeBackend{drawErr: errors.New("out of memory")}
	r := NewRenderer(nil, WithBackend(fb), WithSize(64, 64))
	s := scene.NewScene(scene.WithObjects(meshAt("a", 0, scene.NewMaterial()), meshAt("b", 1, scene.NewMaterial())))

	require.NoError(t, r.Render(s, newTestCamera()))
	assert.Len(t, fb.draws, 2)
	assert.Equal(t, 1, fb.ended)
}

func TestDrawItemUniform(t *testing.T) {
	tex := &common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1}
	mat := scene.NewMaterial(scene.WithColor(mgl32.Vec3{1, 0, 0}), scene.WithTexture(tex), scene.WithLit(false))
	obj := meshAt("m", 2, mat)

	item, ok := drawItemFor(obj)
	require.True(t, ok)
	assert.Equal(t, uint32(1), item.Uniform.HasTexture)
	assert.Zero(t, item.Uniform.Lit)
	assert.Equal(t, [3]float32{1, 0, 0}, item.Uniform.Color)
	assert.Equal(t, float32(2), item.Uniform.Model[14])
	assert.Same(t, tex, item.Texture)
	assert.Equal(t, scene.SideFront, item.Side)

	double := meshAt("d", 0, scene.NewMaterial(scene.WithSide(scene.SideDouble)))
	item, ok = drawItemFor(double)
	require.True(t, ok)
	assert.Equal(t, scene.SideDouble, item.Side)

	_, ok = drawItemFor(scene.NewObject("group"))
	assert.False(t, ok)
}

func TestCullModeFollowsSide(t *testing.T) {
	assert.Equal(t, wgpu.CullModeBack, cullModeFor(scene.SideFront))
	assert.Equal(t, wgpu.CullModeFront, cullModeFor(scene.SideBack))
	assert.Equal(t, wgpu.CullModeNone, cullModeFor(scene.SideDouble))
	assert.Equal(t, sideCount, 3)
}

func TestSettersAndTarget(t *testing.T) {
	fb := &fakeBackend{}
	r := NewRenderer(nil, WithBackend(fb), WithSize(8, 8), WithShadowMap(true))

	r.SetToneMappingExposure(-1)
	assert.Equal(t, float32(1), r.ToneMappingExposure())
	r.SetToneMappingExposure(2)
	assert.Equal(t, float32(2), r.ToneMappingExposure())
	r.SetToneMapping(ToneMappingReinhard)
	assert.Equal(t, ToneMappingReinhard, r.ToneMapping())
	assert.True(t, r.ShadowMapEnabled())

	r.SetPresentMode(PresentModeUncapped)
	assert.Equal(t, PresentModeUncapped, fb.presentMode)
	assert.Nil(t, r.Target())

	r.Present()
	assert.Equal(t, 1, fb.presented)
}

func TestParseToneMapping(t *testing.T) {
	cases := map[string]ToneMapping{
		"none":       ToneMappingNone,
		"Linear":     ToneMappingLinear,
		"REINHARD":   ToneMappingReinhard,
		"cineon":     ToneMappingCineon,
		"aces":       ToneMappingACESFilmic,
		"ACESFilmic": ToneMappingACESFilmic,
	}
	for name, want := range cases {
		got, err := ParseToneMapping(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseToneMapping("filmic")
	assert.ErrorIs(t, err, ErrInvalidToneMapping)
	assert.Equal(t, "aces", ToneMappingACESFilmic.String())
}

func TestUniformSizes(t *testing.T) {
	var s GPUSceneUniform
	var o GPUObjectUniform
	assert.Equal(t, 48, s.Size())
	assert.Len(t, s.Marshal(), 48)
	assert.Equal(t, 160, o.Size())
	assert.Len(t, o.Marshal(), 160)
}
