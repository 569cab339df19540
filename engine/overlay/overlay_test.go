package overlay

import (
	"image"
	"testing"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/camera"
	"github.com/Carmen-Shannon/oxy-theater/engine/renderer"
	"github.com/Carmen-Shannon/oxy-theater/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	frame *image.RGBA
}

func (s *staticSource) Frame() *image.RGBA { return s.frame }

type recorder struct {
	events []string
}

type fakeOverlayBackend struct {
	rec    *recorder
	size   [2]int
	quads  [][]Quad
	resize int
}

func (f *fakeOverlayBackend) Resize(width, height int) {
	f.size = [2]int{width, height}
	f.resize++
}

func (f *fakeOverlayBackend) Draw(quads []Quad) error {
	f.quads = append(f.quads, quads)
	if f.rec != nil {
		f.rec.events = append(f.rec.events, "overlay")
	}
	return nil
}

type fakePrimaryBackend struct {
	rec *recorder
}

func (f *fakePrimaryBackend) ConfigureSurface(width, height int)     {}
func (f *fakePrimaryBackend) SetPresentMode(mode renderer.PresentMode) {}
func (f *fakePrimaryBackend) BeginFrame(frame renderer.FrameState) error {
	f.rec.events = append(f.rec.events, "begin")
	return nil
}
func (f *fakePrimaryBackend) DrawBackground() {}
func (f *fakePrimaryBackend) DrawMesh(item renderer.DrawItem) error {
	f.rec.events = append(f.rec.events, "mesh")
	return nil
}
func (f *fakePrimaryBackend) EndFrame()                   { f.rec.events = append(f.rec.events, "end") }
func (f *fakePrimaryBackend) Present()                    { f.rec.events = append(f.rec.events, "present") }
func (f *fakePrimaryBackend) Forget(keep map[uint64]bool) {}

func videoSurface(opts ...SurfaceBuilderOption) Surface {
	t := common.NewTransform()
	t.Position = mgl32.Vec3{0, 0, -4}
	t.Scale = mgl32.Vec3{0.01, 0.01, 0.01}
	return NewSurface("iframe", append([]SurfaceBuilderOption{WithSurfaceTransform(t)}, opts...)...)
}

func frontCamera() camera.Camera {
	return camera.NewCamera(camera.WithLookAt(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 0, -4}))
}

func TestSurfaceDefaults(t *testing.T) {
	s := NewSurface("iframe", WithSurfaceSize(-1, 10), WithSurfaceOpacity(3))
	w, h := s.Size()
	assert.Equal(t, DefaultSurfaceWidth, w)
	assert.Equal(t, DefaultSurfaceHeight, h)
	assert.Equal(t, float32(1), s.Opacity())
	assert.Nil(t, s.Source())
}

func TestProxyMirrorsSurface(t *testing.T) {
	surf := videoSurface()
	proxy := NewOcclusionProxy(surf)
	obj := proxy.Object()

	assert.Equal(t, surf.Transform(), obj.Transform())
	assert.Equal(t, surf.Matrix(), obj.WorldMatrix())
	require.NotNil(t, obj.Geometry())
	assert.Equal(t, float32(720), obj.Geometry().Width)
	assert.Equal(t, float32(405), obj.Geometry().Height)
	assert.Equal(t, scene.BlendingNone, obj.Material().Blending())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, obj.Material().Color())
	assert.False(t, obj.CastShadow())
	assert.Same(t, surf, proxy.Surface())
}

func TestProxyOpacityHandshake(t *testing.T) {
	proxy := NewOcclusionProxy(videoSurface())
	ready := common.NewSignal()

	assert.Equal(t, float32(1), proxy.Opacity())
	assert.False(t, proxy.Sync(), "no signal bound")

	proxy.Reveal(ready)
	assert.False(t, proxy.Sync())
	assert.Equal(t, float32(1), proxy.Opacity())

	ready.Fire()
	assert.Equal(t, float32(1), proxy.Opacity(), "opacity changes on the next sync, not on fire")
	assert.True(t, proxy.Sync())
	assert.Equal(t, float32(0), proxy.Opacity())
	assert.True(t, proxy.Revealed())

	for range 3 {
		assert.False(t, proxy.Sync())
		assert.Equal(t, float32(0), proxy.Opacity())
	}
}

func TestProxyRevealBindsOnce(t *testing.T) {
	proxy := NewOcclusionProxy(videoSurface())
	first, second := common.NewSignal(), common.NewSignal()
	proxy.Reveal(first)
	proxy.Reveal(second)

	second.Fire()
	assert.False(t, proxy.Sync())
	first.Fire()
	assert.True(t, proxy.Sync())
}

func TestSceneMount(t *testing.T) {
	surf := videoSurface()
	s := NewScene(surf, nil)
	src := &staticSource{}

	require.NoError(t, s.Mount("iframe", src))
	assert.Same(t, src, surf.Source())
	assert.Len(t, s.Surfaces(), 1)

	err := s.Mount("missing", src)
	assert.ErrorIs(t, err, ErrSurfaceNotFound)
}

func TestProjectCenteredSurface(t *testing.T) {
	r := NewRenderer(nil, WithBackend(&fakeOverlayBackend{}), WithSize(200, 100))
	cam := frontCamera()
	cam.SetAspect(2)

	quads := r.Project(NewScene(videoSurface()), cam)
	require.Len(t, quads, 1)
	q := quads[0]

	tl, tr, bl, br := q.Pixels[0], q.Pixels[1], q.Pixels[2], q.Pixels[3]
	assert.Less(t, tl.X(), float32(100))
	assert.Greater(t, tr.X(), float32(100))
	assert.Less(t, tl.Y(), float32(50))
	assert.Greater(t, bl.Y(), float32(50))
	assert.InDelta(t, 200-tl.X(), tr.X(), 1e-3)
	assert.InDelta(t, tl.Y(), tr.Y(), 1e-3)
	assert.InDelta(t, bl.X(), tl.X(), 1e-3)
	assert.InDelta(t, br.Y(), bl.Y(), 1e-3)
	for _, c := range q.Clip {
		assert.Greater(t, c.W(), float32(0))
	}
}

func TestProjectSkipsHiddenSurfaces(t *testing.T) {
	r := NewRenderer(nil, WithBackend(&fakeOverlayBackend{}), WithSize(100, 100))

	behind := common.NewTransform()
	behind.Position = mgl32.Vec3{0, 0, 10}
	behind.Scale = mgl32.Vec3{0.01, 0.01, 0.01}
	s := NewScene(
		NewSurface("behind", WithSurfaceTransform(behind)),
		videoSurface(WithSurfaceOpacity(0)),
	)
	assert.Empty(t, r.Project(s, frontCamera()))
}

func TestRenderHandsFramesToBackend(t *testing.T) {
	fb := &fakeOverlayBackend{}
	r := NewRenderer(nil, WithBackend(fb), WithSize(100, 100))
	frame := image.NewRGBA(image.Rect(0, 0, 4, 4))
	s := NewScene(videoSurface(WithSource(&staticSource{frame: frame})))

	require.NoError(t, r.Render(s, frontCamera()))
	require.Len(t, fb.quads, 1)
	require.Len(t, fb.quads[0], 1)
	assert.Same(t, frame, fb.quads[0][0].Frame)

	r.SetSize(0, 0)
	require.NoError(t, r.Render(s, frontCamera()))
	assert.Len(t, fb.quads, 1)
	assert.Equal(t, [2]int{0, 0}, fb.size)
}

func newTestCompositor(rec *recorder) (Compositor, *fakeOverlayBackend, OcclusionProxy, camera.Camera) {
	surf := videoSurface()
	proxy := NewOcclusionProxy(surf)
	world := scene.NewScene(scene.WithObjects(proxy.Object()))
	cam := frontCamera()

	primary := renderer.NewRenderer(nil, renderer.WithBackend(&fakePrimaryBackend{rec: rec}), renderer.WithSize(640, 480))
	ob := &fakeOverlayBackend{rec: rec}
	over := NewRenderer(nil, WithBackend(ob), WithSize(640, 480))
	return NewCompositor(primary, over, world, NewScene(surf), cam), ob, proxy, cam
}

func TestCompositorResizeKeepsProjectionsCoincident(t *testing.T) {
	c, ob, proxy, cam := newTestCompositor(&recorder{})

	c.Resize(1280, 540)

	pw, ph := c.Primary().Size()
	ow, oh := c.Overlay().Size()
	assert.Equal(t, [2]int{1280, 540}, [2]int{pw, ph})
	assert.Equal(t, [2]int{1280, 540}, [2]int{ow, oh})
	assert.Equal(t, [2]int{1280, 540}, ob.size)
	assert.InDelta(t, 1280.0/540.0, cam.Aspect(), 1e-6)

	quads := c.Overlay().Project(NewScene(proxy.Surface()), cam)
	require.Len(t, quads, 1)

	obj := proxy.Object()
	mvp := cam.ViewProjectionMatrix().Mul4(obj.WorldMatrix())
	for i, v := range obj.Geometry().Vertices {
		clip := mvp.Mul4x1(mgl32.Vec3(v.Position).Vec4(1))
		ndc := clip.Vec3().Mul(1 / clip.W())
		px := (ndc.X() + 1) / 2 * float32(pw)
		py := (1 - ndc.Y()) / 2 * float32(ph)
		assert.InDelta(t, px, quads[0].Pixels[i].X(), 1e-2, "corner %d x", i)
		assert.InDelta(t, py, quads[0].Pixels[i].Y(), 1e-2, "corner %d y", i)
	}
}

func TestCompositorResizeIgnoresZeroAspect(t *testing.T) {
	c, _, _, cam := newTestCompositor(&recorder{})
	before := cam.Aspect()
	c.Resize(0, 0)
	assert.Equal(t, before, cam.Aspect())
}

func TestCompositorRenderOrder(t *testing.T) {
	rec := &recorder{}
	c, _, proxy, _ := newTestCompositor(rec)
	proxy.Surface().SetSource(&staticSource{frame: image.NewRGBA(image.Rect(0, 0, 2, 2))})

	require.NoError(t, c.Render())
	assert.Equal(t, []string{"begin", "mesh", "end", "overlay", "present"}, rec.events)
}
