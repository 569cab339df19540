package overlay

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// OcclusionProxy is the invisible 3D stand-in of a Surface. It receives pointer raycasts and masks
// the surface until the surface's source is ready. Its transform is a copy of the surface's taken at
// construction, and neither changes afterwards.
type OcclusionProxy interface {
	// Object returns the plane mesh to add to the 3D scene and to raycast against.
	//
	// Returns:
	//   - scene.Object: the proxy mesh
	Object() scene.Object

	// Surface returns the surface the proxy stands in for.
	//
	// Returns:
	//   - Surface: the surface
	Surface() Surface

	// Opacity returns the opacity the proxy writes into the frame.
	//
	// Returns:
	//   - float32: 1 while masking, 0 once revealed
	Opacity() float32

	// Reveal binds the readiness signal that ends masking. Only the first call binds.
	//
	// Parameters:
	//   - ready: the single-fire readiness signal
	Reveal(ready *common.Signal)

	// Sync runs once per frame. On the first frame after the readiness signal fired it drops the
	// proxy opacity to 0. The transition happens once and never reverts.
	//
	// Returns:
	//   - bool: true on the frame the proxy was revealed
	Sync() bool

	// Revealed reports whether the proxy has stopped masking.
	//
	// Returns:
	//   - bool: true once revealed
	Revealed() bool
}

type occlusionProxyImpl struct {
	mu *sync.Mutex

	surface  Surface
	object   scene.Object
	material scene.Material
	ready    *common.Signal
	revealed bool
}

var _ OcclusionProxy = &occlusionProxyImpl{}

// NewOcclusionProxy builds a black, fully opaque, non-blended plane of the surface's pixel size
// placed at the surface's transform.
//
// Parameters:
//   - surface: the surface to stand in for
//
// Returns:
//   - OcclusionProxy: the new proxy
func NewOcclusionProxy(surface Surface) OcclusionProxy {
	transform := surface.Transform()

	w, h := surface.Size()
	material := scene.NewMaterial(
		scene.WithColor(mgl32.Vec3{0, 0, 0}),
		scene.WithOpacity(1),
		scene.WithBlending(scene.BlendingNone),
		scene.WithLit(false),
	)
	object := scene.NewMesh(surface.Name()+"-occlusion",
		scene.NewPlaneGeometry(float32(w), float32(h)),
		material,
		scene.WithTransform(transform),
		scene.WithShadows(false, false),
	)
	return &occlusionProxyImpl{
		mu:       &sync.Mutex{},
		surface:  surface,
		object:   object,
		material: material,
	}
}

func (p *occlusionProxyImpl) Object() scene.Object {
	return p.object
}

func (p *occlusionProxyImpl) Surface() Surface {
	return p.surface
}

func (p *occlusionProxyImpl) Opacity() float32 {
	return p.material.Opacity()
}

func (p *occlusionProxyImpl) Reveal(ready *common.Signal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready == nil {
		p.ready = ready
	}
}

func (p *occlusionProxyImpl) Sync() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.revealed || p.ready == nil || !p.ready.Fired() {
		return false
	}
	p.material.SetOpacity(0)
	p.revealed = true
	log.Printf("[Overlay] %s revealed", p.surface.Name())
	return true
}

func (p *occlusionProxyImpl) Revealed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revealed
}
