package raycast

import (
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line starting at Origin and extending along the unit vector Direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Intersection describes a ray hit.
type Intersection struct {
	// Distance is the world-space distance from the ray origin to the hit point.
	Distance float32
	// Point is the world-space hit position.
	Point mgl32.Vec3
	// UV is the surface coordinate of the hit, in [0, 1] on both axes for quads.
	UV mgl32.Vec2
	// FrontFace is true when the ray arrived from the side the surface normal points to.
	FrontFace bool
	// Object is the intersectable that was hit.
	Object Intersectable
}

// Intersectable is anything a Raycaster can test against.
// Implementations must not consult material opacity or visibility: invisible geometry is still hit.
type Intersectable interface {
	// Intersect tests the ray against the object.
	//
	// Parameters:
	//   - ray: the world-space ray
	//
	// Returns:
	//   - Intersection: the nearest hit, with Object set to the receiver
	//   - bool: true if the ray hits the object
	Intersect(ray Ray) (Intersection, bool)
}

// CameraSource is the part of a camera the Raycaster needs.
type CameraSource interface {
	Position() mgl32.Vec3
	InverseViewProjectionMatrix() mgl32.Mat4
}

// Raycaster builds pointer rays and collects intersections.
type Raycaster interface {
	// SetFromCamera aims the ray from the camera eye through a pointer position.
	//
	// Parameters:
	//   - ndc: pointer position in normalized device coordinates
	//   - cam: the camera the pointer looks through
	SetFromCamera(ndc mgl32.Vec2, cam CameraSource)

	// Set assigns the ray directly. The direction is normalized.
	//
	// Parameters:
	//   - origin: world-space ray origin
	//   - direction: world-space ray direction
	Set(origin, direction mgl32.Vec3)

	// Ray returns the current ray.
	//
	// Returns:
	//   - Ray: the ray used for intersection tests
	Ray() Ray

	// Near returns the minimum hit distance.
	//
	// Returns:
	//   - float32: hits closer than this are discarded
	Near() float32

	// Far returns the maximum hit distance.
	//
	// Returns:
	//   - float32: hits farther than this are discarded
	Far() float32

	// IntersectObjects tests every object against the current ray.
	//
	// Parameters:
	//   - objects: the objects to test
	//
	// Returns:
	//   - []Intersection: all hits within [Near, Far], nearest first
	IntersectObjects(objects ...Intersectable) []Intersection
}

type raycasterImpl struct {
	mu *sync.Mutex

	ray  Ray
	near float32
	far  float32
}

var _ Raycaster = &raycasterImpl{}

// NewRaycaster creates a Raycaster with an unbounded far distance and a ray pointing down -Z.
//
// Parameters:
//   - options: functional options to configure the raycaster
//
// Returns:
//   - Raycaster: the new raycaster
func NewRaycaster(options ...RaycasterBuilderOption) Raycaster {
	r := &raycasterImpl{
		mu:   &sync.Mutex{},
		ray:  Ray{Direction: mgl32.Vec3{0, 0, -1}},
		near: 0,
		far:  math32.Inf(1),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *raycasterImpl) SetFromCamera(ndc mgl32.Vec2, cam CameraSource) {
	origin := cam.Position()
	through := common.Unproject(mgl32.Vec3{ndc.X(), ndc.Y(), 0.5}, cam.InverseViewProjectionMatrix())
	r.Set(origin, through.Sub(origin))
}

func (r *raycasterImpl) Set(origin, direction mgl32.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if direction.Len() > 0 {
		direction = direction.Normalize()
	}
	r.ray = Ray{Origin: origin, Direction: direction}
}

func (r *raycasterImpl) Ray() Ray {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ray
}

func (r *raycasterImpl) Near() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.near
}

func (r *raycasterImpl) Far() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.far
}

func (r *raycasterImpl) IntersectObjects(objects ...Intersectable) []Intersection {
	r.mu.Lock()
	ray, near, far := r.ray, r.near, r.far
	r.mu.Unlock()

	var hits []Intersection
	for _, obj := range objects {
		if obj == nil {
			continue
		}
		hit, ok := obj.Intersect(ray)
		if !ok || hit.Distance < near || hit.Distance > far {
			continue
		}
		hits = append(hits, hit)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}
