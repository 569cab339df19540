package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/raycast"
	"github.com/go-gl/mathgl/mgl32"
)

// Object is a node of the scene graph: a mesh when it has geometry, a group otherwise.
// An object's local transform is fixed at construction.
type Object interface {
	raycast.Intersectable

	// ID returns the scene-assigned identifier, or 0 before the object joins a scene.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID assigns the identifier. Called by the scene.
	//
	// Parameters:
	//   - id: the new identifier
	SetID(id uint64)

	// Name returns the object name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Transform returns a copy of the local transform.
	//
	// Returns:
	//   - common.Transform: position, rotation and scale relative to the parent
	Transform() common.Transform

	// WorldMatrix returns the parent chain's matrices multiplied with the local matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the model-to-world matrix
	WorldMatrix() mgl32.Mat4

	// Geometry returns the mesh data, or nil for a group.
	//
	// Returns:
	//   - *Geometry: the geometry
	Geometry() *Geometry

	// Material returns the mesh material, or nil for a group.
	//
	// Returns:
	//   - Material: the material
	Material() Material

	// Visible reports whether the renderer draws the object. Raycasts ignore this flag.
	//
	// Returns:
	//   - bool: true if the object is drawn
	Visible() bool

	// SetVisible shows or hides the object.
	//
	// Parameters:
	//   - visible: true to draw the object
	SetVisible(visible bool)

	// CastShadow reports whether the object casts shadows.
	//
	// Returns:
	//   - bool: true if the object casts shadows
	CastShadow() bool

	// ReceiveShadow reports whether the object receives shadows.
	//
	// Returns:
	//   - bool: true if the object receives shadows
	ReceiveShadow() bool

	// SetShadows sets the cast and receive shadow flags.
	//
	// Parameters:
	//   - cast: true to cast shadows
	//   - receive: true to receive shadows
	SetShadows(cast, receive bool)

	// Parent returns the parent object, or nil for a root.
	//
	// Returns:
	//   - Object: the parent
	Parent() Object

	// Children returns a copy of the child list.
	//
	// Returns:
	//   - []Object: the children
	Children() []Object

	// Add attaches children to this object.
	//
	// Parameters:
	//   - children: the objects to attach
	Add(children ...Object)

	setParent(parent Object)
}

type objectImpl struct {
	mu *sync.Mutex

	id            uint64
	name          string
	transform     common.Transform
	geometry      *Geometry
	material      Material
	visible       bool
	castShadow    bool
	receiveShadow bool
	parent        Object
	children      []Object
}

var _ Object = &objectImpl{}

// NewObject creates a visible object with an identity transform.
//
// Parameters:
//   - name: object name used in logs
//   - options: functional options to configure the object
//
// Returns:
//   - Object: the new object
func NewObject(name string, options ...ObjectBuilderOption) Object {
	o := &objectImpl{
		mu:        &sync.Mutex{},
		name:      name,
		transform: common.NewTransform(),
		visible:   true,
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// NewMesh creates a visible mesh object.
//
// Parameters:
//   - name: object name used in logs
//   - geometry: the mesh data
//   - material: the surface material
//   - options: functional options to configure the object
//
// Returns:
//   - Object: the new mesh
func NewMesh(name string, geometry *Geometry, material Material, options ...ObjectBuilderOption) Object {
	return NewObject(name, append([]ObjectBuilderOption{withMesh(geometry, material)}, options...)...)
}

func (o *objectImpl) ID() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.id
}

func (o *objectImpl) SetID(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.id = id
}

func (o *objectImpl) Name() string {
	return o.name
}

func (o *objectImpl) Transform() common.Transform {
	return o.transform
}

func (o *objectImpl) WorldMatrix() mgl32.Mat4 {
	o.mu.Lock()
	parent := o.parent
	o.mu.Unlock()

	local := o.transform.Matrix()
	if parent == nil {
		return local
	}
	return parent.WorldMatrix().Mul4(local)
}

func (o *objectImpl) Geometry() *Geometry {
	return o.geometry
}

func (o *objectImpl) Material() Material {
	return o.material
}

func (o *objectImpl) Visible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visible
}

func (o *objectImpl) SetVisible(visible bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible = visible
}

func (o *objectImpl) CastShadow() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.castShadow
}

func (o *objectImpl) ReceiveShadow() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.receiveShadow
}

func (o *objectImpl) SetShadows(cast, receive bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.castShadow = cast
	o.receiveShadow = receive
}

func (o *objectImpl) Parent() Object {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.parent
}

func (o *objectImpl) Children() []Object {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Object, len(o.children))
	copy(out, o.children)
	return out
}

func (o *objectImpl) Add(children ...Object) {
	for _, child := range children {
		if child == nil {
			continue
		}
		child.setParent(o)
		o.mu.Lock()
		o.children = append(o.children, child)
		o.mu.Unlock()
	}
}

func (o *objectImpl) setParent(parent Object) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.parent = parent
}

// Intersect tests the ray against this object's own geometry. Children are not tested,
// and neither visibility nor material opacity is consulted. Faces the material's side
// excludes are skipped.
func (o *objectImpl) Intersect(ray raycast.Ray) (raycast.Intersection, bool) {
	if o.geometry == nil {
		return raycast.Intersection{}, false
	}
	side := SideFront
	if mat := o.Material(); mat != nil {
		side = mat.Side()
	}
	world := o.WorldMatrix()

	if o.geometry.Kind == GeometryPlane {
		hit, ok := raycast.IntersectQuad(ray, world, o.geometry.Width, o.geometry.Height)
		if !ok || !side.Accepts(hit.FrontFace) {
			return raycast.Intersection{}, false
		}
		hit.Object = o
		return hit, true
	}

	best := raycast.Intersection{}
	found := false
	for i := range o.geometry.TriangleCount() {
		a, b, c := o.geometry.Triangle(i)
		wa := world.Mul4x1(a.Vec4(1)).Vec3()
		wb := world.Mul4x1(b.Vec4(1)).Vec3()
		wc := world.Mul4x1(c.Vec4(1)).Vec3()
		front := ray.Direction.Dot(wb.Sub(wa).Cross(wc.Sub(wa))) < 0
		if !side.Accepts(front) {
			continue
		}
		t, _, ok := raycast.IntersectTriangle(ray, wa, wb, wc)
		if !ok {
			continue
		}
		point := ray.At(t)
		dist := point.Sub(ray.Origin).Len()
		if !found || dist < best.Distance {
			best = raycast.Intersection{Distance: dist, Point: point, FrontFace: front, Object: o}
			found = true
		}
	}
	return best, found
}
