package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// Fog fades fragments linearly toward Color between Near and Far (view distance).
type Fog struct {
	Color mgl32.Vec3
	Near  float32
	Far   float32
}

// Factor returns the fog blend weight at a view distance, 0 before Near and 1 past Far.
func (f Fog) Factor(distance float32) float32 {
	if f.Far <= f.Near {
		return 0
	}
	return common.Clamp((distance-f.Near)/(f.Far-f.Near), 0, 1)
}

// Scene owns the 3D world: root objects, lights, fog, background and environment map.
type Scene interface {
	// Add appends root objects. Objects without IDs, and their descendants, are assigned new IDs.
	//
	// Parameters:
	//   - objects: the objects to add
	Add(objects ...Object)

	// Remove detaches a root object.
	//
	// Parameters:
	//   - obj: the object to remove
	Remove(obj Object)

	// Objects returns a copy of the root object list.
	//
	// Returns:
	//   - []Object: the root objects
	Objects() []Object

	// Traverse visits every object depth-first, parents before children.
	//
	// Parameters:
	//   - fn: visitor invoked for each object
	Traverse(fn func(Object))

	// Count returns the number of objects in the graph, including descendants.
	//
	// Returns:
	//   - int: the object count
	Count() int

	// AddLight registers a light.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// Lights returns a copy of the light list.
	//
	// Returns:
	//   - []light.Light: the lights
	Lights() []light.Light

	// Fog returns the fog settings, or nil when fog is disabled.
	//
	// Returns:
	//   - *Fog: the fog settings
	Fog() *Fog

	// SetFog enables fog with the given settings, or disables it with nil.
	//
	// Parameters:
	//   - fog: the fog settings
	SetFog(fog *Fog)

	// Background returns the cube map drawn behind all geometry, or nil.
	//
	// Returns:
	//   - *common.CubeTextureStagingData: the background cube map
	Background() *common.CubeTextureStagingData

	// SetBackground sets the cube map drawn behind all geometry.
	//
	// Parameters:
	//   - cube: the decoded cube map, or nil for the clear color
	SetBackground(cube *common.CubeTextureStagingData)

	// Environment returns the cube map used for image-based lighting, or nil.
	//
	// Returns:
	//   - *common.CubeTextureStagingData: the environment cube map
	Environment() *common.CubeTextureStagingData

	// SetEnvironment sets the cube map used for image-based lighting.
	//
	// Parameters:
	//   - cube: the decoded cube map, or nil
	SetEnvironment(cube *common.CubeTextureStagingData)

	// ClearColor returns the color used where no background is available.
	//
	// Returns:
	//   - mgl32.Vec3: linear RGB color
	ClearColor() mgl32.Vec3
}

type scene struct {
	mu *sync.Mutex

	nextID      uint64
	objects     []Object
	lights      []light.Light
	fog         *Fog
	background  *common.CubeTextureStagingData
	environment *common.CubeTextureStagingData
	clearColor  mgl32.Vec3
}

var _ Scene = &scene{}

// NewScene creates an empty scene with a black clear color and no fog.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:     &sync.Mutex{},
		nextID: 1,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Add(objects ...Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, obj := range objects {
		if obj == nil {
			continue
		}
		s.assignIDs(obj)
		s.objects = append(s.objects, obj)
	}
}

// assignIDs gives obj and its descendants IDs if they have none. Caller must hold the mutex.
func (s *scene) assignIDs(obj Object) {
	if obj.ID() == 0 {
		obj.SetID(s.nextID)
		s.nextID++
	}
	for _, child := range obj.Children() {
		s.assignIDs(child)
	}
}

func (s *scene) Remove(obj Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return
		}
	}
}

func (s *scene) Objects() []Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *scene) Traverse(fn func(Object)) {
	var visit func(Object)
	visit = func(o Object) {
		fn(o)
		for _, child := range o.Children() {
			visit(child)
		}
	}
	for _, obj := range s.Objects() {
		visit(obj)
	}
}

func (s *scene) Count() int {
	n := 0
	s.Traverse(func(Object) { n++ })
	return n
}

func (s *scene) AddLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) Lights() []light.Light {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]light.Light, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *scene) Fog() *Fog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fog
}

func (s *scene) SetFog(fog *Fog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fog = fog
}

func (s *scene) Background() *common.CubeTextureStagingData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background
}

func (s *scene) SetBackground(cube *common.CubeTextureStagingData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = cube
}

func (s *scene) Environment() *common.CubeTextureStagingData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.environment
}

func (s *scene) SetEnvironment(cube *common.CubeTextureStagingData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.environment = cube
}

func (s *scene) ClearColor() mgl32.Vec3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearColor
}

// ApplyEnvironmentIntensity walks every lit mesh, sets its environment intensity
// and enables shadows. Unlit materials, such as occluders, are left alone.
//
// Parameters:
//   - s: the scene to update
//   - intensity: the environment intensity for every lit material
//
// Returns:
//   - int: the number of meshes updated
func ApplyEnvironmentIntensity(s Scene, intensity float32) int {
	updated := 0
	s.Traverse(func(o Object) {
		mat := o.Material()
		if o.Geometry() == nil || mat == nil || !mat.Lit() {
			return
		}
		mat.SetEnvMapIntensity(intensity)
		o.SetShadows(true, true)
		updated++
	})
	return updated
}
