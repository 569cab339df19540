package scene

import (
	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithObjects adds initial root objects to the scene.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...Object) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			s.assignIDs(obj)
			s.objects = append(s.objects, obj)
		}
	}
}

// WithLights adds initial lights to the scene.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lights = append(s.lights, lights...)
	}
}

// WithFog enables linear fog.
//
// Parameters:
//   - color: linear RGB fog color
//   - near: view distance where fog starts
//   - far: view distance where fog is total
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFog(color mgl32.Vec3, near, far float32) SceneBuilderOption {
	return func(s *scene) {
		s.fog = &Fog{Color: color, Near: near, Far: far}
	}
}

// WithEnvironmentMap uses one cube map for both the background and image-based lighting.
//
// Parameters:
//   - cube: the decoded cube map
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithEnvironmentMap(cube *common.CubeTextureStagingData) SceneBuilderOption {
	return func(s *scene) {
		s.background = cube
		s.environment = cube
	}
}

// WithClearColor sets the color used where no background is available.
//
// Parameters:
//   - color: linear RGB color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithClearColor(color mgl32.Vec3) SceneBuilderOption {
	return func(s *scene) {
		s.clearColor = color
	}
}
