package scene

import "github.com/Carmen-Shannon/oxy-theater/common"

// ObjectBuilderOption is a functional option for configuring an Object.
type ObjectBuilderOption func(*objectImpl)

func withMesh(geometry *Geometry, material Material) ObjectBuilderOption {
	return func(o *objectImpl) {
		o.geometry = geometry
		o.material = material
	}
}

// WithTransform sets the local transform.
//
// Parameters:
//   - transform: position, rotation and scale relative to the parent
//
// Returns:
//   - ObjectBuilderOption: option function to apply
func WithTransform(transform common.Transform) ObjectBuilderOption {
	return func(o *objectImpl) {
		o.transform = transform
	}
}

// WithVisible sets whether the object starts visible.
//
// Parameters:
//   - visible: true to draw the object
//
// Returns:
//   - ObjectBuilderOption: option function to apply
func WithVisible(visible bool) ObjectBuilderOption {
	return func(o *objectImpl) {
		o.visible = visible
	}
}

// WithShadows sets the cast and receive shadow flags.
//
// Parameters:
//   - cast: true to cast shadows
//   - receive: true to receive shadows
//
// Returns:
//   - ObjectBuilderOption: option function to apply
func WithShadows(cast, receive bool) ObjectBuilderOption {
	return func(o *objectImpl) {
		o.castShadow = cast
		o.receiveShadow = receive
	}
}

// WithChildren attaches child objects.
//
// Parameters:
//   - children: the objects to attach
//
// Returns:
//   - ObjectBuilderOption: option function to apply
func WithChildren(children ...Object) ObjectBuilderOption {
	return func(o *objectImpl) {
		o.Add(children...)
	}
}
