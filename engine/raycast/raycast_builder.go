package raycast

// RaycasterBuilderOption is a functional option for configuring a Raycaster.
type RaycasterBuilderOption func(*raycasterImpl)

// WithNear sets the minimum hit distance.
//
// Parameters:
//   - near: minimum distance along the ray
//
// Returns:
//   - RaycasterBuilderOption: option function to apply
func WithNear(near float32) RaycasterBuilderOption {
	return func(r *raycasterImpl) {
		r.near = near
	}
}

// WithFar sets the maximum hit distance.
//
// Parameters:
//   - far: maximum distance along the ray
//
// Returns:
//   - RaycasterBuilderOption: option function to apply
func WithFar(far float32) RaycasterBuilderOption {
	return func(r *raycasterImpl) {
		r.far = far
	}
}
