package interaction

import "github.com/Carmen-Shannon/oxy-theater/engine/raycast"

// ControllerBuilderOption is a functional option applied to the Controller during construction.
type ControllerBuilderOption func(*controllerImpl)

// WithOnEnter replaces the enter observer. Nil disables enter notifications.
//
// Parameters:
//   - fn: called once when the pointer starts hovering a target
//
// Returns:
//   - ControllerBuilderOption: a function that applies the enter observer to the controller
func WithOnEnter(fn Observer) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.onEnter = fn
	}
}

// WithOnLeave replaces the leave observer. Nil disables leave notifications.
//
// Parameters:
//   - fn: called once when the pointer stops hovering a target
//
// Returns:
//   - ControllerBuilderOption: a function that applies the leave observer to the controller
func WithOnLeave(fn Observer) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.onLeave = fn
	}
}

// WithRaycaster sets the raycaster used for pointer rays, for example one with near and far bounds.
//
// Parameters:
//   - r: the raycaster, nil is ignored
//
// Returns:
//   - ControllerBuilderOption: a function that applies the raycaster to the controller
func WithRaycaster(r raycast.Raycaster) ControllerBuilderOption {
	return func(c *controllerImpl) {
		if r != nil {
			c.raycaster = r
		}
	}
}
