package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController defines an orbit control system around a target point.
// Controllers own positional state (position, target). Camera reads from the controller
// and computes view/projection matrices. Input methods move goal values; Update advances
// the actual values toward the goals, through damped springs when damping is enabled.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the orbit pivot and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - target: world-space pivot
	SetTarget(target mgl32.Vec3)

	// SetPosition places the camera at a world-space position. Radius, azimuth and elevation
	// are derived from the offset to the target. The change is applied immediately, bypassing damping.
	//
	// Parameters:
	//   - position: world-space coordinates
	SetPosition(position mgl32.Vec3)

	// Rotate orbits the camera by a pointer drag.
	//
	// Parameters:
	//   - dx: horizontal drag in window coordinates
	//   - dy: vertical drag in window coordinates
	Rotate(dx, dy float32)

	// Zoom adjusts the orbit radius. Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// Pan translates both target and position along the camera's right and up axes.
	//
	// Parameters:
	//   - dx: horizontal drag in window coordinates
	//   - dy: vertical drag in window coordinates
	Pan(dx, dy float32)

	// Update advances damping by dt seconds. Without damping it snaps to the goal values.
	//
	// Parameters:
	//   - dt: elapsed time since the previous update in seconds
	Update(dt float32)

	// Damping reports whether springs smooth the motion.
	//
	// Returns:
	//   - bool: true if damping is enabled
	Damping() bool

	// SetDamping enables or disables damped motion.
	//
	// Parameters:
	//   - enabled: true to enable damping
	SetDamping(enabled bool)

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: the radius
	Radius() float32

	// Azimuth returns the current horizontal angle around the Y axis in radians (0 = +Z).
	//
	// Returns:
	//   - float32: the azimuth
	Azimuth() float32

	// Elevation returns the current vertical angle from the horizontal plane in radians.
	//
	// Returns:
	//   - float32: the elevation
	Elevation() float32

	// Settled reports whether the actual values have reached their goals.
	//
	// Returns:
	//   - bool: true if no damped motion is pending
	Settled() bool
}
