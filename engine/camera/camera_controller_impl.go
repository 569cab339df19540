package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// settleEpsilon is the distance under which a damped value is considered to have reached its goal.
const settleEpsilon = 1e-4

// dampedValue is one spherical coordinate driven toward its goal by a spring.
type dampedValue struct {
	pos, vel, goal float64
}

func (d *dampedValue) snap(v float64) {
	d.pos, d.vel, d.goal = v, 0, v
}

func (d *dampedValue) step(spring harmonica.Spring) {
	d.pos, d.vel = spring.Update(d.pos, d.vel, d.goal)
	if math.Abs(d.pos-d.goal) < settleEpsilon && math.Abs(d.vel) < settleEpsilon {
		d.pos, d.vel = d.goal, 0
	}
}

func (d *dampedValue) settled() bool {
	return d.pos == d.goal && d.vel == 0
}

// cameraControllerImpl is the single implementation of CameraController.
// Orbit input modifies goal spherical coordinates; Update moves the actual
// coordinates toward them and recomputes position.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	radius    dampedValue
	azimuth   dampedValue
	elevation dampedValue

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	mouseSensitivity float32
	zoomSpeed        float32
	panSpeed         float32

	damping          bool
	angularFrequency float64
	dampingRatio     float64
	springDelta      float32
	spring           harmonica.Spring
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new orbit controller with defaults close to a typical orbit control:
// a radius of 5 around the origin, damping disabled and elevation kept just short of the poles.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		minRadius:    0.1,
		maxRadius:    1000,
		minElevation: -math.Pi/2 + 0.01,
		maxElevation: math.Pi/2 - 0.01,

		mouseSensitivity: 0.005,
		zoomSpeed:        0.5,
		panSpeed:         0.002,

		angularFrequency: 6.0,
		dampingRatio:     1.0,
	}
	cc.radius.snap(5)

	for _, option := range options {
		option(cc)
	}

	cc.updatePosition()
	return cc
}

// updatePosition recomputes the camera position from the actual spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	r := float32(cc.radius.pos)
	elev := float32(cc.elevation.pos)
	azim := float32(cc.azimuth.pos)
	cosElev := math32.Cos(elev)

	cc.position = cc.target.Add(mgl32.Vec3{
		r * cosElev * math32.Sin(azim),
		r * math32.Sin(elev),
		r * cosElev * math32.Cos(azim),
	})
}

// localAxes returns the camera's right and up vectors consistent with the LookAt matrix.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (right, up mgl32.Vec3) {
	backward := cc.position.Sub(cc.target)
	if backward.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	backward = backward.Normalize()
	right = mgl32.Vec3{0, 1, 0}.Cross(backward)
	if right.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	right = right.Normalize()
	return right, backward.Cross(right)
}

func (cc *cameraControllerImpl) clampRadius(r float64) float64 {
	return common.Clamp(r, float64(cc.minRadius), float64(cc.maxRadius))
}

func (cc *cameraControllerImpl) clampElevation(e float64) float64 {
	return common.Clamp(e, float64(cc.minElevation), float64(cc.maxElevation))
}

// placeAt derives spherical coordinates from a world-space position and snaps to them.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) placeAt(position mgl32.Vec3) {
	offset := position.Sub(cc.target)
	r := offset.Len()
	if r < 1e-8 {
		return
	}
	cc.radius.snap(float64(r))
	cc.elevation.snap(math.Asin(float64(mgl32.Clamp(offset.Y()/r, -1, 1))))
	cc.azimuth.snap(math.Atan2(float64(offset.X()), float64(offset.Z())))
}

// applyGoals snaps actual values to their goals when damping is off.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) applyGoals() {
	if cc.damping {
		return
	}
	cc.radius.snap(cc.radius.goal)
	cc.azimuth.snap(cc.azimuth.goal)
	cc.elevation.snap(cc.elevation.goal)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) SetPosition(position mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.placeAt(position)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Rotate(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth.goal -= float64(dx * cc.mouseSensitivity)
	cc.elevation.goal = cc.clampElevation(cc.elevation.goal + float64(dy*cc.mouseSensitivity))
	cc.applyGoals()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius.goal = cc.clampRadius(cc.radius.goal - float64(delta*cc.zoomSpeed))
	cc.applyGoals()
}

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	right, up := cc.localAxes()
	scale := cc.panSpeed * float32(cc.radius.pos)
	offset := right.Mul(-dx * scale).Add(up.Mul(dy * scale))
	cc.target = cc.target.Add(offset)
	cc.position = cc.position.Add(offset)
}

func (cc *cameraControllerImpl) Update(dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if !cc.damping || dt <= 0 {
		cc.applyGoals()
		return
	}
	if dt != cc.springDelta {
		cc.spring = harmonica.NewSpring(float64(dt), cc.angularFrequency, cc.dampingRatio)
		cc.springDelta = dt
	}
	cc.radius.step(cc.spring)
	cc.azimuth.step(cc.spring)
	cc.elevation.step(cc.spring)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Damping() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.damping
}

func (cc *cameraControllerImpl) SetDamping(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.damping = enabled
	cc.applyGoals()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return float32(cc.radius.pos)
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return float32(cc.azimuth.pos)
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return float32(cc.elevation.pos)
}

func (cc *cameraControllerImpl) Settled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius.settled() && cc.azimuth.settled() && cc.elevation.settled()
}
