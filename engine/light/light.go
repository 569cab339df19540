package light

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	position     mgl32.Vec3
	target       mgl32.Vec3
	color        mgl32.Vec3
	intensity    float32
	enabled      bool
	castsShadows bool
	shadow       Shadow
}

// Light defines a directional light source.
//
// A directional light sits at Position and shines toward Target; only the
// resulting direction affects shading, so moving both points together has no effect.
// The light is marshaled into the renderer's frame uniform each frame via GPU().
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: position
	Position() mgl32.Vec3

	// Target returns the point the light shines toward.
	//
	// Returns:
	//   - mgl32.Vec3: target position
	Target() mgl32.Vec3

	// Direction returns the normalized direction the light travels, from Position toward Target.
	//
	// Returns:
	//   - mgl32.Vec3: normalized direction
	Direction() mgl32.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Enabled returns whether this light is active for rendering.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// CastsShadows returns whether this light is eligible for shadow map generation.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// Shadow returns the light's shadow map parameters.
	//
	// Returns:
	//   - Shadow: the shadow parameters
	Shadow() Shadow

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - position: position in world space
	SetPosition(position mgl32.Vec3)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// GPU builds the GPU representation of the light.
	//
	// Returns:
	//   - GPULight: uniform data for the current state
	GPU() GPULight
}

var _ Light = &lightImpl{}

// NewDirectionalLight creates a white directional light of intensity 1 shining from (0, 1, 0) toward the origin.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: the new light
func NewDirectionalLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:        &sync.Mutex{},
		position:  mgl32.Vec3{0, 1, 0},
		color:     mgl32.Vec3{1, 1, 1},
		intensity: 1,
		enabled:   true,
		shadow:    DefaultShadow(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Position() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Target() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction()
}

func (l *lightImpl) Color() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.castsShadows
}

func (l *lightImpl) Shadow() Shadow {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shadow
}

func (l *lightImpl) SetPosition(position mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = position
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

func (l *lightImpl) GPU() GPULight {
	l.mu.Lock()
	defer l.mu.Unlock()

	g := GPULight{
		Direction: l.direction(),
		Color:     l.color,
		Intensity: l.intensity,
	}
	if !l.enabled {
		g.Intensity = 0
	}
	if l.castsShadows {
		g.CastsShadows = 1
	}
	return g
}

// direction derives the travel direction. A light sitting on its target points straight down.
// Caller must hold the mutex.
func (l *lightImpl) direction() mgl32.Vec3 {
	d := l.target.Sub(l.position)
	if d.Len() < 1e-8 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}
