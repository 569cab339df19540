package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Blending selects how a material's fragments combine with the frame.
type Blending int

const (
	// BlendingNormal alpha-blends translucent fragments over the frame.
	BlendingNormal Blending = iota
	// BlendingNone writes color and alpha straight into the frame. A material with
	// BlendingNone and opacity 0 leaves a fully transparent hole in the 3D frame.
	BlendingNone
)

// String returns the blending mode name.
func (b Blending) String() string {
	switch b {
	case BlendingNone:
		return "none"
	default:
		return "normal"
	}
}

// Side selects which faces of a mesh are drawn and hit by raycasts. Front faces wind
// counter-clockwise when viewed from the side their normal points to.
type Side int

const (
	// SideFront draws and hits front faces only.
	SideFront Side = iota
	// SideBack draws and hits back faces only.
	SideBack
	// SideDouble draws and hits both faces.
	SideDouble
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideBack:
		return "back"
	case SideDouble:
		return "double"
	default:
		return "front"
	}
}

// Accepts reports whether a face seen from the given side is drawn and hit.
//
// Parameters:
//   - frontFacing: true if the viewer is on the side the face normal points to
//
// Returns:
//   - bool: true if the face counts
func (s Side) Accepts(frontFacing bool) bool {
	switch s {
	case SideBack:
		return !frontFacing
	case SideDouble:
		return true
	default:
		return frontFacing
	}
}

// Material describes the surface of a mesh.
type Material interface {
	// Color returns the base color.
	//
	// Returns:
	//   - mgl32.Vec3: linear RGB color
	Color() mgl32.Vec3

	// SetColor sets the base color.
	//
	// Parameters:
	//   - color: linear RGB color
	SetColor(color mgl32.Vec3)

	// Opacity returns the alpha written by the material, in [0, 1].
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// SetOpacity sets the opacity. Values are clamped to [0, 1].
	//
	// Parameters:
	//   - opacity: the new opacity
	SetOpacity(opacity float32)

	// Blending returns the blending mode.
	//
	// Returns:
	//   - Blending: the blending mode
	Blending() Blending

	// Side returns which faces are drawn and hit.
	//
	// Returns:
	//   - Side: the face side
	Side() Side

	// EnvMapIntensity returns the environment reflection multiplier.
	//
	// Returns:
	//   - float32: the environment intensity
	EnvMapIntensity() float32

	// SetEnvMapIntensity sets the environment reflection multiplier.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetEnvMapIntensity(intensity float32)

	// Lit reports whether the material reacts to lights and environment.
	// Unlit materials output their base color directly.
	//
	// Returns:
	//   - bool: true for standard lit materials
	Lit() bool

	// Texture returns the albedo texture, or nil for a flat color.
	//
	// Returns:
	//   - *common.TextureStagingData: the texture pixels
	Texture() *common.TextureStagingData

	// SetTexture replaces the albedo texture.
	//
	// Parameters:
	//   - tex: the decoded texture, or nil
	SetTexture(tex *common.TextureStagingData)

	// Version increases on every mutation so renderers know when to re-upload.
	//
	// Returns:
	//   - uint64: the mutation counter
	Version() uint64
}

type materialImpl struct {
	mu *sync.Mutex

	color           mgl32.Vec3
	opacity         float32
	blending        Blending
	side            Side
	envMapIntensity float32
	lit             bool
	texture         *common.TextureStagingData
	version         uint64
}

var _ Material = &materialImpl{}

// NewMaterial creates a white, opaque, lit, front-sided material with normal blending.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the new material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &materialImpl{
		mu:              &sync.Mutex{},
		color:           mgl32.Vec3{1, 1, 1},
		opacity:         1,
		blending:        BlendingNormal,
		side:            SideFront,
		envMapIntensity: 1,
		lit:             true,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *materialImpl) Color() mgl32.Vec3 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.color
}

func (m *materialImpl) SetColor(color mgl32.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.color = color
	m.version++
}

func (m *materialImpl) Opacity() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opacity
}

func (m *materialImpl) SetOpacity(opacity float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opacity = common.Clamp(opacity, 0, 1)
	m.version++
}

func (m *materialImpl) Blending() Blending {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blending
}

func (m *materialImpl) Side() Side {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.side
}

func (m *materialImpl) EnvMapIntensity() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.envMapIntensity
}

func (m *materialImpl) SetEnvMapIntensity(intensity float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.envMapIntensity = intensity
	m.version++
}

func (m *materialImpl) Lit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lit
}

func (m *materialImpl) Texture() *common.TextureStagingData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.texture
}

func (m *materialImpl) SetTexture(tex *common.TextureStagingData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texture = tex
	m.version++
}

func (m *materialImpl) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}
