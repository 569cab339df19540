package scene

import (
	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a functional option for configuring a Material.
type MaterialBuilderOption func(*materialImpl)

// WithColor sets the base color.
//
// Parameters:
//   - color: linear RGB color
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithColor(color mgl32.Vec3) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.color = color
	}
}

// WithOpacity sets the starting opacity, clamped to [0, 1].
//
// Parameters:
//   - opacity: the opacity
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.opacity = common.Clamp(opacity, 0, 1)
	}
}

// WithBlending sets the blending mode. It cannot be changed after construction.
//
// Parameters:
//   - blending: the blending mode
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithBlending(blending Blending) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.blending = blending
	}
}

// WithSide sets which faces are drawn and hit. It cannot be changed after construction.
//
// Parameters:
//   - side: the face side
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithSide(side Side) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.side = side
	}
}

// WithEnvMapIntensity sets the environment reflection multiplier.
//
// Parameters:
//   - intensity: the multiplier
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithEnvMapIntensity(intensity float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.envMapIntensity = intensity
	}
}

// WithLit selects between a lit standard material and an unlit flat one.
//
// Parameters:
//   - lit: true for lighting
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithLit(lit bool) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.lit = lit
	}
}

// WithTexture sets the albedo texture.
//
// Parameters:
//   - tex: decoded texture pixels
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithTexture(tex *common.TextureStagingData) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.texture = tex
	}
}
