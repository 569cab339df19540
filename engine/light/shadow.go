package light

// DefaultShadowMapSize is the default width and height in texels of a light's shadow depth texture.
const DefaultShadowMapSize = 512

// DefaultShadowNear is the default near plane of the light's shadow projection.
const DefaultShadowNear float32 = 0.5

// DefaultShadowFar is the default far plane of the light's shadow projection.
const DefaultShadowFar float32 = 500.0

// Shadow holds per-light shadow map parameters.
type Shadow struct {
	// MapSize is the shadow texture edge length in texels.
	MapSize int
	// Near and Far bound the shadow camera's depth range.
	Near, Far float32
	// Bias is the constant depth offset applied to shadow comparisons.
	Bias float32
	// NormalBias offsets the sample position along the surface normal to reduce acne on curved surfaces.
	NormalBias float32
}

// DefaultShadow returns the shadow parameters a new light starts with.
//
// Returns:
//   - Shadow: default parameters
func DefaultShadow() Shadow {
	return Shadow{
		MapSize: DefaultShadowMapSize,
		Near:    DefaultShadowNear,
		Far:     DefaultShadowFar,
	}
}
