package overlay

import (
	"github.com/Carmen-Shannon/oxy-theater/common"
)

// SurfaceBuilderOption is a functional option applied to a surface during construction via NewSurface.
type SurfaceBuilderOption func(*surfaceImpl)

// WithSurfaceSize sets the surface extent in pixels. Non-positive values are ignored.
//
// Parameters:
//   - width: the width in pixels
//   - height: the height in pixels
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the size option to a surface
func WithSurfaceSize(width, height int) SurfaceBuilderOption {
	return func(s *surfaceImpl) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

// WithSurfaceTransform places the surface. The transform is copied.
//
// Parameters:
//   - transform: the surface transform
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the transform option to a surface
func WithSurfaceTransform(transform common.Transform) SurfaceBuilderOption {
	return func(s *surfaceImpl) {
		s.transform = transform
	}
}

// WithSource mounts a frame source at construction.
//
// Parameters:
//   - src: the frame source
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the source option to a surface
func WithSource(src common.FrameSource) SurfaceBuilderOption {
	return func(s *surfaceImpl) {
		s.source = src
	}
}

// WithSurfaceOpacity sets the initial opacity, clamped to [0, 1].
//
// Parameters:
//   - opacity: the opacity
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the opacity option to a surface
func WithSurfaceOpacity(opacity float32) SurfaceBuilderOption {
	return func(s *surfaceImpl) {
		s.opacity = common.Clamp(opacity, 0, 1)
	}
}
