package overlay

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Default surface size in pixels.
const (
	DefaultSurfaceWidth  = 720
	DefaultSurfaceHeight = 405
)

// Surface is a flat media element placed in 3D space. Its extent is width x height pixels in
// local units centered on its origin, so the transform's scale decides its world size.
// The transform is fixed at construction.
type Surface interface {
	// Name returns the element id the surface is mounted under.
	//
	// Returns:
	//   - string: the surface name
	Name() string

	// Size returns the surface extent in pixels.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)

	// Transform returns the surface transform.
	//
	// Returns:
	//   - common.Transform: the transform
	Transform() common.Transform

	// Matrix returns the surface model matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	Matrix() mgl32.Mat4

	// Source returns the frame source drawn on the surface, or nil before one is mounted.
	//
	// Returns:
	//   - common.FrameSource: the frame source
	Source() common.FrameSource

	// SetSource mounts a frame source on the surface.
	//
	// Parameters:
	//   - src: the frame source, nil to unmount
	SetSource(src common.FrameSource)

	// Opacity returns the surface opacity in [0, 1].
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// SetOpacity sets the surface opacity, clamped to [0, 1].
	//
	// Parameters:
	//   - opacity: the new opacity
	SetOpacity(opacity float32)
}

type surfaceImpl struct {
	mu *sync.Mutex

	name          string
	width, height int
	transform     common.Transform
	source        common.FrameSource
	opacity       float32
}

var _ Surface = &surfaceImpl{}

// NewSurface creates a DefaultSurfaceWidth x DefaultSurfaceHeight surface at the origin.
//
// Parameters:
//   - name: the element id
//   - options: functional options to configure the surface
//
// Returns:
//   - Surface: the new surface
func NewSurface(name string, options ...SurfaceBuilderOption) Surface {
	s := &surfaceImpl{
		mu:        &sync.Mutex{},
		name:      name,
		width:     DefaultSurfaceWidth,
		height:    DefaultSurfaceHeight,
		transform: common.NewTransform(),
		opacity:   1,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *surfaceImpl) Name() string {
	return s.name
}

func (s *surfaceImpl) Size() (int, int) {
	return s.width, s.height
}

func (s *surfaceImpl) Transform() common.Transform {
	return s.transform
}

func (s *surfaceImpl) Matrix() mgl32.Mat4 {
	return s.transform.Matrix()
}

func (s *surfaceImpl) Source() common.FrameSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func (s *surfaceImpl) SetSource(src common.FrameSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = src
}

func (s *surfaceImpl) Opacity() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opacity
}

func (s *surfaceImpl) SetOpacity(opacity float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opacity = common.Clamp(opacity, 0, 1)
}

// corners returns the local-space corners in strip order: top-left, top-right, bottom-left, bottom-right.
func corners(width, height int) [4]mgl32.Vec3 {
	hw, hh := float32(width)/2, float32(height)/2
	return [4]mgl32.Vec3{
		{-hw, hh, 0},
		{hw, hh, 0},
		{-hw, -hh, 0},
		{hw, -hh, 0},
	}
}
