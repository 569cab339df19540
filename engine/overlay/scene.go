package overlay

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
)

// ErrSurfaceNotFound is returned when mounting onto an element id no surface carries.
var ErrSurfaceNotFound = errors.New("surface not found")

// Scene holds the surfaces drawn by the overlay Renderer.
type Scene interface {
	// Add appends surfaces to the scene.
	//
	// Parameters:
	//   - surfaces: the surfaces to add
	Add(surfaces ...Surface)

	// Surfaces returns the surfaces in insertion order.
	//
	// Returns:
	//   - []Surface: a copy of the surface list
	Surfaces() []Surface

	// Surface finds a surface by name.
	//
	// Parameters:
	//   - name: the element id
	//
	// Returns:
	//   - Surface: the surface, or nil if absent
	Surface(name string) Surface

	// Mount attaches a frame source to the surface named id.
	//
	// Parameters:
	//   - id: the element id
	//   - src: the frame source
	//
	// Returns:
	//   - error: ErrSurfaceNotFound wrapped with the id
	Mount(id string, src common.FrameSource) error
}

type sceneImpl struct {
	mu       *sync.Mutex
	surfaces []Surface
}

var _ Scene = &sceneImpl{}

// NewScene creates a scene holding the given surfaces.
//
// Parameters:
//   - surfaces: the initial surfaces
//
// Returns:
//   - Scene: the new scene
func NewScene(surfaces ...Surface) Scene {
	s := &sceneImpl{mu: &sync.Mutex{}}
	s.Add(surfaces...)
	return s
}

func (s *sceneImpl) Add(surfaces ...Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, surf := range surfaces {
		if surf != nil {
			s.surfaces = append(s.surfaces, surf)
		}
	}
}

func (s *sceneImpl) Surfaces() []Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Surface, len(s.surfaces))
	copy(out, s.surfaces)
	return out
}

func (s *sceneImpl) Surface(name string) Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, surf := range s.surfaces {
		if surf.Name() == name {
			return surf
		}
	}
	return nil
}

func (s *sceneImpl) Mount(id string, src common.FrameSource) error {
	surf := s.Surface(id)
	if surf == nil {
		return fmt.Errorf("%w: %q", ErrSurfaceNotFound, id)
	}
	surf.SetSource(src)
	return nil
}
