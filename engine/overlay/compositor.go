package overlay

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-theater/engine/camera"
	"github.com/Carmen-Shannon/oxy-theater/engine/renderer"
	"github.com/Carmen-Shannon/oxy-theater/engine/scene"
)

// Compositor keeps the primary 3D renderer and the overlay renderer in lockstep with one camera.
type Compositor interface {
	// Resize resizes both renderers and updates the camera aspect.
	//
	// Parameters:
	//   - width: the logical viewport width
	//   - height: the logical viewport height
	Resize(width, height int)

	// Render draws the 3D scene, then the overlay scene into the same frame, then presents it.
	// Overlay failures are logged and do not stop the frame.
	//
	// Returns:
	//   - error: an error if the 3D frame could not be drawn
	Render() error

	// RenderScene draws the 3D scene and leaves the frame unpresented.
	//
	// Returns:
	//   - error: an error if the 3D frame could not be drawn
	RenderScene() error

	// RenderOverlay composites the overlay scene into the frame drawn by RenderScene and presents it.
	// Overlay failures are logged; the frame is presented regardless.
	RenderOverlay()

	// Primary returns the 3D renderer.
	//
	// Returns:
	//   - renderer.Renderer: the 3D renderer
	Primary() renderer.Renderer

	// Overlay returns the overlay renderer.
	//
	// Returns:
	//   - Renderer: the overlay renderer
	Overlay() Renderer
}

type compositorImpl struct {
	primary renderer.Renderer
	overlay Renderer
	world   scene.Scene
	surface Scene
	cam     camera.Camera
}

var _ Compositor = &compositorImpl{}

// NewCompositor couples the renderers and scenes drawn each frame.
//
// Parameters:
//   - primary: the 3D renderer
//   - overlay: the overlay renderer
//   - world: the 3D scene
//   - surfaces: the overlay scene
//   - cam: the camera both renderers draw from
//
// Returns:
//   - Compositor: the new compositor
func NewCompositor(primary renderer.Renderer, overlay Renderer, world scene.Scene, surfaces Scene, cam camera.Camera) Compositor {
	return &compositorImpl{
		primary: primary,
		overlay: overlay,
		world:   world,
		surface: surfaces,
		cam:     cam,
	}
}

func (c *compositorImpl) Resize(width, height int) {
	c.primary.Resize(width, height)
	c.overlay.SetSize(width, height)
	if width > 0 && height > 0 {
		c.cam.SetAspect(float32(width) / float32(height))
	}
}

func (c *compositorImpl) Render() error {
	if err := c.RenderScene(); err != nil {
		return err
	}
	c.RenderOverlay()
	return nil
}

func (c *compositorImpl) RenderScene() error {
	if err := c.primary.Render(c.world, c.cam); err != nil {
		return fmt.Errorf("failed to render scene: %w", err)
	}
	return nil
}

func (c *compositorImpl) RenderOverlay() {
	if err := c.overlay.Render(c.surface, c.cam); err != nil {
		log.Printf("[Overlay] %v", err)
	}
	c.primary.Present()
}

func (c *compositorImpl) Primary() renderer.Renderer {
	return c.primary
}

func (c *compositorImpl) Overlay() Renderer {
	return c.overlay
}
