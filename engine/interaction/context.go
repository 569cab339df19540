package interaction

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/raycast"
	"github.com/go-gl/mathgl/mgl32"
)

// Player is the playback surface a click handler drives.
type Player interface {
	PlayerState() common.PlayerState
	PlayVideo() error
	PauseVideo() error
}

// Handler reacts to a click on a hovered target.
type Handler func(ctx *Context, hit raycast.Intersection)

// Target pairs an intersectable object with the handler clicks on it are routed to.
type Target struct {
	Object  raycast.Intersectable
	Handler Handler
}

// Context is the interaction state of one view: the pointer, the current hit, the player handle
// and the registered targets. It replaces any process-wide pointer or player globals.
type Context struct {
	mu *sync.Mutex

	pointer mgl32.Vec2
	hit     *raycast.Intersection
	hovered int
	player  Player
	targets []Target
}

// NewContext creates an empty Context with the pointer at the centre of the viewport.
//
// Parameters:
//   - targets: the initial targets
//
// Returns:
//   - *Context: the new context
func NewContext(targets ...Target) *Context {
	c := &Context{
		mu:      &sync.Mutex{},
		hovered: -1,
	}
	for _, t := range targets {
		c.AddTarget(t)
	}
	return c
}

// Pointer returns the pointer in normalized device coordinates.
func (c *Context) Pointer() mgl32.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pointer
}

// SetPointer stores the pointer in normalized device coordinates.
func (c *Context) SetPointer(ndc mgl32.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pointer = ndc
}

// Hit returns the current intersection, or nil while nothing is hovered.
//
// Returns:
//   - *raycast.Intersection: a copy of the nearest hit on a registered target
func (c *Context) Hit() *raycast.Intersection {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hit == nil {
		return nil
	}
	hit := *c.hit
	return &hit
}

// Player returns the ready player, or nil before one has been attached.
func (c *Context) Player() Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player
}

// SetPlayer attaches the player handle. Pass nil to detach it.
func (c *Context) SetPlayer(p Player) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.player = p
}

// AddTarget registers a target. Targets without an object are ignored.
//
// Parameters:
//   - t: the target to register
func (c *Context) AddTarget(t Target) {
	if t.Object == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.targets = append(c.targets, t)
}

// Targets returns a copy of the registered targets.
func (c *Context) Targets() []Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Target, len(c.targets))
	copy(out, c.targets)
	return out
}

// hovering returns the hovered target and hit. Caller must not hold the mutex.
func (c *Context) hovering() (Target, raycast.Intersection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hit == nil || c.hovered < 0 || c.hovered >= len(c.targets) {
		return Target{}, raycast.Intersection{}, false
	}
	return c.targets[c.hovered], *c.hit, true
}

// setHover records the hovered target index and hit, returning the previous index.
func (c *Context) setHover(index int, hit *raycast.Intersection) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.hovered
	c.hovered = index
	c.hit = hit
	return prev
}
