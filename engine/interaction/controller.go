package interaction

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/raycast"
)

// State is the hover state of a Controller.
type State int

const (
	// StateIdle means the pointer ray hits no registered target.
	StateIdle State = iota
	// StateHovering means the pointer ray hits a registered target.
	StateHovering
)

func (s State) String() string {
	if s == StateHovering {
		return "hovering"
	}
	return "idle"
}

// Observer is notified when the pointer enters or leaves a target.
type Observer func(target Target, hit raycast.Intersection)

// Controller turns pointer input into edge-triggered hover notifications and routes clicks to targets.
// All methods are meant to be called from the frame thread.
type Controller interface {
	// Context returns the interaction context the controller updates.
	//
	// Returns:
	//   - *Context: the context
	Context() *Context

	// PointerMove records the latest cursor position.
	//
	// Parameters:
	//   - x, y: cursor position relative to the top-left of the viewport
	//   - width, height: viewport size
	PointerMove(x, y float64, width, height int)

	// Update casts the pointer ray through cam against every target and fires OnEnter or OnLeave
	// when the hover state changes. Moving directly from one target to another fires a leave then an enter.
	//
	// Parameters:
	//   - cam: the camera the pointer looks through
	//
	// Returns:
	//   - State: the hover state after the update
	Update(cam raycast.CameraSource) State

	// Click routes a click to the hovered target's handler. Clicks while idle do nothing.
	//
	// Returns:
	//   - bool: true if a handler was invoked
	Click() bool

	// State returns the current hover state.
	//
	// Returns:
	//   - State: idle or hovering
	State() State
}

type controllerImpl struct {
	mu *sync.Mutex

	ctx       *Context
	raycaster raycast.Raycaster
	onEnter   Observer
	onLeave   Observer
	state     State
}

var _ Controller = &controllerImpl{}

// NewController creates a Controller over ctx. A nil ctx gets a fresh Context.
// Without observers, enter and leave are logged.
//
// Parameters:
//   - ctx: the interaction context
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the new controller
func NewController(ctx *Context, options ...ControllerBuilderOption) Controller {
	if ctx == nil {
		ctx = NewContext()
	}
	c := &controllerImpl{
		mu:        &sync.Mutex{},
		ctx:       ctx,
		raycaster: raycast.NewRaycaster(),
		onEnter:   logEnter,
		onLeave:   logLeave,
		state:     StateIdle,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func logEnter(Target, raycast.Intersection) { log.Println("[Interaction] mouse enter") }

func logLeave(Target, raycast.Intersection) { log.Println("[Interaction] mouse leave") }

func (c *controllerImpl) Context() *Context {
	return c.ctx
}

func (c *controllerImpl) PointerMove(x, y float64, width, height int) {
	c.ctx.SetPointer(common.NormalizePointer(x, y, width, height))
}

func (c *controllerImpl) Update(cam raycast.CameraSource) State {
	if cam == nil {
		return c.State()
	}

	targets := c.ctx.Targets()
	objects := make([]raycast.Intersectable, len(targets))
	for i, t := range targets {
		objects[i] = t.Object
	}
	c.raycaster.SetFromCamera(c.ctx.Pointer(), cam)

	index := -1
	var hit *raycast.Intersection
	if hits := c.raycaster.IntersectObjects(objects...); len(hits) > 0 {
		nearest := hits[0]
		hit = &nearest
		index = indexOf(targets, nearest.Object)
	}

	prevTarget, prevHit, wasHovering := c.ctx.hovering()
	if prev := c.ctx.setHover(index, hit); prev == index {
		return c.State()
	}

	state := StateIdle
	if index >= 0 {
		state = StateHovering
	}
	c.mu.Lock()
	c.state = state
	onEnter, onLeave := c.onEnter, c.onLeave
	c.mu.Unlock()

	if wasHovering && onLeave != nil {
		onLeave(prevTarget, prevHit)
	}
	if index >= 0 && onEnter != nil {
		onEnter(targets[index], *hit)
	}
	return state
}

func (c *controllerImpl) Click() bool {
	target, hit, ok := c.ctx.hovering()
	if !ok || target.Handler == nil {
		return false
	}
	target.Handler(c.ctx, hit)
	return true
}

func (c *controllerImpl) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func indexOf(targets []Target, obj raycast.Intersectable) int {
	for i, t := range targets {
		if t.Object == obj {
			return i
		}
	}
	return -1
}
