// Package interact implements pointer-driven dragging of bodies.
//
// The controller is a two-state machine:
//
//	Idle --PointerDown(hit)--> Dragging --PointerUp--> Idle
//
// While Dragging, the held body follows pointer deltas in simulation space
// and the integrator must be called with the held index so physics is
// suspended. Releasing zeroes the held body's velocity.
package interact

import (
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/view"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultDragRadius is the pick distance, measured in simulation space.
const DefaultDragRadius = 40.0

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// Controller owns the drag state for one body set.
type Controller struct {
	bodies dynamo.BodySet
	radius float64

	state State
	held  int
	last  r2.Vec
}

func New(bodies dynamo.BodySet, dragRadius float64) *Controller {
	return &Controller{bodies: bodies, radius: dragRadius, held: dynamo.None}
}

func (c *Controller) State() State { return c.state }

// Held returns the index of the dragged body, or dynamo.None when idle.
func (c *Controller) Held() int { return c.held }

// Pick returns the first body, in index order, strictly within the drag
// radius of the simulation-space point p. Ties go to the lowest index even
// when a later body is closer.
func (c *Controller) Pick(p r2.Vec) int {
	for i, b := range c.bodies {
		if r2.Norm(r2.Sub(b.Pos, p)) < c.radius {
			return i
		}
	}
	return dynamo.None
}

// PointerDown grabs the body under the pointer. It reports whether the
// event was claimed; an unclaimed event leaves the state untouched so the
// surface can apply its default handling.
func (c *Controller) PointerDown(t view.Transform, pos r2.Vec) bool {
	p := t.ToSimulation(pos)
	i := c.Pick(p)
	if i == dynamo.None {
		return false
	}
	c.state, c.held, c.last = Dragging, i, p
	return true
}

// PointerMove translates the held body by the pointer delta.
func (c *Controller) PointerMove(t view.Transform, pos r2.Vec) bool {
	if c.state != Dragging {
		return false
	}
	p := t.ToSimulation(pos)
	b := &c.bodies[c.held]
	b.Pos = r2.Add(b.Pos, r2.Sub(p, c.last))
	c.last = p
	return true
}

// PointerUp releases the held body with zero velocity.
func (c *Controller) PointerUp() bool {
	if c.state != Dragging {
		return false
	}
	c.bodies[c.held].Vel = r2.Vec{}
	c.Release()
	return true
}

// Release returns to Idle without touching the held body. Used when the
// body set is replaced wholesale, for example on reset.
func (c *Controller) Release() {
	c.state, c.held, c.last = Idle, dynamo.None, r2.Vec{}
}
