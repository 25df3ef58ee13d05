package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// None is the body index used when no body is selected.
const None = -1

// Body is a point mass in simulation space.
type Body struct {
	Mass float64
	Pos  r2.Vec
	Vel  r2.Vec
}

// NewBody returns a body, rejecting masses that are not strictly positive.
func NewBody(mass float64, pos, vel r2.Vec) (Body, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return Body{}, fmt.Errorf("mass %v: %w", mass, ErrInvalidMass)
	}
	return Body{Mass: mass, Pos: pos, Vel: vel}, nil
}

func (b Body) IsValid() bool {
	for _, v := range [...]float64{b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// BodySet is the ordered collection of bodies. Index order is stable for the
// lifetime of a session and correlates bodies with colors and traces.
type BodySet []Body

// NewBodySet validates bodies and returns them as a set. The slice is
// copied so the caller keeps its own initial conditions.
func NewBodySet(bodies ...Body) (BodySet, error) {
	if len(bodies) == 0 {
		return nil, ErrNoBodies
	}
	for i, b := range bodies {
		if _, err := NewBody(b.Mass, b.Pos, b.Vel); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
	}
	s := make(BodySet, len(bodies))
	copy(s, bodies)
	return s, nil
}

func (s BodySet) Clone() BodySet {
	c := make(BodySet, len(s))
	copy(c, s)
	return c
}

func (s BodySet) IsValid() bool {
	for _, b := range s {
		if !b.IsValid() {
			return false
		}
	}
	return true
}

// Contains reports whether i addresses a body in the set.
func (s BodySet) Contains(i int) bool {
	return i >= 0 && i < len(s)
}

// Flatten appends [x, y, vx, vy] for every body to dst. This is the row
// layout used by stored runs.
func (s BodySet) Flatten(dst []float64) []float64 {
	for _, b := range s {
		dst = append(dst, b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y)
	}
	return dst
}

// Unflatten is the inverse of Flatten for a row of n bodies. Masses are
// not part of the row and are taken from masses.
func Unflatten(row []float64, masses []float64) (BodySet, error) {
	if len(row) != len(masses)*4 {
		return nil, fmt.Errorf("row of %d values for %d bodies: %w", len(row), len(masses), ErrParameterBounds)
	}
	s := make(BodySet, len(masses))
	for i := range s {
		s[i] = Body{
			Mass: masses[i],
			Pos:  r2.Vec{X: row[i*4], Y: row[i*4+1]},
			Vel:  r2.Vec{X: row[i*4+2], Y: row[i*4+3]},
		}
	}
	return s, nil
}

// Positions returns the position of every body in index order.
func (s BodySet) Positions() []r2.Vec {
	ps := make([]r2.Vec, len(s))
	for i, b := range s {
		ps[i] = b.Pos
	}
	return ps
}

// Masses returns the mass of every body in index order.
func (s BodySet) Masses() []float64 {
	ms := make([]float64, len(s))
	for i, b := range s {
		ms[i] = b.Mass
	}
	return ms
}

// ForceModel computes the net force acting on every body.
type ForceModel interface {
	NetForces(bodies BodySet) []r2.Vec
}

// Integrator advances bodies by one step of dt. The body at excluded, if
// any, is held by the user and suspends physics for the step.
type Integrator interface {
	Step(bodies BodySet, dt float64, excluded int)
}

// Metric observes the body set after every tick.
type Metric interface {
	Name() string
	Observe(bodies BodySet, t float64)
	Value() float64
	Reset()
}
