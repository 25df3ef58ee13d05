package physics

import (
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultG is the gravitational constant in abstract simulation units.
const DefaultG = 1.0

// Gravity is the pairwise Newtonian force model. There is no softening:
// coincident bodies exert no force on each other.
type Gravity struct {
	G float64
}

func NewGravity(g float64) *Gravity {
	return &Gravity{G: g}
}

// Force returns the attraction exerted on a by b, directed from a toward b
// with magnitude G*ma*mb/d². Coincident bodies yield the zero vector.
func (g *Gravity) Force(a, b dynamo.Body) r2.Vec {
	r := r2.Sub(b.Pos, a.Pos)
	d := r2.Norm(r)
	if d == 0 {
		return r2.Vec{}
	}
	mag := g.G * (a.Mass * b.Mass) / (d * d)
	return r2.Scale(mag/d, r)
}

// NetForces returns the summed force on every body from all the others.
// Each pair is evaluated once and applied to both bodies with opposite
// sign, so the forces always sum to zero.
func (g *Gravity) NetForces(bodies dynamo.BodySet) []r2.Vec {
	forces := make([]r2.Vec, len(bodies))
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			f := g.Force(bodies[i], bodies[j])
			forces[i] = r2.Add(forces[i], f)
			forces[j] = r2.Sub(forces[j], f)
		}
	}
	return forces
}

// Energy returns kinetic plus gravitational potential energy. Coincident
// pairs contribute no potential, matching Force.
func (g *Gravity) Energy(bodies dynamo.BodySet) float64 {
	ke, pe := 0.0, 0.0
	for i, b := range bodies {
		ke += 0.5 * b.Mass * r2.Norm2(b.Vel)
		for j := i + 1; j < len(bodies); j++ {
			d := r2.Norm(r2.Sub(bodies[j].Pos, b.Pos))
			if d == 0 {
				continue
			}
			pe -= g.G * b.Mass * bodies[j].Mass / d
		}
	}
	return ke + pe
}

func Momentum(bodies dynamo.BodySet) r2.Vec {
	var p r2.Vec
	for _, b := range bodies {
		p = r2.Add(p, r2.Scale(b.Mass, b.Vel))
	}
	return p
}

func AngularMomentum(bodies dynamo.BodySet) float64 {
	L := 0.0
	for _, b := range bodies {
		L += b.Mass * (b.Pos.X*b.Vel.Y - b.Pos.Y*b.Vel.X)
	}
	return L
}

// CenterOfMass returns the mass-weighted mean position.
func CenterOfMass(bodies dynamo.BodySet) r2.Vec {
	var c r2.Vec
	total := 0.0
	for _, b := range bodies {
		c = r2.Add(c, r2.Scale(b.Mass, b.Pos))
		total += b.Mass
	}
	if total == 0 || math.IsInf(total, 0) {
		return r2.Vec{}
	}
	return r2.Scale(1/total, c)
}

// GetParams implements the parameter panel contract used by the TUI.
func (g *Gravity) GetParams() map[string]float64 {
	return map[string]float64{"g": g.G}
}

func (g *Gravity) SetParam(name string, value float64) {
	if name == "g" {
		g.G = value
	}
}
