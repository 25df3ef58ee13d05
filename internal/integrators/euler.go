package integrators

import (
	"github.com/san-kum/threebody/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Euler is the fixed-step semi-implicit Euler integrator: the velocity is
// updated first and the new velocity moves the position.
type Euler struct {
	forces dynamo.ForceModel
}

func NewEuler(forces dynamo.ForceModel) *Euler {
	return &Euler{forces: forces}
}

// Step advances every body by dt. While a body is excluded the whole
// system is frozen: the held body is moved only by pointer input and the
// others wait for the release.
func (e *Euler) Step(bodies dynamo.BodySet, dt float64, excluded int) {
	if excluded != dynamo.None {
		return
	}

	forces := e.forces.NetForces(bodies)
	for i := range bodies {
		b := &bodies[i]
		acc := r2.Scale(1/b.Mass, forces[i])
		b.Vel = r2.Add(b.Vel, r2.Scale(dt, acc))
		b.Pos = r2.Add(b.Pos, r2.Scale(dt, b.Vel))
	}
}
