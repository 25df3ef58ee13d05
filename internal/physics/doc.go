// Package physics provides the gravitational force model.
//
// [Gravity] computes the pairwise Newtonian attraction between two
// [dynamo.Body] values and derived quantities used for diagnostics:
//
//   - [Gravity.NetForces]: summed force per body
//   - [Gravity.Energy]: kinetic plus potential energy
//   - [Momentum], [AngularMomentum], [CenterOfMass]
//
// Newton's third law holds exactly: Force(a, b) == -Force(b, a), and the
// net forces over a body set sum to zero up to rounding.
//
//	g := physics.NewGravity(physics.DefaultG)
//	f := g.Force(bodies[0], bodies[1])
package physics
