// Package dynamo provides the core data types shared by the simulation.
//
// The package defines the state every other package operates on:
//
//   - [Body]: a point mass with position and velocity
//   - [BodySet]: the ordered, fixed-size collection of bodies
//   - [SimulationError]: an error annotated with step and time
//
// Vectors are [r2.Vec] values from gonum's spatial/r2 package.
//
// # Ownership
//
// A BodySet is owned by exactly one mutator. The integrator, the
// interaction controller and the trace recorder all run on the goroutine
// that drives the simulation tick, so none of these types lock. A
// renderer that reads bodies from another goroutine must copy them with
// [BodySet.Clone] on the tick goroutine first.
package dynamo
