// Package view maps between simulation space and display space.
//
// Display space is the surface's coordinate system: origin at the bottom
// left, y pointing up, units of surface pixels (or whatever the surface
// measures in). A [Transform] is derived from the current body positions
// every frame and must not be reused after the bodies move.
package view

import (
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// DefaultMargin widens the bounding box so bodies stay off the edge.
	DefaultMargin = 0.3

	minExtent = 1.0
	minSize   = 1.0
)

// Transform is a uniform scale about an origin. The same scale applies to
// both axes so the aspect ratio of the simulation is preserved.
type Transform struct {
	Scale  float64
	Origin r2.Vec
}

// ToDisplay maps a simulation-space point to display space.
func (t Transform) ToDisplay(p r2.Vec) r2.Vec {
	return r2.Scale(t.Scale, r2.Sub(p, t.Origin))
}

// ToSimulation maps a display-space point to simulation space. It is the
// exact inverse of ToDisplay for the same transform.
func (t Transform) ToSimulation(q r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(1/t.Scale, q), t.Origin)
}

// Length converts a simulation-space distance to display units.
func (t Transform) Length(d float64) float64 {
	return d * t.Scale
}

// Mapper computes transforms for a fixed margin factor.
type Mapper struct {
	Margin float64
}

func NewMapper(margin float64) *Mapper {
	return &Mapper{Margin: margin}
}

// Recompute fits the bounding box of bodies, widened by the margin, into a
// surface of width by height. Axis extents below 1 are raised to 1 and
// surface sizes below 1 are treated as 1, so the scale is always finite
// and positive.
func (m *Mapper) Recompute(bodies dynamo.BodySet, width, height float64) (Transform, error) {
	if len(bodies) == 0 {
		return Transform{}, dynamo.ErrNoBodies
	}

	min, max := Bounds(bodies)
	return m.Fit(min, max, width, height), nil
}

// Fit maps the box [min, max] into a surface of width by height with the
// same rules as Recompute.
func (m *Mapper) Fit(min, max r2.Vec, width, height float64) Transform {
	xRange := math.Max(max.X-min.X, minExtent) * (1 + m.Margin)
	yRange := math.Max(max.Y-min.Y, minExtent) * (1 + m.Margin)

	width = clampSize(width)
	height = clampSize(height)

	return Transform{
		Scale:  math.Min(width/xRange, height/yRange),
		Origin: min,
	}
}

// Bounds returns the axis-aligned bounding box of the body positions.
func Bounds(bodies dynamo.BodySet) (min, max r2.Vec) {
	if len(bodies) == 0 {
		return r2.Vec{}, r2.Vec{}
	}
	min, max = bodies[0].Pos, bodies[0].Pos
	for _, b := range bodies[1:] {
		min.X = math.Min(min.X, b.Pos.X)
		min.Y = math.Min(min.Y, b.Pos.Y)
		max.X = math.Max(max.X, b.Pos.X)
		max.Y = math.Max(max.Y, b.Pos.Y)
	}
	return min, max
}

// PointBounds returns the axis-aligned bounding box of a set of traces.
func PointBounds(traces ...[]r2.Vec) (min, max r2.Vec) {
	first := true
	for _, pts := range traces {
		for _, p := range pts {
			if first {
				min, max, first = p, p, false
				continue
			}
			min.X = math.Min(min.X, p.X)
			min.Y = math.Min(min.Y, p.Y)
			max.X = math.Max(max.X, p.X)
			max.Y = math.Max(max.Y, p.Y)
		}
	}
	return min, max
}

func clampSize(v float64) float64 {
	if !(v >= minSize) {
		return minSize
	}
	return v
}
