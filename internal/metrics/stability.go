package metrics

import (
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Stability is the fraction of observed ticks in which every body stayed
// within threshold of the center of mass. Ejections pull it below 1.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(bodies dynamo.BodySet, t float64) {
	s.samples++
	com := physics.CenterOfMass(bodies)
	for _, b := range bodies {
		if r2.Norm(r2.Sub(b.Pos, com)) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Defaults returns the metrics recorded for every run.
func Defaults(g *physics.Gravity, escapeRadius float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(g),
		NewEnergyDrift(g),
		NewMomentumDrift(),
		NewStability(escapeRadius),
	}
}
