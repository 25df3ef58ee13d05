package config

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/san-kum/threebody/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultG              = 1.0
	DefaultDt             = 1.0
	DefaultTickRate       = 60
	DefaultDragRadius     = 40.0
	DefaultBodyRadius     = 20.0
	DefaultTracePointSize = 4.0
	DefaultMargin         = 0.3
	DefaultWindowWidth    = 2400
	DefaultWindowHeight   = 1080
	DefaultSteps          = 3000
)

type Config struct {
	Preset         string       `yaml:"preset,omitempty"`
	G              float64      `yaml:"g"`
	Dt             float64      `yaml:"dt"`
	TickRate       int          `yaml:"tick_rate"`
	DragRadius     float64      `yaml:"drag_radius"`
	BodyRadius     float64      `yaml:"body_radius"`
	TracePointSize float64      `yaml:"trace_point_size"`
	Margin         float64      `yaml:"margin"`
	TraceLimit     int          `yaml:"trace_limit"`
	Seed           int64        `yaml:"seed"`
	Steps          int          `yaml:"steps"`
	Window         WindowConfig `yaml:"window"`
	Bodies         []BodyConfig `yaml:"bodies"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BodyConfig describes one body's initial conditions. A non-zero Spread
// places the body uniformly at random in a box of that size centred on
// Position.
type BodyConfig struct {
	Mass     float64    `yaml:"mass"`
	Position [2]float64 `yaml:"position,flow"`
	Velocity [2]float64 `yaml:"velocity,flow"`
	Spread   [2]float64 `yaml:"spread,flow"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:         "reference",
		G:              DefaultG,
		Dt:             DefaultDt,
		TickRate:       DefaultTickRate,
		DragRadius:     DefaultDragRadius,
		BodyRadius:     DefaultBodyRadius,
		TracePointSize: DefaultTracePointSize,
		Margin:         DefaultMargin,
		Steps:          DefaultSteps,
		Window:         WindowConfig{Width: DefaultWindowWidth, Height: DefaultWindowHeight},
		Bodies:         referenceBodies(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the simulation cannot run. It fails fast
// on the first problem found.
func (c *Config) Validate() error {
	if len(c.Bodies) == 0 {
		return dynamo.ErrNoBodies
	}
	for i, b := range c.Bodies {
		if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
			return fmt.Errorf("body %d: mass %v: %w", i, b.Mass, dynamo.ErrInvalidMass)
		}
		if b.Spread[0] < 0 || b.Spread[1] < 0 {
			return fmt.Errorf("body %d: spread %v: %w", i, b.Spread, dynamo.ErrParameterBounds)
		}
	}

	checks := []struct {
		name string
		ok   bool
		val  any
	}{
		{"g", !math.IsNaN(c.G) && !math.IsInf(c.G, 0), c.G},
		{"dt", c.Dt > 0 && !math.IsInf(c.Dt, 0), c.Dt},
		{"tick_rate", c.TickRate > 0, c.TickRate},
		{"drag_radius", c.DragRadius > 0, c.DragRadius},
		{"body_radius", c.BodyRadius > 0, c.BodyRadius},
		{"trace_point_size", c.TracePointSize > 0, c.TracePointSize},
		{"margin", c.Margin >= 0 && !math.IsInf(c.Margin, 0), c.Margin},
		{"trace_limit", c.TraceLimit >= 0, c.TraceLimit},
		{"steps", c.Steps >= 0, c.Steps},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%s = %v: %w", chk.name, chk.val, dynamo.ErrParameterBounds)
		}
	}
	return nil
}

// BodySet materializes the initial bodies. rng is only consulted for
// bodies with a non-zero spread.
func (c *Config) BodySet(rng *rand.Rand) (dynamo.BodySet, error) {
	bodies := make([]dynamo.Body, len(c.Bodies))
	for i, b := range c.Bodies {
		pos := r2.Vec{X: b.Position[0], Y: b.Position[1]}
		if b.Spread != [2]float64{} && rng != nil {
			pos.X += (rng.Float64() - 0.5) * b.Spread[0]
			pos.Y += (rng.Float64() - 0.5) * b.Spread[1]
		}
		bodies[i] = dynamo.Body{
			Mass: b.Mass,
			Pos:  pos,
			Vel:  r2.Vec{X: b.Velocity[0], Y: b.Velocity[1]},
		}
	}
	return dynamo.NewBodySet(bodies...)
}
