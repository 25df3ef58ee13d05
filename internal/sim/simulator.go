package sim

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/interact"
	"github.com/san-kum/threebody/internal/metrics"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/trace"
	"github.com/san-kum/threebody/internal/view"
	"gonum.org/v1/gonum/spatial/r2"
)

// Loop orchestrates one simulation session: it steps the integrator,
// records traces, maps bodies to display space and routes pointer input
// to the drag controller. All methods must be called from one goroutine.
type Loop struct {
	bodies     dynamo.BodySet
	initial    dynamo.BodySet
	integrator dynamo.Integrator
	gravity    *physics.Gravity
	traces     *trace.Log
	mapper     *view.Mapper
	ctrl       *interact.Controller
	metrics    []dynamo.Metric
	opts       Options

	width, height float64
	t             float64
	steps         int
}

func New(bodies dynamo.BodySet, integ dynamo.Integrator, opts Options) (*Loop, error) {
	bodies, err := dynamo.NewBodySet(bodies...)
	if err != nil {
		return nil, err
	}
	if !(opts.Dt > 0) {
		return nil, fmt.Errorf("dt must be positive, got %f: %w", opts.Dt, dynamo.ErrParameterBounds)
	}
	if len(opts.Palette) == 0 {
		opts.Palette = DefaultPalette
	}

	return &Loop{
		bodies:     bodies,
		initial:    bodies.Clone(),
		integrator: integ,
		traces:     trace.New(len(bodies), opts.TraceLimit),
		mapper:     view.NewMapper(opts.Margin),
		ctrl:       interact.New(bodies, opts.DragRadius),
		metrics:    make([]dynamo.Metric, 0),
		opts:       opts,
	}, nil
}

// FromConfig builds a loop with Newtonian gravity, the semi-implicit Euler
// integrator and the default metrics. seed drives the start position
// jitter of bodies with a spread.
func FromConfig(cfg *config.Config, seed int64) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bodies, err := cfg.BodySet(rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	g := physics.NewGravity(cfg.G)
	l, err := New(bodies, integrators.NewEuler(g), Options{
		Dt:             cfg.Dt,
		DragRadius:     cfg.DragRadius,
		BodyRadius:     cfg.BodyRadius,
		TracePointSize: cfg.TracePointSize,
		TraceLimit:     cfg.TraceLimit,
		Margin:         cfg.Margin,
	})
	if err != nil {
		return nil, err
	}
	l.gravity = g
	for _, m := range metrics.Defaults(g, escapeRadius(bodies)) {
		l.AddMetric(m)
	}
	return l, nil
}

// escapeRadius is ten times the initial spread of the system.
func escapeRadius(bodies dynamo.BodySet) float64 {
	min, max := view.Bounds(bodies)
	return 10 * math.Max(r2.Norm(r2.Sub(max, min)), 1)
}

func (l *Loop) AddMetric(m dynamo.Metric) { l.metrics = append(l.metrics, m) }

// Bodies returns the live body set. Callers must not retain it across
// ticks or mutate it.
func (l *Loop) Bodies() dynamo.BodySet           { return l.bodies }
func (l *Loop) Traces() *trace.Log               { return l.traces }
func (l *Loop) Controller() *interact.Controller { return l.ctrl }
func (l *Loop) Gravity() *physics.Gravity        { return l.gravity }
func (l *Loop) Time() float64                    { return l.t }
func (l *Loop) Steps() int                       { return l.steps }
func (l *Loop) Options() Options                 { return l.opts }

// Resize records the current display surface size.
func (l *Loop) Resize(width, height float64) {
	l.width, l.height = width, height
}

// Tick advances one fixed step and returns the frame to draw. While a body
// is held the integrator leaves every body untouched and simulation time
// does not advance.
func (l *Loop) Tick() Frame {
	held := l.ctrl.Held()
	l.integrator.Step(l.bodies, l.opts.Dt, held)
	if held == dynamo.None {
		l.t += l.opts.Dt
	}
	l.steps++

	for i, b := range l.bodies {
		l.traces.Record(i, b.Pos)
	}
	for _, m := range l.metrics {
		m.Observe(l.bodies, l.t)
	}
	return l.Frame()
}

// Frame renders the current state without stepping.
func (l *Loop) Frame() Frame {
	tr := l.transform()
	f := Frame{
		Width:     l.width,
		Height:    l.height,
		Transform: tr,
		Bodies:    make([]BodySprite, len(l.bodies)),
		Traces:    make([]TracePoint, 0, l.traces.Total()),
		Held:      l.ctrl.Held(),
		Time:      l.t,
		Step:      l.steps,
	}

	for i, b := range l.bodies {
		c := l.color(i)
		f.Bodies[i] = BodySprite{Pos: tr.ToDisplay(b.Pos), Radius: l.opts.BodyRadius, Color: c}
		for _, p := range l.traces.Points(i) {
			f.Traces = append(f.Traces, TracePoint{Body: i, Pos: tr.ToDisplay(p), Size: l.opts.TracePointSize, Color: c})
		}
	}
	return f
}

// PointerDown reports whether the pointer grabbed a body.
func (l *Loop) PointerDown(pos r2.Vec) bool {
	return l.ctrl.PointerDown(l.transform(), pos)
}

func (l *Loop) PointerMove(pos r2.Vec) bool {
	return l.ctrl.PointerMove(l.transform(), pos)
}

func (l *Loop) PointerUp() bool {
	return l.ctrl.PointerUp()
}

// Reset restores the initial bodies, clears traces and metrics and drops
// any drag in progress.
func (l *Loop) Reset() {
	l.ctrl.Release()
	copy(l.bodies, l.initial)
	l.traces.Reset()
	for _, m := range l.metrics {
		m.Reset()
	}
	l.t, l.steps = 0, 0
}

// MetricValues returns the current value of every metric by name.
func (l *Loop) MetricValues() map[string]float64 {
	vals := make(map[string]float64, len(l.metrics))
	for _, m := range l.metrics {
		vals[m.Name()] = m.Value()
	}
	return vals
}

// Run drives the loop from ticker and draws every frame on surface until
// ctx is canceled.
func (l *Loop) Run(ctx context.Context, surface Surface, ticker Ticker) error {
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			l.Resize(surface.Size())
			f := l.Tick()
			surface.Clear()
			surface.Draw(f)
		}
	}
}

// Simulate runs steps ticks without a surface and collects every state.
// It stops early with dynamo.ErrUnstable when a body leaves the finite
// range; the partial result still carries the metrics.
func (l *Loop) Simulate(ctx context.Context, steps int) (*Result, error) {
	if steps < 0 {
		return nil, fmt.Errorf("steps must not be negative, got %d: %w", steps, dynamo.ErrParameterBounds)
	}

	result := &Result{
		States:  make([][]float64, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Masses:  l.bodies.Masses(),
		Metrics: make(map[string]float64),
	}
	result.States = append(result.States, l.bodies.Flatten(nil))
	result.Times = append(result.Times, l.t)
	defer func() {
		for k, v := range l.MetricValues() {
			result.Metrics[k] = v
		}
	}()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		l.Tick()
		if !l.bodies.IsValid() {
			return result, &dynamo.SimulationError{Step: i, Time: l.t, Wrapped: dynamo.ErrUnstable}
		}
		result.StepsTaken++
		result.States = append(result.States, l.bodies.Flatten(nil))
		result.Times = append(result.Times, l.t)
	}
	return result, nil
}

func (l *Loop) transform() view.Transform {
	// New rejects empty body sets, the only Recompute failure.
	tr, _ := l.mapper.Recompute(l.bodies, l.width, l.height)
	return tr
}

func (l *Loop) color(i int) color.RGBA {
	return l.opts.Palette[i%len(l.opts.Palette)]
}
