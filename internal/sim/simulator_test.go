package sim_test

import (
	"context"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/view"
	"gonum.org/v1/gonum/spatial/r2"
)

type fakeSurface struct {
	w, h   float64
	clears int
	frames []sim.Frame
	onDraw func(n int)
}

func (s *fakeSurface) Size() (float64, float64) { return s.w, s.h }
func (s *fakeSurface) Clear()                   { s.clears++ }
func (s *fakeSurface) Draw(f sim.Frame) {
	s.frames = append(s.frames, f)
	if s.onDraw != nil {
		s.onDraw(len(s.frames))
	}
}

type fakeTicker struct {
	c       chan time.Time
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }
func (t *fakeTicker) Stop()               { t.stopped = true }

type nanIntegrator struct{}

func (nanIntegrator) Step(bodies dynamo.BodySet, dt float64, excluded int) {
	bodies[0].Pos.X = math.NaN()
}

func defaultOptions() sim.Options {
	return sim.Options{
		Dt:             1,
		DragRadius:     40,
		BodyRadius:     20,
		TracePointSize: 4,
		Margin:         0.3,
	}
}

var _ = Describe("Loop", func() {
	var (
		loop    *sim.Loop
		initial dynamo.BodySet
	)

	BeforeEach(func() {
		// the fourth body sits inside the bounding box so dragging it a
		// little leaves the transform unchanged
		initial = dynamo.BodySet{
			{Mass: 10, Pos: r2.Vec{X: 200, Y: 300}, Vel: r2.Vec{X: 0.3, Y: -0.2}},
			{Mass: 20, Pos: r2.Vec{X: 400, Y: 300}, Vel: r2.Vec{X: -0.3, Y: 0.2}},
			{Mass: 30, Pos: r2.Vec{X: 300, Y: 500}, Vel: r2.Vec{X: 0.1, Y: -0.4}},
			{Mass: 5, Pos: r2.Vec{X: 300, Y: 400}, Vel: r2.Vec{X: 0.2, Y: 0.1}},
		}
		var err error
		loop, err = sim.New(initial, integrators.NewEuler(physics.NewGravity(1)), defaultOptions())
		Expect(err).NotTo(HaveOccurred())
		loop.Resize(1200, 800)
	})

	Describe("New", func() {
		It("copies the initial bodies", func() {
			initial[0].Mass = 99
			Expect(loop.Bodies()[0].Mass).To(Equal(10.0))
		})

		It("rejects a non-positive dt", func() {
			opts := defaultOptions()
			opts.Dt = 0
			_, err := sim.New(initial, integrators.NewEuler(physics.NewGravity(1)), opts)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects an empty body set", func() {
			_, err := sim.New(nil, integrators.NewEuler(physics.NewGravity(1)), defaultOptions())
			Expect(err).To(MatchError(dynamo.ErrNoBodies))
		})
	})

	Describe("Tick", func() {
		It("steps every body and advances time", func() {
			before := loop.Bodies().Clone()
			f := loop.Tick()

			Expect(loop.Time()).To(Equal(1.0))
			Expect(loop.Steps()).To(Equal(1))
			Expect(f.Step).To(Equal(1))
			for i := range before {
				Expect(loop.Bodies()[i].Pos).NotTo(Equal(before[i].Pos))
			}
		})

		It("records one trace point per body per tick", func() {
			loop.Tick()
			f := loop.Tick()

			for i := range loop.Bodies() {
				Expect(loop.Traces().Len(i)).To(Equal(2))
				Expect(loop.Traces().Points(i)[1]).To(Equal(loop.Bodies()[i].Pos))
			}
			Expect(f.Traces).To(HaveLen(2 * len(loop.Bodies())))
		})

		It("maps bodies through a transform computed from the current positions", func() {
			f := loop.Tick()

			want, err := view.NewMapper(0.3).Recompute(loop.Bodies(), 1200, 800)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Transform).To(Equal(want))
			Expect(f.Width).To(Equal(1200.0))
			for i, b := range loop.Bodies() {
				Expect(f.Bodies[i].Pos).To(Equal(want.ToDisplay(b.Pos)))
				Expect(f.Bodies[i].Radius).To(Equal(20.0))
				Expect(f.Bodies[i].Color).To(Equal(sim.DefaultPalette[i]))
			}
			for _, p := range f.Traces {
				Expect(p.Size).To(Equal(4.0))
				Expect(p.Color).To(Equal(sim.DefaultPalette[p.Body]))
			}
		})

		It("keeps the bounding box inside the surface", func() {
			f := loop.Tick()
			for _, b := range f.Bodies {
				Expect(b.Pos.X).To(BeNumerically(">=", 0))
				Expect(b.Pos.Y).To(BeNumerically(">=", 0))
				Expect(b.Pos.X).To(BeNumerically("<=", 1200))
				Expect(b.Pos.Y).To(BeNumerically("<=", 800))
			}
		})
	})

	Describe("pointer input", func() {
		var f sim.Frame

		BeforeEach(func() {
			f = loop.Frame()
		})

		It("claims a press on a body and ignores one on empty space", func() {
			Expect(loop.PointerDown(r2.Vec{X: 1100, Y: 50})).To(BeFalse())
			Expect(loop.Controller().Held()).To(Equal(dynamo.None))

			Expect(loop.PointerDown(f.Bodies[3].Pos)).To(BeTrue())
			Expect(loop.Controller().Held()).To(Equal(3))
			Expect(f.Held).To(Equal(dynamo.None))
			Expect(loop.Frame().Held).To(Equal(3))
		})

		It("freezes the simulation while a body is held", func() {
			Expect(loop.PointerDown(f.Bodies[3].Pos)).To(BeTrue())
			before := loop.Bodies().Clone()

			loop.Tick()
			loop.Tick()
			Expect(loop.Bodies()).To(Equal(before))
			Expect(loop.Time()).To(Equal(0.0))
			Expect(loop.Steps()).To(Equal(2))
			Expect(loop.Traces().Len(0)).To(Equal(2))
		})

		It("moves only the held body by the pointer delta", func() {
			Expect(loop.PointerDown(f.Bodies[3].Pos)).To(BeTrue())
			before := loop.Bodies().Clone()

			to := r2.Add(f.Bodies[3].Pos, r2.Vec{X: 12, Y: -6})
			Expect(loop.PointerMove(to)).To(BeTrue())
			loop.Tick()

			got := loop.Bodies()
			want := r2.Add(before[3].Pos, r2.Scale(1/f.Transform.Scale, r2.Vec{X: 12, Y: -6}))
			Expect(got[3].Pos.X).To(BeNumerically("~", want.X, 1e-9))
			Expect(got[3].Pos.Y).To(BeNumerically("~", want.Y, 1e-9))
			Expect(got[3].Vel).To(Equal(before[3].Vel))
			for i := 0; i < 3; i++ {
				Expect(got[i]).To(Equal(before[i]))
			}
		})

		It("zeroes the velocity on release and resumes physics", func() {
			Expect(loop.PointerMove(f.Bodies[3].Pos)).To(BeFalse())
			Expect(loop.PointerUp()).To(BeFalse())

			Expect(loop.PointerDown(f.Bodies[3].Pos)).To(BeTrue())
			Expect(loop.PointerUp()).To(BeTrue())
			Expect(loop.Bodies()[3].Vel).To(Equal(r2.Vec{}))
			Expect(loop.Controller().Held()).To(Equal(dynamo.None))

			loop.Tick()
			Expect(loop.Time()).To(Equal(1.0))
		})
	})

	Describe("Reset", func() {
		It("restores the initial state", func() {
			f := loop.Tick()
			Expect(loop.PointerDown(f.Bodies[0].Pos)).To(BeTrue())
			loop.Tick()

			loop.Reset()
			Expect(loop.Bodies()).To(Equal(initial))
			Expect(loop.Traces().Total()).To(BeZero())
			Expect(loop.Controller().Held()).To(Equal(dynamo.None))
			Expect(loop.Time()).To(BeZero())
			Expect(loop.Steps()).To(BeZero())
		})
	})

	Describe("Run", func() {
		It("draws one frame per tick until canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			ticker := &fakeTicker{c: make(chan time.Time, 3)}
			for i := 0; i < 3; i++ {
				ticker.c <- time.Now()
			}
			surface := &fakeSurface{w: 640, h: 480, onDraw: func(n int) {
				if n == 3 {
					cancel()
				}
			}}

			err := loop.Run(ctx, surface, ticker)
			Expect(err).To(MatchError(context.Canceled))
			Expect(surface.frames).To(HaveLen(3))
			Expect(surface.clears).To(Equal(3))
			Expect(surface.frames[2].Step).To(Equal(3))
			Expect(surface.frames[2].Width).To(Equal(640.0))
			Expect(ticker.stopped).To(BeTrue())
		})
	})

	Describe("Simulate", func() {
		It("collects the initial state and one row per step", func() {
			res, err := loop.Simulate(context.Background(), 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(5))
			Expect(res.States).To(HaveLen(6))
			Expect(res.Times).To(Equal([]float64{0, 1, 2, 3, 4, 5}))
			Expect(res.States[0]).To(Equal(initial.Flatten(nil)))
			Expect(res.Masses).To(Equal([]float64{10, 20, 30, 5}))
		})

		It("stops with ErrUnstable when the state diverges", func() {
			l, err := sim.New(initial, nanIntegrator{}, defaultOptions())
			Expect(err).NotTo(HaveOccurred())

			res, err := l.Simulate(context.Background(), 10)
			Expect(err).To(MatchError(dynamo.ErrUnstable))
			var simErr *dynamo.SimulationError
			Expect(err).To(BeAssignableToTypeOf(simErr))
			Expect(res.StepsTaken).To(BeZero())
		})

		It("honours cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := loop.Simulate(ctx, 10)
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})

var _ = Describe("FromConfig", func() {
	It("wires gravity and the default metrics", func() {
		cfg := config.DefaultConfig()
		l, err := sim.FromConfig(cfg, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(l.Bodies()).To(HaveLen(3))
		Expect(l.Gravity().G).To(Equal(1.0))

		res, err := l.Simulate(context.Background(), 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics).To(HaveKey("energy"))
		Expect(res.Metrics).To(HaveKey("energy_drift"))
		Expect(res.Metrics).To(HaveKey("momentum_drift"))
		Expect(res.Metrics).To(HaveKey("stability"))
	})

	It("rejects a configuration without bodies", func() {
		cfg := config.DefaultConfig()
		cfg.Bodies = nil
		_, err := sim.FromConfig(cfg, 1)
		Expect(err).To(MatchError(dynamo.ErrNoBodies))
	})

	It("jitters start positions by seed", func() {
		a, err := sim.FromConfig(config.DefaultConfig(), 1)
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.FromConfig(config.DefaultConfig(), 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Bodies()[0].Pos).NotTo(Equal(b.Bodies()[0].Pos))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one simulation per seed", func() {
		factory := func(seed int64) (*sim.Loop, error) {
			return sim.FromConfig(config.DefaultConfig(), seed)
		}
		results, err := sim.NewEnsemble(factory, 4, 10).Run(context.Background(), 20)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))
		for _, r := range results {
			Expect(r.States).To(HaveLen(21))
		}
		Expect(results[0].States[0]).NotTo(Equal(results[1].States[0]))
	})

	It("reports the first failure", func() {
		factory := func(seed int64) (*sim.Loop, error) {
			cfg := config.DefaultConfig()
			if seed == 2 {
				cfg.Dt = -1
			}
			return sim.FromConfig(cfg, seed)
		}
		_, err := sim.NewEnsemble(factory, 3, 0).Run(context.Background(), 5)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})
})
