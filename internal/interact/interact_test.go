package interact_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/interact"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/view"
	"gonum.org/v1/gonum/spatial/r2"
)

var _ = Describe("Controller", func() {
	var (
		bodies dynamo.BodySet
		ctrl   *interact.Controller
		tr     view.Transform
	)

	BeforeEach(func() {
		bodies = dynamo.BodySet{
			{Mass: 10, Pos: r2.Vec{X: 200, Y: 300}, Vel: r2.Vec{X: 0.3, Y: -0.2}},
			{Mass: 20, Pos: r2.Vec{X: 400, Y: 300}, Vel: r2.Vec{X: -0.3, Y: 0.2}},
			{Mass: 30, Pos: r2.Vec{X: 300, Y: 500}, Vel: r2.Vec{X: 0.1, Y: -0.4}},
		}
		ctrl = interact.New(bodies, interact.DefaultDragRadius)

		var err error
		tr, err = view.NewMapper(view.DefaultMargin).Recompute(bodies, 1200, 800)
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts idle with nothing held", func() {
		Expect(ctrl.State()).To(Equal(interact.Idle))
		Expect(ctrl.Held()).To(Equal(dynamo.None))
	})

	Describe("PointerDown", func() {
		It("grabs the body under the pointer", func() {
			at := tr.ToDisplay(r2.Vec{X: 410, Y: 305})
			Expect(ctrl.PointerDown(tr, at)).To(BeTrue())
			Expect(ctrl.State()).To(Equal(interact.Dragging))
			Expect(ctrl.Held()).To(Equal(1))
		})

		It("does not claim a point outside every drag radius", func() {
			at := tr.ToDisplay(r2.Vec{X: 300, Y: 380})
			Expect(ctrl.PointerDown(tr, at)).To(BeFalse())
			Expect(ctrl.State()).To(Equal(interact.Idle))
			Expect(ctrl.Held()).To(Equal(dynamo.None))
		})

		It("treats the radius as exclusive", func() {
			at := tr.ToDisplay(r2.Vec{X: 200, Y: 300 + interact.DefaultDragRadius + 1e-9})
			Expect(ctrl.PointerDown(tr, at)).To(BeFalse())
		})

		It("picks the lowest index when several bodies qualify", func() {
			bodies[1].Pos = r2.Vec{X: 230, Y: 300}
			// closer to body 1, but body 0 is also within range
			Expect(ctrl.Pick(r2.Vec{X: 225, Y: 300})).To(Equal(0))
		})
	})

	Describe("PointerMove", func() {
		It("is ignored while idle", func() {
			before := bodies.Clone()
			Expect(ctrl.PointerMove(tr, r2.Vec{X: 10, Y: 10})).To(BeFalse())
			Expect(bodies).To(Equal(before))
		})

		It("moves the held body by the pointer delta", func() {
			start := r2.Vec{X: 205, Y: 295}
			Expect(ctrl.PointerDown(tr, tr.ToDisplay(start))).To(BeTrue())

			Expect(ctrl.PointerMove(tr, tr.ToDisplay(r2.Vec{X: 225, Y: 285}))).To(BeTrue())
			Expect(bodies[0].Pos.X).To(BeNumerically("~", 220, 1e-9))
			Expect(bodies[0].Pos.Y).To(BeNumerically("~", 290, 1e-9))

			Expect(ctrl.PointerMove(tr, tr.ToDisplay(r2.Vec{X: 215, Y: 285}))).To(BeTrue())
			Expect(bodies[0].Pos.X).To(BeNumerically("~", 210, 1e-9))
			Expect(bodies[0].Vel).To(Equal(r2.Vec{X: 0.3, Y: -0.2}))
		})
	})

	Describe("PointerUp", func() {
		It("is ignored while idle", func() {
			Expect(ctrl.PointerUp()).To(BeFalse())
		})

		It("zeroes the held body's velocity and returns to idle", func() {
			Expect(ctrl.PointerDown(tr, tr.ToDisplay(bodies[2].Pos))).To(BeTrue())
			Expect(ctrl.PointerMove(tr, tr.ToDisplay(r2.Vec{X: 320, Y: 520}))).To(BeTrue())

			Expect(ctrl.PointerUp()).To(BeTrue())
			Expect(bodies[2].Vel).To(Equal(r2.Vec{}))
			Expect(bodies[0].Vel).To(Equal(r2.Vec{X: 0.3, Y: -0.2}))
			Expect(ctrl.State()).To(Equal(interact.Idle))
			Expect(ctrl.Held()).To(Equal(dynamo.None))
		})
	})

	Context("with the integrator", func() {
		It("freezes every body while one is held", func() {
			integ := integrators.NewEuler(physics.NewGravity(1))
			Expect(ctrl.PointerDown(tr, tr.ToDisplay(bodies[1].Pos))).To(BeTrue())
			before := bodies.Clone()

			integ.Step(bodies, 1, ctrl.Held())
			Expect(bodies).To(Equal(before))

			Expect(ctrl.PointerMove(tr, tr.ToDisplay(r2.Vec{X: 410, Y: 300}))).To(BeTrue())
			integ.Step(bodies, 1, ctrl.Held())
			Expect(bodies[0]).To(Equal(before[0]))
			Expect(bodies[2]).To(Equal(before[2]))
			Expect(bodies[1].Pos.X).To(BeNumerically("~", 410, 1e-9))
			Expect(bodies[1].Vel).To(Equal(before[1].Vel))
		})
	})
})
