package sim

import (
	"image/color"
	"time"

	"github.com/san-kum/threebody/internal/view"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultPalette colors bodies by index; it repeats for larger sets.
var DefaultPalette = []color.RGBA{
	{R: 255, A: 255},
	{G: 255, A: 255},
	{B: 255, A: 255},
	{R: 255, G: 255, A: 255},
	{R: 255, B: 255, A: 255},
	{G: 255, B: 255, A: 255},
}

// BodySprite is one body as the surface should draw it.
type BodySprite struct {
	Pos    r2.Vec
	Radius float64
	Color  color.RGBA
}

// TracePoint is one historical position as the surface should draw it.
type TracePoint struct {
	Body  int
	Pos   r2.Vec
	Size  float64
	Color color.RGBA
}

// Frame is the render state for one tick, in display space.
type Frame struct {
	Width, Height float64
	Transform     view.Transform
	Bodies        []BodySprite
	Traces        []TracePoint
	Held          int
	Time          float64
	Step          int
}

// Surface is the display collaborator. It is cleared and redrawn once per
// tick from the frame it is handed.
type Surface interface {
	Size() (width, height float64)
	Clear()
	Draw(f Frame)
}

// Ticker delivers ticks at a nominal fixed rate. The loop steps by the
// configured dt per tick regardless of the real interval.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

// NewTicker returns a wall-clock ticker firing rate times per second.
func NewTicker(rate int) Ticker {
	if rate <= 0 {
		rate = 60
	}
	return &timeTicker{t: time.NewTicker(time.Second / time.Duration(rate))}
}

func (t *timeTicker) C() <-chan time.Time { return t.t.C }
func (t *timeTicker) Stop()               { t.t.Stop() }

// Options are the fixed constants of a loop.
type Options struct {
	Dt             float64
	DragRadius     float64
	BodyRadius     float64
	TracePointSize float64
	TraceLimit     int
	Margin         float64
	Palette        []color.RGBA
}

// Result collects a headless run. States rows are laid out as
// dynamo.BodySet.Flatten produces them.
type Result struct {
	States     [][]float64
	Times      []float64
	Masses     []float64
	Metrics    map[string]float64
	StepsTaken int
}
