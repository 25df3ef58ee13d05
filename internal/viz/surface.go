package viz

import (
	"math"

	"github.com/san-kum/threebody/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

// DotSize is the width of one braille dot in display units. With the
// default body radius of 20 a body is drawn four dots wide.
const DotSize = 5.0

// Surface draws frames onto a braille canvas. Display space is y-up with
// the origin at the bottom-left dot; the canvas is y-down, so every
// mapping flips y.
type Surface struct {
	canvas *Canvas
	dot    float64
}

func NewSurface(cols, rows int) *Surface {
	return &Surface{canvas: NewCanvas(cols, rows), dot: DotSize}
}

func (s *Surface) Canvas() *Canvas { return s.canvas }

// Resize replaces the canvas with one of cols by rows cells.
func (s *Surface) Resize(cols, rows int) {
	if cols == s.canvas.Width && rows == s.canvas.Height {
		return
	}
	s.canvas = NewCanvas(cols, rows)
}

func (s *Surface) Size() (width, height float64) {
	return float64(s.canvas.SubWidth()) * s.dot, float64(s.canvas.SubHeight()) * s.dot
}

func (s *Surface) Clear() { s.canvas.Clear() }

// Draw paints traces first so bodies stay on top.
func (s *Surface) Draw(f sim.Frame) {
	for _, p := range f.Traces {
		x, y := s.toDot(p.Pos)
		s.canvas.DrawDisc(x, y, s.dots(p.Size/2), p.Color)
	}
	for _, b := range f.Bodies {
		x, y := s.toDot(b.Pos)
		s.canvas.DrawDisc(x, y, s.dots(b.Radius), b.Color)
	}
}

// CellToDisplay maps a terminal cell of the canvas to the display-space
// point at the cell's centre.
func (s *Surface) CellToDisplay(col, row int) r2.Vec {
	dx := col*2 + 1
	dy := row*4 + 2
	return r2.Vec{
		X: float64(dx) * s.dot,
		Y: (float64(s.canvas.SubHeight()-1-dy) + 0.5) * s.dot,
	}
}

func (s *Surface) toDot(p r2.Vec) (x, y int) {
	x = int(math.Floor(p.X / s.dot))
	y = s.canvas.SubHeight() - 1 - int(math.Floor(p.Y/s.dot))
	return x, y
}

func (s *Surface) dots(d float64) int {
	return int(math.Round(d / s.dot))
}
