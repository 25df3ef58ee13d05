// Package export renders saved runs to standalone files.
package export

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/san-kum/threebody/internal/view"
	"gonum.org/v1/gonum/spatial/r2"
)

// TracesFromStates splits flattened state rows into one position trace
// per body.
func TracesFromStates(states [][]float64, n int) [][]r2.Vec {
	traces := make([][]r2.Vec, n)
	for i := range traces {
		traces[i] = make([]r2.Vec, 0, len(states))
	}
	for _, row := range states {
		for i := 0; i < n && 4*i+1 < len(row); i++ {
			traces[i] = append(traces[i], r2.Vec{X: row[4*i], Y: row[4*i+1]})
		}
	}
	return traces
}

// TracesToSVG draws every trace as a polyline in its body's color and marks
// the final positions. The traces are fitted into the image the same way
// the live view fits bodies, flipped so y points up.
func TracesToSVG(traces [][]r2.Vec, width, height int, palette []color.RGBA) string {
	if len(traces) == 0 || len(palette) == 0 {
		return ""
	}

	min, max := view.PointBounds(traces...)
	tr := view.NewMapper(view.DefaultMargin).Fit(min, max, float64(width), float64(height))
	// split the margin evenly on both sides of the box
	extent := r2.Vec{X: math.Max(max.X-min.X, 1), Y: math.Max(max.Y-min.Y, 1)}
	tr.Origin = r2.Sub(min, r2.Scale(view.DefaultMargin/2, extent))

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, pts := range traces {
		if len(pts) == 0 {
			continue
		}
		hex := hexColor(palette[i%len(palette)])

		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, hex)
		for j, p := range pts {
			q := tr.ToDisplay(p)
			if j > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", q.X, float64(height)-q.Y)
		}
		sb.WriteString("\"/>\n")

		last := tr.ToDisplay(pts[len(pts)-1])
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, last.X, float64(height)-last.Y, hex)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
