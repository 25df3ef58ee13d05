package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/sim"
)

func (a *App) DrawHUD(f sim.Frame) {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

	rl.DrawText("threebody", 30, 30, 24, ColSelect)

	status, col := "RUNNING", ColSelect
	switch {
	case f.Held != dynamo.None:
		status, col = fmt.Sprintf("DRAGGING %d", f.Held), ColAccent
	case !a.running:
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, w-160, 30, 16, col)

	y := int32(70)
	rl.DrawText(fmt.Sprintf("t %.1f  step %d", f.Time, f.Step), 30, y, 14, ColText)
	if g := a.loop.Gravity(); g != nil {
		y += 20
		rl.DrawText(fmt.Sprintf("G %.3f", g.G), 30, y, 14, ColText)
	}
	for i, b := range a.loop.Bodies() {
		y += 20
		rl.DrawCircle(36, y+7, 5, f.Bodies[i].Color)
		rl.DrawText(fmt.Sprintf("m=%.4g", b.Mass), 48, y, 14, ColText)
	}

	a.DrawTelemetry(30, h-100, 400, 60)

	rl.DrawText("[SPACE] PAUSE  [R] RESET  [UP/DOWN] G  [Q] QUIT", w-460, h-30, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, h-30, 14, ColTextDim)
}

// DrawTelemetry plots the energy history as a line strip in the given box.
func (a *App) DrawTelemetry(x, y, width, height int32) {
	if len(a.telemetry) < 2 {
		return
	}

	minVal, maxVal := a.telemetry[0], a.telemetry[0]
	for _, v := range a.telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.telemetry))
	for i, val := range a.telemetry {
		px := float32(x) + (float32(i)/float32(len(a.telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(y+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("E: %.2e", a.telemetry[len(a.telemetry)-1]), x+width+10, y+height-10, 14, ColText)
}
