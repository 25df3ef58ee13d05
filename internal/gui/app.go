// Package gui is the desktop window surface, drawn with raylib.
package gui

import (
	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/threebody/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

// HUD colors. Bodies keep their palette colors.
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
)

const telemetryCapacity = 400

var _ sim.Surface = (*App)(nil)

type Options struct {
	Width, Height int
	TickRate      int
	Title         string
}

// App owns the window and drives one simulation loop, one tick per
// rendered frame. raylib paces frames at the tick rate, so the frame loop
// doubles as the ticker.
type App struct {
	loop *sim.Loop
	log  *log.Logger

	running   bool
	telemetry []float64
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	rl.SetTargetFPS(int32(opts.TickRate))
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed.
func Run(loop *sim.Loop, opts Options, logger *log.Logger) {
	if opts.Title == "" {
		opts.Title = "threebody"
	}
	initWindow(opts)
	defer rl.CloseWindow()
	logger.Info("window opened", "width", opts.Width, "height", opts.Height, "tick_rate", opts.TickRate)

	app := NewApp(loop, logger)
	app.RunLoop()
	logger.Info("window closed", "steps", loop.Steps())
}

func NewApp(loop *sim.Loop, logger *log.Logger) *App {
	return &App{
		loop:      loop,
		log:       logger,
		running:   true,
		telemetry: make([]float64, 0, telemetryCapacity),
	}
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Render()
	}
}

// Size implements sim.Surface.
func (a *App) Size() (width, height float64) {
	return float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
}

// Clear implements sim.Surface.
func (a *App) Clear() {
	rl.ClearBackground(ColBg)
}

// Draw implements sim.Surface. Display space is y-up, raylib is y-down.
func (a *App) Draw(f sim.Frame) {
	for _, p := range f.Traces {
		x, y := a.screen(f, p.Pos)
		rl.DrawCircle(x, y, float32(p.Size/2), p.Color)
	}
	for i, b := range f.Bodies {
		x, y := a.screen(f, b.Pos)
		rl.DrawCircle(x, y, float32(b.Radius), b.Color)
		if i == f.Held {
			rl.DrawCircleLines(x, y, float32(b.Radius)+4, ColSelect)
		}
	}
}

func (a *App) screen(f sim.Frame, p r2.Vec) (int32, int32) {
	return int32(p.X), int32(f.Height - p.Y)
}

// Update handles input and steps the loop. It returns false when the user
// asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.running = !a.running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.loop.Reset()
		a.telemetry = a.telemetry[:0]
		a.log.Debug("reset")
	}
	if g := a.loop.Gravity(); g != nil {
		if rl.IsKeyPressed(rl.KeyUp) {
			g.SetParam("g", g.G*1.1)
		}
		if rl.IsKeyPressed(rl.KeyDown) {
			g.SetParam("g", g.G/1.1)
		}
	}

	a.loop.Resize(a.Size())
	a.pointer()
	return true
}

// pointer forwards the left mouse button to the loop in display space.
func (a *App) pointer() {
	_, h := a.Size()
	m := rl.GetMousePosition()
	pos := r2.Vec{X: float64(m.X), Y: h - float64(m.Y)}

	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		if a.loop.PointerDown(pos) {
			a.log.Debug("grab", "body", a.loop.Controller().Held())
		}
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		held := a.loop.Controller().Held()
		if a.loop.PointerUp() {
			a.log.Debug("release", "body", held)
		}
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		a.loop.PointerMove(pos)
	}
}

// Render ticks the loop, unless paused, and draws the frame with the HUD.
func (a *App) Render() {
	var f sim.Frame
	if a.running {
		f = a.loop.Tick()
		if e, ok := a.loop.MetricValues()["energy"]; ok {
			a.telemetry = append(a.telemetry, e)
			if len(a.telemetry) > telemetryCapacity {
				a.telemetry = a.telemetry[1:]
			}
		}
	} else {
		f = a.loop.Frame()
	}

	rl.BeginDrawing()
	a.Clear()
	a.Draw(f)
	a.DrawHUD(f)
	rl.EndDrawing()
}
