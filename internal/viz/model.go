package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/sim"
)

const (
	historyCapacity = 600
	// canvasTop is the terminal row of the first canvas row; the header
	// sits above it.
	canvasTop = 1

	minCols = 10
	minRows = 4
)

type TickMsg time.Time

// Model is the bubbletea program around a simulation loop. Update runs on
// bubbletea's single event goroutine, which makes it the loop's only
// writer.
type Model struct {
	loop    *sim.Loop
	surface *Surface
	log     *log.Logger

	rate     int
	running  bool
	showHelp bool
	theme    int
	styles   styles

	frame         sim.Frame
	energy        []float64
	width, height int
}

func NewModel(loop *sim.Loop, tickRate int, logger *log.Logger) Model {
	if tickRate <= 0 {
		tickRate = 60
	}
	if logger == nil {
		logger = log.Default()
	}
	surface := NewSurface(80-panelWidth, 22)
	loop.Resize(surface.Size())

	return Model{
		loop:    loop,
		surface: surface,
		log:     logger,
		rate:    tickRate,
		running: true,
		styles:  newStyles(Themes[0]),
		frame:   loop.Frame(),
		energy:  make([]float64, 0, historyCapacity),
		width:   80,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.rate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		m.loop.Reset()
		m.energy = m.energy[:0]
		m.redraw(m.loop.Frame())
		m.log.Debug("reset")
	case "up", "k":
		m.scaleG(1.1)
	case "down", "j":
		m.scaleG(1 / 1.1)
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyles(Themes[m.theme])
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) scaleG(factor float64) {
	g := m.loop.Gravity()
	if g == nil {
		return
	}
	g.SetParam("g", g.G*factor)
}

// handleMouse routes left-button input to the drag controller. Presses
// outside the canvas are ignored; motion is clamped to the canvas so a
// drag can continue along its edge.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	c := m.surface.Canvas()
	col, row := msg.X, msg.Y-canvasTop
	inside := col >= 0 && row >= 0 && col < c.Width && row < c.Height
	col = clamp(col, 0, c.Width-1)
	row = clamp(row, 0, c.Height-1)
	pos := m.surface.CellToDisplay(col, row)

	m.loop.Resize(m.surface.Size())
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return
		}
		if m.loop.PointerDown(pos) {
			m.log.Debug("grab", "body", m.loop.Controller().Held())
		}
	case tea.MouseActionMotion:
		m.loop.PointerMove(pos)
	case tea.MouseActionRelease:
		held := m.loop.Controller().Held()
		if m.loop.PointerUp() {
			m.log.Debug("release", "body", held)
		}
	}
	m.redraw(m.loop.Frame())
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols := max(w-panelWidth, minCols)
	rows := max(h-canvasTop-1, minRows)
	m.surface.Resize(cols, rows)
	m.loop.Resize(m.surface.Size())
	m.redraw(m.loop.Frame())
}

// step advances the loop one tick unless paused and redraws.
func (m *Model) step() {
	m.loop.Resize(m.surface.Size())
	if !m.running {
		m.redraw(m.loop.Frame())
		return
	}

	m.redraw(m.loop.Tick())
	if e, ok := m.loop.MetricValues()["energy"]; ok {
		m.energy = append(m.energy, e)
		if len(m.energy) > historyCapacity {
			m.energy = m.energy[1:]
		}
	}
}

func (m *Model) redraw(f sim.Frame) {
	m.frame = f
	m.surface.Clear()
	m.surface.Draw(f)
}

// View renders the canvas with a status panel to its right.
func (m Model) View() string {
	status := m.styles.status.Render("RUNNING")
	switch {
	case m.frame.Held != dynamo.None:
		status = m.styles.paused.Render(fmt.Sprintf("DRAGGING %d", m.frame.Held))
	case !m.running:
		status = m.styles.paused.Render("PAUSED")
	}
	header := m.styles.header.Render("THREEBODY") + "  " + status

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		strings.TrimSuffix(m.surface.Canvas().String(), "\n"),
		m.panel(),
	)
	if m.showHelp {
		return header + "\n" + m.help() + "\n" + body
	}
	return header + "\n" + body
}

func (m Model) panel() string {
	var s strings.Builder
	row := func(label, value string) {
		s.WriteString(m.styles.label.Render(label) + m.styles.value.Render(value) + "\n")
	}

	row("Time", fmt.Sprintf("%.1f", m.frame.Time))
	row("Step", fmt.Sprintf("%d", m.frame.Step))
	if g := m.loop.Gravity(); g != nil {
		params := g.GetParams()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			row(strings.ToUpper(k), fmt.Sprintf("%.3f", params[k]))
		}
	}
	if n := len(m.energy); n > 0 {
		row("Energy", fmt.Sprintf("%.4g", m.energy[n-1]))
	}

	s.WriteString("\n")
	for i, b := range m.loop.Bodies() {
		marker := swatch(hexColor(m.frame.Bodies[i].Color))
		s.WriteString(fmt.Sprintf("%s m=%-6.4g (%.0f, %.0f)\n", marker, b.Mass, b.Pos.X, b.Pos.Y))
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy,
			asciigraph.Height(4),
			asciigraph.Width(panelWidth-12),
			asciigraph.Caption("Energy"))
		s.WriteString(m.styles.graph.Render(chart) + "\n")
	}

	s.WriteString(m.styles.help.Render("SP:Pause R:Reset Q:Quit\n↑↓:G  T:Theme ?:Help\nDrag a body with the mouse"))
	return m.styles.panel.Render(s.String())
}

func (m Model) help() string {
	return m.styles.help.Render(strings.Join([]string{
		"Space    pause or resume",
		"R        reset to the initial bodies",
		"Up/K     increase G by 10%",
		"Down/J   decrease G by 10%",
		"T        cycle themes (" + strings.Join(ThemeNames(), ", ") + ")",
		"Mouse    press on a body to grab it, release to drop it at rest",
		"Q        quit",
	}, "\n"))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
