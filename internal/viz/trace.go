package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/testparticle/internal/analysis"
	"github.com/san-kum/testparticle/internal/dynamo"
	"github.com/san-kum/testparticle/internal/metrics"
)

const (
	canvasWidth   = 60
	canvasHeight  = 20
	frameInterval = time.Second / 60
	orbitDash     = 2
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Trace replays a stored trajectory. It never mutates the trajectory.
type Trace struct {
	title   string
	plane   analysis.Plane
	points  []analysis.Point
	times   []float64
	energy  []float64
	canvas  *Canvas
	view    Viewport
	head    int
	stride  int
	running bool
	done    bool
}

func NewTrace(tr *dynamo.Trajectory, plane analysis.Plane, title string) Trace {
	pts := analysis.Project(tr, plane)
	c := NewCanvas(canvasWidth, canvasHeight)
	return Trace{
		title:   title,
		plane:   plane,
		points:  pts,
		times:   tr.Times(),
		energy:  metrics.EnergyDeviation(tr),
		canvas:  c,
		view:    NewViewport(pts, c),
		stride:  1,
		running: true,
		done:    len(pts) <= 1,
	}
}

// SetStride advances n samples per frame; n below 1 is treated as 1.
func (m *Trace) SetStride(n int) {
	if n < 1 {
		n = 1
	}
	m.stride = n
}

func (m Trace) Head() int     { return m.head }
func (m Trace) Done() bool    { return m.done }
func (m Trace) Paused() bool  { return !m.running }
func (m Trace) Title() string { return m.title }

func (m Trace) Init() tea.Cmd { return tick() }

func (m Trace) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.head = 0
			m.done = len(m.points) <= 1
			m.running = true
		}
	case TickMsg:
		if m.running && !m.done {
			m.head += m.stride
			if m.head >= len(m.points)-1 {
				m.head = len(m.points) - 1
				m.done = true
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Trace) draw() {
	m.canvas.Clear()
	if m.done {
		m.canvas.Polyline(m.view, m.points, orbitDash)
		return
	}
	m.canvas.Polyline(m.view, m.points[:m.head+1], 0)
}

func (m Trace) View() string {
	m.draw()

	status := statusRunning.Render("REPLAYING")
	switch {
	case m.done:
		status = statusDone.Render("FULL ORBIT")
	case !m.running:
		status = statusPaused.Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(status + "\n\n")

	h, v := m.plane.Labels()
	p := m.points[m.head]
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3f", m.times[m.head])) + "\n")
	s.WriteString(labelStyle.Render("Sample") + valueStyle.Render(fmt.Sprintf("%d/%d", m.head+1, len(m.points))) + "\n")
	s.WriteString(labelStyle.Render(h) + valueStyle.Render(fmt.Sprintf("%.4f", p.X)) + "\n")
	s.WriteString(labelStyle.Render(v) + valueStyle.Render(fmt.Sprintf("%.4f", p.Y)) + "\n")

	if series := finiteSeries(m.energy[:m.head+1]); len(series) > 1 {
		chart := asciigraph.Plot(series, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("ΔE/E0"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Restart Q:Quit"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(s.String()))
	return headerStyle.Render(strings.ToUpper(m.title)+"  "+m.plane.String()) + "\n" + body + "\n"
}

func finiteSeries(in []float64) []float64 {
	out := make([]float64, 0, len(in))
	for _, x := range in {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}

// Run starts the replay on the terminal and blocks until the user quits.
func Run(m Trace) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
