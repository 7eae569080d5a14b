package viz

import (
	"context"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/testparticle/internal/analysis"
	"github.com/san-kum/testparticle/internal/dynamo"
	"github.com/san-kum/testparticle/internal/integrators"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("cell 1 = %U, want U+2880", c.Grid[0][1])
	}
	if !c.IsSet(0, 0) || c.IsSet(1, 0) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if c.String() != "\u2800\u2800\n" {
		t.Errorf("clear left %q", c.String())
	}
}

func TestDrawLineDashed(t *testing.T) {
	solid := NewCanvas(10, 1)
	solid.DrawLine(0, 0, 19, 0, 0)
	dashed := NewCanvas(10, 1)
	dashed.DrawLine(0, 0, 19, 0, 2)

	count := func(c *Canvas) int {
		n := 0
		for x := 0; x < 20; x++ {
			if c.IsSet(x, 0) {
				n++
			}
		}
		return n
	}
	if got := count(solid); got != 20 {
		t.Errorf("solid line lit %d dots, want 20", got)
	}
	if got := count(dashed); got != 10 {
		t.Errorf("dashed line lit %d dots, want 10", got)
	}
	if !dashed.IsSet(0, 0) || dashed.IsSet(2, 0) {
		t.Error("unexpected dash phase")
	}
}

func TestViewportCorners(t *testing.T) {
	c := NewCanvas(10, 5)
	pts := []analysis.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	v := NewViewport(pts, c)

	x0, y0 := v.Map(pts[0])
	x1, y1 := v.Map(pts[1])
	if x0 >= x1 {
		t.Errorf("x not increasing: %d >= %d", x0, x1)
	}
	if y0 <= y1 {
		t.Errorf("y should point up: %d <= %d", y0, y1)
	}
	w, h := c.Dots()
	for _, p := range [][2]int{{x0, y0}, {x1, y1}} {
		if p[0] < 0 || p[0] >= w || p[1] < 0 || p[1] >= h {
			t.Errorf("point %v outside canvas", p)
		}
	}
}

func gyration(t *testing.T, steps int) *dynamo.Trajectory {
	t.Helper()
	p := dynamo.DefaultParams()
	p.Steps = steps
	tr, err := dynamo.New(integrators.NewRK4()).Run(context.Background(), p,
		dynamo.State{Position: r3.Vec{X: 1}, Velocity: r3.Vec{Y: 1}})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return tr
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTraceReplay(t *testing.T) {
	m := NewTrace(gyration(t, 50), analysis.PlaneXY, "gyration")
	m.SetStride(20)

	var model tea.Model = m
	for i := 0; i < 2; i++ {
		model, _ = model.Update(TickMsg{})
	}
	if got := model.(Trace).Head(); got != 40 {
		t.Fatalf("head = %d, want 40", got)
	}

	model, _ = model.Update(key(" "))
	model, _ = model.Update(TickMsg{})
	if !model.(Trace).Paused() || model.(Trace).Head() != 40 {
		t.Error("tick advanced a paused replay")
	}

	model, _ = model.Update(key(" "))
	model, _ = model.Update(TickMsg{})
	tr := model.(Trace)
	if !tr.Done() || tr.Head() != 49 {
		t.Errorf("expected finished replay at 49, got head=%d done=%v", tr.Head(), tr.Done())
	}
	if !strings.Contains(tr.View(), "FULL ORBIT") {
		t.Error("finished view should show the full orbit")
	}

	model, _ = model.Update(key("r"))
	if model.(Trace).Head() != 0 || model.(Trace).Done() {
		t.Error("restart did not rewind")
	}
}

func TestTraceQuit(t *testing.T) {
	m := NewTrace(gyration(t, 10), analysis.PlaneXY, "gyration")
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestTraceDivergedView(t *testing.T) {
	p := dynamo.DefaultParams()
	p.Steps = 5
	tr, err := dynamo.New(integrators.NewRK4()).Run(context.Background(), p,
		dynamo.State{Position: r3.Vec{X: math.NaN()}, Velocity: r3.Vec{Y: 1}})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	m := NewTrace(tr, analysis.PlaneXY, "diverged")
	if m.View() == "" {
		t.Error("empty view")
	}
}
