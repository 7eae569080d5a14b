// Package tui renders run progress on a terminal line.
package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/testparticle/internal/dynamo"
)

const (
	barWidth        = 30
	DefaultInterval = 100 * time.Millisecond
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	todoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
)

// Progress is a dynamo.Observer that redraws one status line at most once
// per interval. The final step is always drawn and ends the line.
type Progress struct {
	mu       sync.Mutex
	w        io.Writer
	label    string
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

var _ dynamo.Observer = (*Progress)(nil)

func NewProgress(w io.Writer, label string) *Progress {
	return &Progress{
		w:        w,
		label:    label,
		interval: DefaultInterval,
		now:      time.Now,
	}
}

func (p *Progress) SetInterval(d time.Duration) { p.interval = d }

func (p *Progress) OnStep(step, total int, s dynamo.State, t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	final := step >= total
	now := p.now()
	if !final && !p.last.IsZero() && now.Sub(p.last) < p.interval {
		return
	}
	p.last = now

	line := "\r" + Line(p.label, step, total, s, t)
	if final {
		line += "\n"
	}
	fmt.Fprint(p.w, line)
}

// Line formats a single progress line without cursor control.
func Line(label string, step, total int, s dynamo.State, t float64) string {
	frac := 1.0
	if total > 0 {
		frac = float64(step) / float64(total)
	}
	filled := int(frac * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	bar := doneStyle.Render(strings.Repeat("█", filled)) + todoStyle.Render(strings.Repeat("░", barWidth-filled))
	out := fmt.Sprintf("%s %s %3.0f%% %s", labelStyle.Render(label), bar, frac*100, timeStyle.Render(fmt.Sprintf("t=%.3f", t)))
	if !s.IsValid() {
		out += " " + warnStyle.Render("diverged")
	}
	return out
}
