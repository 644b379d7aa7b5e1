package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/muesli/termenv"

	"github.com/lox/playnine/internal/simulator"
)

const barWidth = 40

// ProgressMonitor draws a single-line progress bar and, optionally, a line
// per successful match. It implements simulator.Monitor.
type ProgressMonitor struct {
	mu          sync.Mutex
	w           io.Writer
	out         *termenv.Output
	showMatches bool
	percent     int
	drawn       bool
}

// NewProgressMonitor creates a progress monitor writing to w.
func NewProgressMonitor(w io.Writer, showMatches bool) *ProgressMonitor {
	return &ProgressMonitor{w: w, out: termenv.NewOutput(w), showMatches: showMatches}
}

// OnProgress redraws the bar in place.
func (m *ProgressMonitor) OnProgress(percent int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.percent = min(max(percent, 0), 100)
	m.draw()
}

// OnMatchFound prints the match above the bar.
func (m *ProgressMonitor) OnMatchFound(match simulator.MatchRecord) {
	if !m.showMatches {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.drawn {
		fmt.Fprint(m.w, "\r")
		m.out.ClearLine()
	}
	fmt.Fprintf(m.w, "Match found! %s\n", match)
	if m.drawn {
		m.draw()
	}
}

// Finish terminates the bar line so later output starts on a fresh line.
func (m *ProgressMonitor) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.drawn {
		fmt.Fprintln(m.w)
		m.drawn = false
	}
}

func (m *ProgressMonitor) draw() {
	filled := m.percent * barWidth / 100
	bar := strings.Repeat("=", filled)
	if filled < barWidth {
		bar += ">" + strings.Repeat(" ", barWidth-filled-1)
	}
	fmt.Fprintf(m.w, "\rProgress: [%s] %5.1f%%", bar, float64(m.percent))
	m.drawn = true
}
