// Package live renders the in-flight view of a run: counters, latency
// percentiles, a completion progress bar and a throughput sparkline.
package live

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pummel/internal/runner"
	"pummel/internal/tui/styles"
)

var sparkLevels = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

type Model struct {
	Snap     runner.Snapshot
	Progress progress.Model

	StartTime  time.Time
	LastUpdate time.Time
	LastDone   uint64
	Throughput []float64 // completed/s samples, scrolling window

	Width  int
	Height int
}

func New(total int) Model {
	return Model{
		Snap:       runner.Snapshot{Total: total},
		Progress:   progress.New(progress.WithDefaultGradient()),
		StartTime:  time.Now(),
		LastUpdate: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runner.Snapshot:
		now := time.Now()
		dt := now.Sub(m.LastUpdate).Seconds()
		if dt < 0.01 {
			dt = 0.01
		}
		rate := float64(msg.Completed-m.LastDone) / dt

		m.Throughput = append(m.Throughput, rate)
		if max := m.sparkWidth(); len(m.Throughput) > max {
			m.Throughput = m.Throughput[len(m.Throughput)-max:]
		}

		m.Snap = msg
		m.LastDone = msg.Completed
		m.LastUpdate = now

		pct := 0.0
		if msg.Total > 0 {
			pct = float64(msg.Completed) / float64(msg.Total)
		}
		return m, m.Progress.SetPercent(pct)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Progress.Width = msg.Width - 8
		return m, nil

	case progress.FrameMsg:
		prog, cmd := m.Progress.Update(msg)
		m.Progress = prog.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m Model) sparkWidth() int {
	w := m.Width - 10
	if w < 20 {
		w = 40
	}
	return w
}

func (m Model) View() string {
	s := strings.Builder{}

	s.WriteString(styles.Title.Render("🔨 Run in progress"))
	s.WriteString("\n\n")

	snap := m.Snap
	errRate := 0.0
	if snap.Completed > 0 {
		errRate = float64(snap.Fail) / float64(snap.Completed) * 100
	}
	errStyle := styles.Success
	if errRate > 5.0 {
		errStyle = styles.Error
	} else if errRate > 0 {
		errStyle = styles.Warn
	}

	col1 := fmt.Sprintf("DONE: %d/%d\nINFLIGHT: %d", snap.Completed, snap.Total, snap.Inflight)
	col2 := errStyle.Render(fmt.Sprintf("OK: %d\nERR: %d (%.1f%%)", snap.Success, snap.Fail, errRate))
	col3 := fmt.Sprintf("ELAPSED: %s\nBYTES: %dK",
		time.Since(m.StartTime).Round(time.Second), snap.Bytes/1024)

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Box.Render(col1),
		styles.Box.Render(col2),
		styles.Box.Render(col3),
	))
	s.WriteString("\n\n")

	s.WriteString(styles.Box.Render(
		styles.Active.Render("Throughput (req/s)") + "\n" + m.sparkline(),
	))
	s.WriteString("\n\n")

	latency := fmt.Sprintf(
		"P50: %.1f ms  |  P90: %.1f ms  |  P99: %.1f ms  |  Max: %.0f ms",
		snap.P50Ms, snap.P90Ms, snap.P99Ms, snap.MaxMs,
	)
	s.WriteString(styles.Box.Render(latency))
	s.WriteString("\n\n")

	s.WriteString("  " + m.Progress.View())
	s.WriteString("\n\n")
	s.WriteString("  " + styles.RenderKey("esc", "abort run"))

	return s.String()
}

func (m Model) sparkline() string {
	peak := 0.0
	for _, v := range m.Throughput {
		if v > peak {
			peak = v
		}
	}

	var g strings.Builder
	for _, v := range m.Throughput {
		idx := 0
		if peak > 0 {
			idx = int(v / peak * float64(len(sparkLevels)-1))
		}
		if idx >= len(sparkLevels) {
			idx = len(sparkLevels) - 1
		}
		g.WriteRune(sparkLevels[idx])
	}
	if pad := m.sparkWidth() - len(m.Throughput); pad > 0 {
		g.WriteString(strings.Repeat(" ", pad))
	}
	return styles.Active.Render(g.String())
}
