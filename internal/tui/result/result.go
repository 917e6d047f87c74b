// Package result renders the post-run summary screen.
package result

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pummel/internal/report"
	"pummel/internal/tui/styles"
)

type Model struct {
	Summary report.Summary

	Width  int
	Height int
}

func New(s report.Summary) Model {
	return Model{Summary: s}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.Width = msg.Width
		m.Height = msg.Height
	}
	return m, nil
}

func (m Model) View() string {
	s := strings.Builder{}
	sum := m.Summary

	s.WriteString(styles.Title.Render("📊 Run complete"))
	s.WriteString("\n\n")

	if sum.Aborted {
		s.WriteString(styles.Warn.Render(fmt.Sprintf("⚠ aborted after %d attempts", sum.Requests)))
		s.WriteString("\n\n")
	}

	rateStyle := styles.Success
	if sum.SuccessRate < 100 {
		rateStyle = styles.Warn
	}
	if sum.SuccessRate < 50 {
		rateStyle = styles.Error
	}

	overview := fmt.Sprintf(
		"Requests: %d\nSuccess:  %s\nFailed:   %d\nBytes:    %d\nDuration: %s",
		sum.Requests,
		rateStyle.Render(fmt.Sprintf("%d (%.1f%%)", sum.Succeeded, sum.SuccessRate)),
		sum.Failed,
		sum.TotalBytes,
		sum.Duration.Round(time.Millisecond),
	)

	latency := fmt.Sprintf(
		"Min:    %.1f ms\nMedian: %.1f ms\nMean:   %.1f ms\nMax:    %.1f ms",
		sum.MinMs, sum.MedianMs, sum.MeanMs, sum.MaxMs,
	)

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Box.Render(styles.Active.Render("Overview")+"\n"+overview),
		styles.Box.Render(styles.Active.Render("Latency")+"\n"+latency),
		styles.Box.Render(styles.Active.Render("Status codes")+"\n"+m.statusLines()),
	))
	s.WriteString("\n")

	if len(sum.Errors) > 0 {
		e := strings.Builder{}
		for i, g := range sum.Errors {
			if i > 0 {
				e.WriteString("\n")
			}
			e.WriteString(fmt.Sprintf("%d x %s", g.Count, g.Message))
			if g.Snippet != "" {
				e.WriteString("\n  " + styles.Subtle.Render(truncate(g.Snippet, 70)))
			}
		}
		s.WriteString(styles.Box.Render(styles.Error.Render("Errors") + "\n" + e.String()))
		s.WriteString("\n")
	}

	s.WriteString("\n ")
	s.WriteString(styles.RenderKey("n", "new run"))
	s.WriteString("  ")
	s.WriteString(styles.RenderKey("ctrl+h", "history"))
	s.WriteString("  ")
	s.WriteString(styles.RenderKey("q", "quit"))

	return s.String()
}

func (m Model) statusLines() string {
	codes := make([]int, 0, len(m.Summary.StatusCounts))
	for code := range m.Summary.StatusCounts {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	lines := make([]string, 0, len(codes))
	for _, code := range codes {
		label := fmt.Sprintf("%d", code)
		style := styles.Text
		switch {
		case code == report.NoResponse:
			label = "no response"
			style = styles.Error
		case code >= 400:
			style = styles.Error
		case code >= 300:
			style = styles.Warn
		default:
			style = styles.Success
		}
		lines = append(lines, fmt.Sprintf("%s: %d", style.Render(label), m.Summary.StatusCounts[code]))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
