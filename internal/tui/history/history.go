// Package history is the table of previous runs kept by the store.
package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pummel/internal/storage"
	"pummel/internal/tui/styles"
)

type Model struct {
	Store *storage.Store
	Table table.Model
	items []storage.Item

	Width  int
	Height int
}

func New(store *storage.Store) Model {
	columns := []table.Column{
		{Title: "Time", Width: 20},
		{Title: "URL", Width: 34},
		{Title: "Reqs", Width: 6},
		{Title: "Conc", Width: 6},
		{Title: "Success", Width: 9},
		{Title: "Median", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.ColorBorder).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(styles.ColorText).
		Background(styles.ColorPrimary).
		Bold(false)
	t.SetStyles(s)

	m := Model{Store: store, Table: t}
	m.Refresh()
	return m
}

func (m *Model) Refresh() {
	if m.Store == nil {
		return
	}
	m.items = m.Store.List()
	rows := make([]table.Row, len(m.items))
	for i, item := range m.items {
		rows[i] = table.Row{
			item.Timestamp.Format(time.RFC822),
			item.Config.URL,
			fmt.Sprintf("%d", item.Summary.Requests),
			fmt.Sprintf("%d", item.Config.Concurrency),
			fmt.Sprintf("%.1f%%", item.Summary.SuccessRate),
			fmt.Sprintf("%.1f ms", item.Summary.MedianMs),
		}
	}
	m.Table.SetRows(rows)
}

// Selected returns the item under the cursor, or nil when empty.
func (m Model) Selected() *storage.Item {
	idx := m.Table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}
	return &m.items[idx]
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.Width = msg.Width
		m.Height = msg.Height
		m.Table.SetWidth(msg.Width - 4)
	}
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	s := styles.Title.Render("🗂  Run history") + "\n"
	s += styles.Box.Render(m.Table.View())
	s += "\n " + styles.RenderKey("enter", "view summary") +
		"  " + styles.RenderKey("esc", "back") +
		"  " + styles.RenderKey("q", "quit")
	return s
}
