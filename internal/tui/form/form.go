// Package form is the run configuration screen: one text input per
// config field, tab-cycled, submitted with enter.
package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pummel/internal/runner"
	"pummel/internal/tui/styles"
)

const (
	fieldURL = iota
	fieldMode
	fieldMethod
	fieldRequests
	fieldConcurrency
	fieldDelay
	fieldToken
	fieldPayload
	fieldCount
)

type Field struct {
	Label string
	Input textinput.Model
}

type Model struct {
	Fields []Field
	Focus  int

	// Err holds the last validation failure, shown under the form.
	Err error

	Width  int
	Height int
}

func New(cfg runner.Config) Model {
	cfg.Normalize()
	m := Model{Fields: make([]Field, fieldCount)}

	set := func(idx int, label, placeholder, value string, width int) {
		t := textinput.New()
		t.Placeholder = placeholder
		t.SetValue(value)
		t.Width = width
		m.Fields[idx] = Field{Label: label, Input: t}
	}

	set(fieldURL, "Target URL", "http://localhost:8080/api", cfg.URL, 50)
	set(fieldMode, "Mode (api/page)", "api", string(cfg.Mode), 10)
	set(fieldMethod, "Method (GET/POST/PUT/DELETE)", "GET", cfg.Method, 10)
	set(fieldRequests, "Total requests (1-1000)", "50", strconv.Itoa(cfg.Requests), 10)
	set(fieldConcurrency, "Concurrency (1-100)", "5", strconv.Itoa(cfg.Concurrency), 10)
	set(fieldDelay, "Delay between requests (ms)", "0", strconv.Itoa(cfg.DelayMs), 10)
	set(fieldToken, "Bearer token (optional)", "", cfg.AuthToken, 40)
	set(fieldPayload, "JSON payload (POST/PUT)", `{"key": "value"}`, cfg.Payload, 50)

	m.Fields[fieldURL].Input.Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.setFocus(m.Focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.Focus - 1)
			return m, nil
		}
	}

	var cmds []tea.Cmd
	for i := range m.Fields {
		var cmd tea.Cmd
		m.Fields[i].Input, cmd = m.Fields[i].Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setFocus(idx int) {
	if idx >= len(m.Fields) {
		idx = 0
	}
	if idx < 0 {
		idx = len(m.Fields) - 1
	}
	m.Focus = idx
	for i := range m.Fields {
		if i == m.Focus {
			m.Fields[i].Input.Focus()
			m.Fields[i].Input.PromptStyle = styles.Active
			m.Fields[i].Input.TextStyle = styles.Active
		} else {
			m.Fields[i].Input.Blur()
			m.Fields[i].Input.PromptStyle = lipgloss.NewStyle()
			m.Fields[i].Input.TextStyle = lipgloss.NewStyle()
		}
	}
}

// Config builds a runner config from the current field values. Parsing is
// lenient here; runner.Config.Validate is the gatekeeper.
func (m Model) Config() runner.Config {
	atoi := func(idx int) int {
		n, _ := strconv.Atoi(strings.TrimSpace(m.Fields[idx].Input.Value()))
		return n
	}

	cfg := runner.Config{
		URL:         strings.TrimSpace(m.Fields[fieldURL].Input.Value()),
		Mode:        runner.Mode(strings.TrimSpace(strings.ToLower(m.Fields[fieldMode].Input.Value()))),
		Method:      strings.TrimSpace(m.Fields[fieldMethod].Input.Value()),
		Requests:    atoi(fieldRequests),
		Concurrency: atoi(fieldConcurrency),
		DelayMs:     atoi(fieldDelay),
		AuthToken:   strings.TrimSpace(m.Fields[fieldToken].Input.Value()),
		Payload:     strings.TrimSpace(m.Fields[fieldPayload].Input.Value()),
	}
	cfg.Normalize()
	return cfg
}

func (m Model) View() string {
	s := strings.Builder{}

	s.WriteString(styles.Title.Render("🔨 New Run"))
	s.WriteString("\n\n")

	for i := range m.Fields {
		s.WriteString(styles.Subtle.Render(m.Fields[i].Label))
		s.WriteString("\n")
		s.WriteString(m.Fields[i].Input.View())
		s.WriteString("\n\n")
	}

	if m.Err != nil {
		s.WriteString(styles.Error.Render(fmt.Sprintf("✗ %v", m.Err)))
		s.WriteString("\n\n")
	}

	s.WriteString(styles.RenderKey("enter", "start"))
	s.WriteString("  ")
	s.WriteString(styles.RenderKey("ctrl+h", "history"))
	s.WriteString("  ")
	s.WriteString(styles.RenderKey("ctrl+c", "quit"))

	return styles.Box.Render(s.String())
}
