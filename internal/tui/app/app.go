// Package app is the bubbletea root model: it moves between the config
// form, the live run view, the result screen and the history table, and
// owns the runner lifecycle for interactive runs.
package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"pummel/internal/report"
	"pummel/internal/runner"
	"pummel/internal/storage"
	"pummel/internal/tui/form"
	"pummel/internal/tui/history"
	"pummel/internal/tui/live"
	"pummel/internal/tui/result"
)

type viewID int

const (
	viewForm viewID = iota
	viewLive
	viewResult
	viewHistory
)

type snapMsg struct {
	snap runner.Snapshot
	ok   bool
}

type doneMsg struct {
	res *runner.Result
	err error
}

type Model struct {
	Store *storage.Store

	view    viewID
	form    form.Model
	live    live.Model
	result  result.Model
	history history.Model

	lastCfg   runner.Config
	updatesCh runner.UpdateChan
	runCancel context.CancelFunc

	width  int
	height int
}

func New(cfg runner.Config, store *storage.Store) Model {
	return Model{
		Store:   store,
		form:    form.New(cfg),
		history: history.New(store),
		lastCfg: cfg,
	}
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

func startRun(ctx context.Context, r *runner.Runner) tea.Cmd {
	return func() tea.Msg {
		res, err := r.Run(ctx)
		return doneMsg{res: res, err: err}
	}
}

func waitForSnap(updates runner.UpdateChan) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		return snapMsg{snap: s, ok: ok}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Every view needs the size, forward to all of them
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		cmds = append(cmds, cmd)
		m.live, cmd = m.live.Update(msg)
		cmds = append(cmds, cmd)
		m.result, cmd = m.result.Update(msg)
		cmds = append(cmds, cmd)
		m.history, cmd = m.history.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case snapMsg:
		if !msg.ok {
			// Channel closed, the run is sealing; doneMsg follows
			return m, nil
		}
		var cmd tea.Cmd
		m.live, cmd = m.live.Update(msg.snap)
		return m, tea.Batch(cmd, waitForSnap(m.updatesCh))

	case doneMsg:
		m.runCancel = nil
		if msg.err != nil {
			m.form.Err = msg.err
			m.view = viewForm
			return m, nil
		}
		if m.Store != nil {
			m.Store.Save(storage.NewItem(msg.res))
			m.history.Refresh()
		}
		m.result = result.New(report.Summarize(msg.res))
		m.view = viewResult
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.abort()
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	return m.updateCurrent(msg)
}

func (m *Model) abort() {
	if m.runCancel != nil {
		m.runCancel()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.view {
	case viewForm:
		switch key {
		case "enter":
			cfg := m.form.Config()
			if err := cfg.Validate(); err != nil {
				m.form.Err = err
				return m, nil
			}
			m.form.Err = nil
			m.lastCfg = cfg

			m.updatesCh = make(runner.UpdateChan, 100)
			r := runner.New(cfg, m.updatesCh)
			ctx, cancel := context.WithCancel(context.Background())
			m.runCancel = cancel

			m.live = live.New(cfg.Requests)
			m.view = viewLive
			return m, tea.Batch(startRun(ctx, r), waitForSnap(m.updatesCh))

		case "ctrl+h":
			m.history.Refresh()
			m.view = viewHistory
			return m, nil
		}

	case viewLive:
		if key == "esc" {
			m.abort()
			return m, nil
		}
		return m, nil

	case viewResult:
		switch key {
		case "n", "esc":
			m.form = form.New(m.lastCfg)
			m.view = viewForm
			return m, m.form.Init()
		case "ctrl+h":
			m.history.Refresh()
			m.view = viewHistory
			return m, nil
		case "q":
			return m, tea.Quit
		}
		return m, nil

	case viewHistory:
		switch key {
		case "esc":
			m.form = form.New(m.lastCfg)
			m.view = viewForm
			return m, m.form.Init()
		case "enter":
			if item := m.history.Selected(); item != nil {
				m.result = result.New(item.Summary)
				m.view = viewResult
			}
			return m, nil
		case "q":
			return m, tea.Quit
		}
	}

	return m.updateCurrent(msg)
}

func (m Model) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewForm:
		m.form, cmd = m.form.Update(msg)
	case viewLive:
		m.live, cmd = m.live.Update(msg)
	case viewResult:
		m.result, cmd = m.result.Update(msg)
	case viewHistory:
		m.history, cmd = m.history.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	switch m.view {
	case viewLive:
		return m.live.View()
	case viewResult:
		return m.result.View()
	case viewHistory:
		return m.history.View()
	default:
		return m.form.View()
	}
}
