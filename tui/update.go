package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tickdone/tickdone/internal/domain"
	"github.com/tickdone/tickdone/internal/notify"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// A bracketed paste can carry several lines; each line is
		// submitted as if typed separately
		if msg.Paste && strings.ContainsAny(string(msg.Runes), "\n\r") {
			var quit bool
			for _, line := range strings.FieldsFunc(string(msg.Runes), func(r rune) bool {
				return r == '\n' || r == '\r'
			}) {
				if cmd := m.submitLine(line); cmd != nil {
					quit = true
				}
			}
			if quit {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			m.d.FlushSession()
			return m, tea.Quit

		case "enter":
			return m, m.submitLine(m.input.Value())

		case "tab":
			m.completeSuggestion()
			return m, nil

		case "up":
			m.recallHistory(-1)
			return m, nil

		case "down":
			m.recallHistory(1)
			return m, nil

		case "esc":
			m.input.SetValue("")
			m.historyIndex = -1
			return m, nil
		}

		m.suggestionIdx = 0
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 4 {
			m.input.Width = msg.Width - 4
		}

	case TickMsg:
		m.onTick()
		return m, tickCmd()

	case FileChangedMsg:
		m.d.ReloadTodos()
		m.setNotification("Reloaded: todo list changed externally")
		return m, nil
	}

	return m, nil
}

// onTick advances the running timers and fires boundary notifications
func (m *Model) onTick() {
	now := m.clock()

	if res := m.d.Session.Tick(); res.EnteredOvertime {
		content := ""
		if task, found := m.d.CurrentSessionTask(); found {
			content = task.Content
		}
		m.setNotification("Time's up: " + content + " — /ok to complete, /ps to skip")
		m.notifier.Send(notify.Notification{
			Title:   "tickdone",
			Message: "Time's up: " + content,
			Type:    notify.NotifyWarning,
		})
	}

	if m.d.Countdown.Tick(now) {
		m.setNotification("Countdown finished!")
		m.notifier.Send(notify.Notification{
			Title:   "tickdone",
			Message: "Countdown finished",
			Type:    notify.NotifyInfo,
		})
	}

	if m.d.Session.Active() && now.Sub(m.lastFlush) >= m.flushInterval {
		m.d.FlushSession()
		m.lastFlush = now
	}
}

// submitLine records the line in the recall buffer and dispatches it.
// The returned command is tea.Quit when the line asked to exit.
func (m *Model) submitLine(raw string) tea.Cmd {
	trimmed := strings.TrimSpace(raw)
	m.historyIndex = -1
	m.savedInput = ""
	m.suggestionIdx = 0

	if trimmed != "" {
		kept := m.inputHistory[:0]
		for _, h := range m.inputHistory {
			if h != trimmed {
				kept = append(kept, h)
			}
		}
		m.inputHistory = append(kept, trimmed)
	}

	res, handled := m.d.Submit(raw)
	if !handled {
		m.input.SetValue("")
		return nil
	}

	if res.Prefill != "" {
		m.input.SetValue(res.Prefill)
		m.input.CursorEnd()
		return nil
	}

	m.input.SetValue("")
	if res.Message != "" {
		m.setNotification(res.Message)
	}
	if res.Quit {
		return tea.Quit
	}
	return nil
}

// recallHistory walks the submitted-line buffer. dir is -1 for older,
// +1 for newer; leaving the newest entry restores the saved draft.
func (m *Model) recallHistory(dir int) {
	if len(m.inputHistory) == 0 {
		return
	}

	if dir < 0 {
		if m.historyIndex == -1 {
			m.savedInput = m.input.Value()
			m.historyIndex = len(m.inputHistory) - 1
		} else if m.historyIndex > 0 {
			m.historyIndex--
		}
		m.input.SetValue(m.inputHistory[m.historyIndex])
		m.input.CursorEnd()
		return
	}

	if m.historyIndex == -1 {
		return
	}
	m.historyIndex++
	if m.historyIndex >= len(m.inputHistory) {
		m.historyIndex = -1
		m.input.SetValue(m.savedInput)
	} else {
		m.input.SetValue(m.inputHistory[m.historyIndex])
	}
	m.input.CursorEnd()
}

// completeSuggestion cycles through the commands matching the current
// partial input
func (m *Model) completeSuggestion() {
	val := m.input.Value()
	if !strings.HasPrefix(val, "/") {
		return
	}
	partial := strings.TrimPrefix(strings.Fields(val + " ")[0], "/")
	matches := MatchCommands(partial)
	if len(matches) == 0 {
		return
	}
	pick := matches[m.suggestionIdx%len(matches)]
	m.suggestionIdx++
	m.input.SetValue("/" + pick.Name + " ")
	m.input.CursorEnd()
}

func (m *Model) setNotification(text string) {
	m.notification = text
	m.notificationAt = m.clock()
}

// Mode exposes the active display mode for the view
func (m Model) Mode() domain.Mode { return m.d.Mode }

// Notification exposes the transient message line for tests
func (m Model) Notification() string { return m.notification }
