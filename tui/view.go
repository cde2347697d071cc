package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tickdone/tickdone/internal/domain"
	"github.com/tickdone/tickdone/internal/session"
)

var (
	headerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	bigTimeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	overtimeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	inProgressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dimmedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	highPrioStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	midPrioStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	lowPrioStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("37"))

	notificationStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("238")).
				Padding(0, 1)

	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	now := m.clock()
	var b strings.Builder

	header := fmt.Sprintf(" tickdone │ %s │ Tasks: %d │ %s ",
		m.d.Mode, len(m.d.Todos), now.Format("15:04:05"))
	b.WriteString(headerStyle.Width(m.width).Render(header))
	b.WriteString("\n")

	switch {
	case m.d.ShowHelp:
		b.WriteString(sectionStyle.Width(m.width - 2).Render(m.renderHelp()))
		b.WriteString("\n")
	case m.d.ShowHistory:
		b.WriteString(sectionStyle.Width(m.width - 2).Render(m.renderHistory()))
		b.WriteString("\n")
	default:
		var mode string
		switch m.d.Mode {
		case domain.ModeTimer:
			mode = m.renderTimer()
		case domain.ModeCountdown:
			mode = m.renderCountdown()
		case domain.ModeTodoCountdown:
			mode = m.renderTodoCountdown()
		default:
			mode = m.renderClock()
		}
		b.WriteString(sectionStyle.Width(m.width - 2).Render(mode))
		b.WriteString("\n")

		b.WriteString(sectionStyle.Width(m.width - 2).Render(m.renderTodoList()))
		b.WriteString("\n")
	}

	if m.notification != "" {
		b.WriteString(notificationStyle.Width(m.width).Render(m.notification))
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	if sugg := m.renderSuggestions(); sugg != "" {
		b.WriteString(sugg)
	}

	return b.String()
}

func (m Model) renderClock() string {
	now := m.clock()
	return bigTimeStyle.Render(now.Format("15:04:05")) + "\n" +
		dimmedStyle.Render(now.Format("Monday, 2 January 2006"))
}

func (m Model) renderTimer() string {
	now := m.clock()
	elapsed := int(m.d.Stopwatch.Elapsed(now).Seconds())
	state := runningStyle.Render("running")
	if !m.d.Stopwatch.Running() {
		state = pausedStyle.Render("paused")
	}
	return fmt.Sprintf("Stopwatch  %s  %s",
		bigTimeStyle.Render(domain.FormatSeconds(elapsed)), state)
}

func (m Model) renderCountdown() string {
	now := m.clock()
	total := m.d.Countdown.TotalSeconds()
	if total == 0 {
		return dimmedStyle.Render("No countdown. /cd <minutes> to start one.")
	}
	remaining := m.d.Countdown.Remaining(now)
	if remaining < 0 {
		remaining = 0
	}
	state := runningStyle.Render("running")
	if !m.d.Countdown.Running() {
		if remaining == 0 {
			state = overtimeStyle.Render("finished")
		} else {
			state = pausedStyle.Render("paused")
		}
	}
	bar := m.progressBar(total-remaining, total)
	return fmt.Sprintf("Countdown  %s  %s\n%s",
		bigTimeStyle.Render(domain.FormatSeconds(remaining)), state, bar)
}

func (m Model) renderTodoCountdown() string {
	if !m.d.Session.Active() {
		return dimmedStyle.Render("No session. /st 1 2 3 or /st * to start one.")
	}

	task, found := m.d.CurrentSessionTask()
	content := "(deleted)"
	if found {
		content = task.Content
	}

	remaining := m.d.Session.Remaining()
	total := m.d.Session.TotalSeconds()

	timeStr := domain.FormatSeconds(remaining)
	style := bigTimeStyle
	if m.d.Session.Overtime() {
		style = overtimeStyle
	}

	state := runningStyle.Render("running")
	if m.d.Session.Phase() == session.PhasePaused {
		state = pausedStyle.Render("paused")
	}
	if m.d.Session.WaitingForAction() {
		state = overtimeStyle.Render("time's up — /ok or /ps")
	}

	queue := m.d.Session.Queue()
	pos := fmt.Sprintf("Task %d/%d", m.d.Session.CurrentIndex()+1, len(queue))

	bar := m.progressBar(total-remaining, total)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", pos, content)
	fmt.Fprintf(&b, "%s  %s\n%s", style.Render(timeStr), state, bar)
	if prev := m.d.Session.PreviousActual(); prev > 0 {
		fmt.Fprintf(&b, "\n%s", dimmedStyle.Render(
			"resumed from "+domain.FormatSeconds(prev)))
	}
	return b.String()
}

func (m Model) renderTodoList() string {
	if len(m.d.Todos) == 0 {
		return dimmedStyle.Render("No tasks. Type something to add one.")
	}

	var b strings.Builder
	b.WriteString("TODO\n")
	for i, t := range m.d.Todos {
		icon := "[ ]"
		line := fmt.Sprintf("%2d. ", i+1)
		style := lipgloss.NewStyle()
		switch t.Status {
		case domain.StatusDone:
			icon = "[x]"
			style = dimmedStyle
		case domain.StatusInProgress:
			icon = "[>]"
			style = inProgressStyle
		}

		line += icon + " " + t.Content
		if t.Priority != domain.PriorityNone && t.Priority != "" {
			line += " " + priorityBadge(t.Priority)
		}
		for _, tag := range t.Tags {
			line += " " + tagStyle.Render("#"+tag)
		}
		line += dimmedStyle.Render(fmt.Sprintf(" @%dm", t.Duration))
		if t.ActualTime > 0 {
			line += dimmedStyle.Render(" (" + domain.FormatSeconds(t.ActualTime) + ")")
		}
		b.WriteString(style.Render(line))
		if i < len(m.d.Todos)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func priorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return highPrioStyle.Render("!h")
	case domain.PriorityMid:
		return midPrioStyle.Render("!m")
	case domain.PriorityLow:
		return lowPrioStyle.Render("!l")
	}
	return ""
}

func (m Model) renderHistory() string {
	if len(m.d.History) == 0 {
		return dimmedStyle.Render("No completed tasks yet. /b to go back.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DONE HISTORY (%d)  — /d <N|N-M|*> deletes records, /b goes back\n", len(m.d.History))
	for i, r := range m.d.History {
		when := ""
		if !r.CompletedAt.IsZero() {
			when = humanize.Time(r.CompletedAt)
		}
		line := fmt.Sprintf("%2d. %s  %s/%dm  %s",
			i+1, r.Content, domain.FormatSeconds(r.ActualTime), r.Duration, when)
		for _, tag := range r.Tags {
			line += " " + tagStyle.Render("#"+tag)
		}
		b.WriteString(doneStyle.Render(line))
		if i < len(m.d.History)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString("COMMANDS\n")
	for _, cmd := range Commands {
		aliases := strings.Join(cmd.Aliases, ", ")
		fmt.Fprintf(&b, "%-26s %-8s %s\n", cmd.Usage, aliases, cmd.Description)
	}
	b.WriteString(dimmedStyle.Render("\nTask format: [#pos] content [@duration]   e.g.  #1 Write report @45"))
	return b.String()
}

func (m Model) renderSuggestions() string {
	val := m.input.Value()
	if !strings.HasPrefix(val, "/") || strings.Contains(val, " ") {
		return ""
	}
	matches := MatchCommands(strings.TrimPrefix(val, "/"))
	if len(matches) == 0 || len(matches) == len(Commands) {
		return ""
	}
	shown := matches
	if len(shown) > 5 {
		shown = shown[:5]
	}
	var parts []string
	for _, cmd := range shown {
		parts = append(parts, fmt.Sprintf("%s — %s", cmd.Usage, cmd.Description))
	}
	return suggestionStyle.Render(strings.Join(parts, "\n"))
}

// progressBar renders elapsed/total with the selected theme's characters
func (m Model) progressBar(elapsed, total int) string {
	width := 30
	if m.width > 40 && m.width < 120 {
		width = m.width - 10
	} else if m.width >= 120 {
		width = 110
	}

	theme := domain.ProgressThemes[0]
	if m.d.ThemeIndex >= 0 && m.d.ThemeIndex < len(domain.ProgressThemes) {
		theme = domain.ProgressThemes[m.d.ThemeIndex]
	}

	if total <= 0 {
		total = 1
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > total {
		elapsed = total
	}
	filled := elapsed * width / total
	pct := elapsed * 100 / total

	bar := strings.Repeat(theme.Filled, filled) + strings.Repeat(theme.Empty, width-filled)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}
