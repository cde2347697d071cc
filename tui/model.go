package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tickdone/tickdone/internal/dispatch"
	"github.com/tickdone/tickdone/internal/notify"
)

// Model is the TUI application model
type Model struct {
	d        *dispatch.Dispatcher
	notifier notify.Notifier
	clock    func() time.Time

	input textinput.Model

	// UI state
	width  int
	height int

	// notification is the transient message line below the content
	notification   string
	notificationAt time.Time

	// inputHistory is the submitted-line recall buffer (up/down arrows)
	inputHistory []string
	historyIndex int
	savedInput   string

	// suggestionIdx cycles the autocomplete candidates on tab
	suggestionIdx int

	flushInterval time.Duration
	lastFlush     time.Time
}

// ModelConfig holds initial collaborators for the TUI model
type ModelConfig struct {
	Dispatcher *dispatch.Dispatcher
	Notifier   notify.Notifier
	// FlushInterval is the cadence for persisting in-flight session
	// progress; zero means 30s
	FlushInterval time.Duration
	Clock         func() time.Time
}

// NewModel creates a new TUI model
func NewModel(cfg ModelConfig) Model {
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NoopNotifier{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 30 * time.Second
	}

	ti := textinput.New()
	ti.Placeholder = "task text or /command (/h for help)"
	ti.Prompt = "❯ "
	ti.CharLimit = 0
	ti.Width = 80
	ti.Focus()

	return Model{
		d:             cfg.Dispatcher,
		notifier:      cfg.Notifier,
		clock:         cfg.Clock,
		input:         ti,
		historyIndex:  -1,
		flushInterval: cfg.FlushInterval,
		lastFlush:     cfg.Clock(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
	)
}

// TickMsg drives the clock display and the session countdown
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// FileChangedMsg reports an external write to the todo store; the
// watcher goroutine injects it via Program.Send
type FileChangedMsg struct{}
