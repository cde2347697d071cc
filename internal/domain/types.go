package domain

// Status represents the lifecycle state of a todo item
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Priority represents todo priority
type Priority string

const (
	PriorityHigh Priority = "high"
	PriorityMid  Priority = "mid"
	PriorityLow  Priority = "low"
	PriorityNone Priority = "none"
)

// PriorityRank returns the sort rank for a priority (lower sorts first)
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMid:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// StatusRank returns the sort rank for a status (lower sorts first)
func StatusRank(s Status) int {
	switch s {
	case StatusInProgress:
		return 0
	case StatusPending:
		return 1
	default:
		return 2
	}
}

// Mode is the active display mode of the interactive UI
type Mode int

const (
	ModeClock Mode = iota + 1
	ModeTimer
	ModeCountdown
	ModeTodoCountdown
)

// String returns a display name for the mode
func (m Mode) String() string {
	switch m {
	case ModeClock:
		return "Clock"
	case ModeTimer:
		return "Timer"
	case ModeCountdown:
		return "Countdown"
	case ModeTodoCountdown:
		return "Todo Countdown"
	default:
		return "Unknown"
	}
}

// CountdownPresets maps two-digit preset tokens to minutes
var CountdownPresets = map[string]int{
	"01": 5,
	"02": 10,
	"03": 30,
	"04": 60,
}

// DefaultDuration is the estimated minutes assigned when no duration is given
const DefaultDuration = 60

// ProgressTheme defines the characters used to render a progress bar
type ProgressTheme struct {
	Name   string
	Filled string
	Empty  string
}

// ProgressThemes are the built-in progress bar themes, selectable via /theme
var ProgressThemes = []ProgressTheme{
	{Name: "classic", Filled: "█", Empty: "░"},
	{Name: "block", Filled: "■", Empty: "□"},
	{Name: "circle", Filled: "●", Empty: "○"},
	{Name: "shade", Filled: "▓", Empty: "░"},
	{Name: "arrow", Filled: "▸", Empty: "▹"},
	{Name: "star", Filled: "★", Empty: "☆"},
	{Name: "diamond", Filled: "◆", Empty: "◇"},
	{Name: "heart", Filled: "♥", Empty: "♡"},
}
