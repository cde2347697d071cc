package parser

import (
	"regexp"
	"strings"
)

// Kind discriminates parsed input
type Kind int

const (
	// KindCommand is a slash command with positional arguments
	KindCommand Kind = iota
	// KindTodo is a task-creation line
	KindTodo
)

// Input is the result of parsing one raw line
type Input struct {
	Kind Kind

	// Command fields
	Name string
	Args []string

	// Todo fields
	Content string
	// Position is the 1-based insert position from a leading #N token; 0 means append
	Position int
	// Duration is the estimated minutes (default 60)
	Duration int
	// Warning carries a non-fatal duration policy rejection, if any
	Warning string
}

// aliases maps short command forms to canonical names
var aliases = map[string]string{
	"h":  "help",
	"?":  "help",
	"m":  "mode",
	"d":  "delete",
	"e":  "edit",
	"ok": "done",
	"u":  "undo",
	"t":  "tag",
	"p":  "priority",
	"s":  "sort",
	"st": "start",
	"ps": "pass",
	"pa": "pause",
	"r":  "resume",
	"sp": "stop",
	"th": "theme",
	"cd": "countdown",
	"tm": "timer",
	"cl": "clear",
	"rs": "reset",
	"q":  "quit",
	"hi": "history",
	"b":  "back",
}

// Resolve maps a command name or alias to its canonical name.
// Unknown names pass through unchanged.
func Resolve(name string) string {
	lower := strings.ToLower(name)
	if full, ok := aliases[lower]; ok {
		return full
	}
	return lower
}

var (
	positionRegex = regexp.MustCompile(`^#(\d+)\s+`)
	durationRegex = regexp.MustCompile(`\s+@(\S+)\s*$`)
)

// Parse turns one raw line into a command or a todo-creation input.
// Returns false for blank input and for task lines whose content is
// empty after stripping the position and duration markers.
//
// Commands start with "/". Todo format: [#N ]content[ @duration]
func Parse(raw string) (Input, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Input{}, false
	}

	if strings.HasPrefix(trimmed, "/") {
		parts := strings.Fields(trimmed[1:])
		if len(parts) == 0 {
			return Input{}, false
		}
		return Input{
			Kind: KindCommand,
			Name: Resolve(parts[0]),
			Args: parts[1:],
		}, true
	}

	content := trimmed
	position := 0
	if m := positionRegex.FindStringSubmatch(content); m != nil {
		position = atoi(m[1])
		content = content[len(m[0]):]
	}

	duration := defaultMinutes
	warning := ""
	if m := durationRegex.FindStringSubmatch(content); m != nil {
		duration, warning = ParseDuration(m[1])
		content = strings.TrimSpace(content[:len(content)-len(m[0])])
	}

	if content == "" {
		return Input{}, false
	}

	return Input{
		Kind:     KindTodo,
		Content:  content,
		Position: position,
		Duration: duration,
		Warning:  warning,
	}, true
}
