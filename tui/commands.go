package tui

import "strings"

// CommandDef describes one slash command for the help panel and
// autocomplete
type CommandDef struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
}

// Commands is the full catalog shown by /help
var Commands = []CommandDef{
	{"help", []string{"h", "?"}, "/help", "Show/hide help panel"},
	{"quit", []string{"q"}, "/quit", "Save progress and exit"},
	{"mode", []string{"m"}, "/mode <1-4>", "Switch mode (1=Clock 2=Timer 3=Countdown 4=TodoCD)"},
	{"theme", []string{"th"}, "/theme <1-8>", "Switch progress bar theme"},
	{"timer", []string{"tm"}, "/timer", "Start/switch to stopwatch mode"},
	{"countdown", []string{"cd"}, "/countdown <min|01-04>", "Start countdown (01=5m 02=10m 03=30m 04=60m)"},
	{"pause", []string{"pa"}, "/pause", "Pause current timer/countdown"},
	{"resume", []string{"r"}, "/resume", "Resume paused timer/countdown"},
	{"stop", []string{"sp"}, "/stop", "Stop and reset timer/countdown"},
	{"start", []string{"st"}, "/start <N,N,...|*>", "Start sequential todo countdown (* = all pending)"},
	{"done", []string{"ok"}, "/done [N|*]", "Mark todo done (* = all), or complete current task"},
	{"undo", []string{"u"}, "/undo <N|*>", "Restore to pending (* = all completed)"},
	{"pass", []string{"ps"}, "/pass", "Skip current task without completing"},
	{"delete", []string{"d"}, "/delete <N|N-M|*>", "Delete todo item (N-M = range, * = all)"},
	{"edit", []string{"e"}, "/edit <N> <text|#pos|@min>", "Edit content, move (#N), or set duration (@N)"},
	{"tag", []string{"t"}, "/tag <N|*> <tag>", "Add tag to todo item"},
	{"priority", []string{"p"}, "/priority <N|*> <h|m|l>", "Set priority"},
	{"sort", []string{"s"}, "/sort <p|s|c>", "Sort todos (p=priority s=status c=created)"},
	{"clear", []string{"cl"}, "/clear", "Remove all completed todos"},
	{"reset", []string{"rs"}, "/reset", "Reset all todos to pending"},
	{"history", []string{"hi"}, "/history", "Show/hide completed task history"},
	{"back", []string{"b"}, "/back", "Return from history view"},
}

// MatchCommands returns the commands whose name or an alias starts
// with the given partial (case-insensitive). An empty partial matches
// everything.
func MatchCommands(partial string) []CommandDef {
	lower := strings.ToLower(partial)
	if lower == "" {
		return Commands
	}
	var out []CommandDef
	for _, cmd := range Commands {
		if strings.HasPrefix(cmd.Name, lower) {
			out = append(out, cmd)
			continue
		}
		for _, alias := range cmd.Aliases {
			if strings.HasPrefix(alias, lower) {
				out = append(out, cmd)
				break
			}
		}
	}
	return out
}
