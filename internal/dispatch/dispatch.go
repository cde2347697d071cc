package dispatch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tickdone/tickdone/internal/config"
	"github.com/tickdone/tickdone/internal/domain"
	"github.com/tickdone/tickdone/internal/history"
	"github.com/tickdone/tickdone/internal/parser"
	"github.com/tickdone/tickdone/internal/session"
	"github.com/tickdone/tickdone/internal/store"
	"github.com/tickdone/tickdone/internal/todostore"
)

// Result is the user-facing outcome of one dispatched input
type Result struct {
	OK      bool
	Message string
	// Quit asks the caller to shut down (after FlushSession has run)
	Quit bool
	// Prefill asks the UI to load this text into the input bar for
	// editing instead of clearing it
	Prefill string
}

func ok(format string, args ...interface{}) Result {
	return Result{OK: true, Message: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...interface{}) Result {
	return Result{OK: false, Message: fmt.Sprintf(format, args...)}
}

// Dispatcher maps parsed input onto the todo store, the done-history
// ledger and the session engine. It owns the live collections and all
// view-level switches; persistence happens after every mutation.
type Dispatcher struct {
	files      *store.Files
	cfg        *config.Config
	configPath string
	logger     *zap.Logger
	clock      func() time.Time
	newID      todostore.IDGenerator

	Todos   []domain.TodoItem
	History []domain.DoneRecord

	Session   *session.Engine
	Stopwatch *session.Stopwatch
	Countdown *session.Countdown

	Mode        domain.Mode
	ThemeIndex  int
	ShowHelp    bool
	ShowHistory bool

	pendingCmd    string
	pendingExpiry time.Time
}

// Options configures a Dispatcher. Files may be nil for an in-memory
// instance; Clock and IDGen default to the real thing.
type Options struct {
	Files      *store.Files
	Config     *config.Config
	ConfigPath string
	Logger     *zap.Logger
	Clock      func() time.Time
	IDGen      todostore.IDGenerator
}

// New builds a Dispatcher, loading the persisted collections when a
// file store is given.
func New(opts Options) *Dispatcher {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.IDGen == nil {
		opts.IDGen = todostore.NewIDGenerator()
	}

	d := &Dispatcher{
		files:      opts.Files,
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		clock:      opts.Clock,
		newID:      opts.IDGen,
		Session:    session.NewEngine(opts.Clock),
		Stopwatch:  &session.Stopwatch{},
		Countdown:  &session.Countdown{},
		Mode:       domain.ModeClock,
		ThemeIndex: opts.Config.Display.ThemeIndex,
	}
	if d.files != nil {
		d.Todos = d.files.LoadTodos()
		d.History = d.files.LoadHistory()
	}
	return d
}

// Submit parses one raw line and executes it. The second return is
// false for blank or empty-content input, which produces no result.
func (d *Dispatcher) Submit(raw string) (Result, bool) {
	in, parsed := parser.Parse(raw)
	if !parsed {
		return Result{}, false
	}
	return d.Execute(in), true
}

// Execute runs one parsed input against the current state
func (d *Dispatcher) Execute(in parser.Input) Result {
	if in.Kind == parser.KindTodo {
		return d.addTodo(in)
	}

	switch in.Name {
	case "help":
		d.ShowHelp = !d.ShowHelp
		d.ShowHistory = false
		return Result{OK: true}
	case "quit":
		d.FlushSession()
		return Result{OK: true, Quit: true}
	case "mode":
		return d.cmdMode(in.Args)
	case "theme":
		return d.cmdTheme(in.Args)
	case "timer":
		return d.cmdTimer()
	case "countdown":
		return d.cmdCountdown(in.Args)
	case "pause":
		return d.cmdPause()
	case "resume":
		return d.cmdResume()
	case "stop":
		return d.cmdStop()
	case "delete":
		return d.cmdDelete(in.Args)
	case "edit":
		return d.cmdEdit(in.Args)
	case "done":
		return d.cmdDone(in.Args)
	case "undo":
		return d.cmdUndo(in.Args)
	case "tag":
		return d.cmdTag(in.Args)
	case "priority":
		return d.cmdPriority(in.Args)
	case "sort":
		return d.cmdSort(in.Args)
	case "clear":
		return d.cmdClear()
	case "reset":
		return d.cmdReset()
	case "start":
		return d.cmdStart(in.Args)
	case "pass":
		return d.cmdPass()
	case "history":
		d.ShowHistory = !d.ShowHistory
		d.ShowHelp = false
		if d.ShowHistory && d.files != nil {
			d.History = d.files.LoadHistory()
		}
		return Result{OK: true}
	case "back":
		d.ShowHistory = false
		return Result{OK: true}
	default:
		return fail("Unknown command: /%s. Type /h for help.", in.Name)
	}
}

func (d *Dispatcher) addTodo(in parser.Input) Result {
	item := todostore.New(in.Content, in.Duration, d.clock(), d.newID)
	d.Todos = todostore.Insert(d.Todos, item, in.Position)
	d.saveTodos()

	msg := fmt.Sprintf("Added: %q (@%dm)", in.Content, in.Duration)
	if in.Warning != "" {
		msg = in.Warning + " — " + msg
	}
	return Result{OK: true, Message: msg}
}

func (d *Dispatcher) cmdMode(args []string) Result {
	if len(args) == 1 {
		if m, err := strconv.Atoi(args[0]); err == nil && m >= 1 && m <= 4 {
			d.Mode = domain.Mode(m)
			return ok("Mode: %s", d.Mode)
		}
	}
	return fail("Invalid mode. Use 1-4.")
}

func (d *Dispatcher) cmdTheme(args []string) Result {
	if len(args) == 1 {
		if t, err := strconv.Atoi(args[0]); err == nil && t >= 1 && t <= len(domain.ProgressThemes) {
			d.ThemeIndex = t - 1
			d.cfg.Display.ThemeIndex = t - 1
			d.saveConfig()
			theme := domain.ProgressThemes[t-1]
			return ok("Theme: %s (%s%s)", theme.Name, theme.Filled, theme.Empty)
		}
	}
	return fail("Invalid theme. Use 1-%d.", len(domain.ProgressThemes))
}

func (d *Dispatcher) cmdTimer() Result {
	d.Mode = domain.ModeTimer
	if !d.Stopwatch.Running() {
		if d.Stopwatch.Elapsed(d.clock()) > 0 {
			d.Stopwatch.Resume(d.clock())
		} else {
			d.Stopwatch.Start(d.clock())
		}
		return ok("Timer started")
	}
	return Result{OK: true}
}

func (d *Dispatcher) cmdCountdown(args []string) Result {
	d.Mode = domain.ModeCountdown
	if len(args) == 0 {
		return fail("Usage: /cd <minutes> or /cd 01-04 for presets")
	}
	raw := args[0]
	minutes := 0
	if preset, found := domain.CountdownPresets[raw]; found {
		minutes = preset
	} else if n, err := strconv.Atoi(raw); err == nil {
		minutes = n
	}
	if minutes <= 0 {
		return fail("Invalid time.")
	}
	d.Countdown.Start(minutes, d.clock())
	return ok("Countdown: %d minutes", minutes)
}

func (d *Dispatcher) cmdPause() Result {
	now := d.clock()
	switch d.Mode {
	case domain.ModeTimer:
		if d.Stopwatch.Running() {
			d.Stopwatch.Pause(now)
			return ok("Timer paused")
		}
	case domain.ModeCountdown:
		if d.Countdown.Running() {
			d.Countdown.Pause(now)
			return ok("Countdown paused")
		}
	case domain.ModeTodoCountdown:
		if d.Session.Phase() == session.PhaseRunning {
			updated, _, err := d.Session.Pause(d.Todos)
			if err == nil {
				d.Todos = updated
				d.saveTodos()
				return ok("Task countdown paused")
			}
		}
	}
	return Result{OK: true}
}

func (d *Dispatcher) cmdResume() Result {
	now := d.clock()
	switch d.Mode {
	case domain.ModeTimer:
		if !d.Stopwatch.Running() && d.Stopwatch.Elapsed(now) > 0 {
			d.Stopwatch.Resume(now)
			return ok("Timer resumed")
		}
	case domain.ModeCountdown:
		if !d.Countdown.Running() && d.Countdown.Remaining(now) > 0 {
			d.Countdown.Resume(now)
			return ok("Countdown resumed")
		}
	case domain.ModeTodoCountdown:
		if d.Session.Phase() == session.PhasePaused {
			if err := d.Session.Resume(); err == nil {
				return ok("Task countdown resumed")
			}
		}
	}
	return Result{OK: true}
}

func (d *Dispatcher) cmdStop() Result {
	switch d.Mode {
	case domain.ModeTimer:
		d.Stopwatch.Reset()
		return ok("Timer reset")
	case domain.ModeCountdown:
		d.Countdown.Stop()
		return ok("Countdown stopped")
	case domain.ModeTodoCountdown:
		if d.Session.Active() {
			updated, err := d.Session.Stop(d.Todos)
			if err == nil {
				d.Todos = updated
				d.saveTodos()
			}
			d.Mode = domain.ModeClock
			return ok("Todo countdown stopped")
		}
	}
	return Result{OK: true}
}

var rangeRegex = regexp.MustCompile(`^(\d+)-(\d+)$`)

func (d *Dispatcher) cmdDelete(args []string) Result {
	if len(args) == 0 {
		return fail("Usage: /d <N|N-M|*>")
	}
	if d.ShowHistory {
		return d.deleteHistory(args[0])
	}

	arg := args[0]
	if arg == "*" {
		warning := fmt.Sprintf("Delete ALL %d items?", len(d.Todos))
		if pending := d.requireConfirm("delete*", warning); pending != nil {
			return *pending
		}
		for _, t := range d.Todos {
			if t.Status == domain.StatusDone {
				d.History = history.Append(d.History, t, d.clock())
			}
		}
		d.Todos = nil
		d.saveTodos()
		d.saveHistory()
		return ok("Deleted all items")
	}

	if m := rangeRegex.FindStringSubmatch(arg); m != nil {
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		start, end := orderRange(from, to)
		if start > len(d.Todos) || end < 1 {
			return fail("Invalid range: %s", arg)
		}
		if end > len(d.Todos) {
			end = len(d.Todos)
		}
		for i := start - 1; i < end; i++ {
			if d.Todos[i].Status == domain.StatusDone {
				d.History = history.Append(d.History, d.Todos[i], d.clock())
			}
		}
		d.Todos = todostore.DeleteRange(d.Todos, start, end)
		d.saveTodos()
		d.saveHistory()
		return ok("Deleted items %d-%d (%d items)", start, end, end-start+1)
	}

	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 1 || idx > len(d.Todos) {
		return fail("Invalid index: %s", arg)
	}
	if d.Todos[idx-1].Status == domain.StatusDone {
		d.History = history.Append(d.History, d.Todos[idx-1], d.clock())
		d.saveHistory()
	}
	d.Todos = todostore.Delete(d.Todos, idx)
	d.saveTodos()
	return ok("Deleted item %d", idx)
}

func (d *Dispatcher) deleteHistory(arg string) Result {
	if arg == "*" {
		warning := fmt.Sprintf("Delete ALL %d history records?", len(d.History))
		if pending := d.requireConfirm("delete-history*", warning); pending != nil {
			return *pending
		}
		d.History = nil
		d.saveHistory()
		return ok("Deleted all history records")
	}
	if m := rangeRegex.FindStringSubmatch(arg); m != nil {
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		start, end := orderRange(from, to)
		if end > len(d.History) {
			end = len(d.History)
		}
		d.History = history.DeleteRange(d.History, from, to)
		d.saveHistory()
		count := end - start + 1
		if count < 0 {
			count = 0
		}
		return ok("Deleted history records %d-%d (%d items)", start, end, count)
	}
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 1 || idx > len(d.History) {
		return fail("Invalid index: %s", arg)
	}
	d.History = history.DeleteAt(d.History, idx)
	d.saveHistory()
	return ok("Deleted history record %d", idx)
}

func (d *Dispatcher) cmdEdit(args []string) Result {
	if len(args) == 0 {
		return fail("Usage: /e <N> <text|#pos|@min>")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 1 || idx > len(d.Todos) {
		return fail("Invalid index: %s", args[0])
	}

	// Bare /e N loads the task into the input bar for in-place editing
	if len(args) == 1 {
		todo := d.Todos[idx-1]
		var sb strings.Builder
		fmt.Fprintf(&sb, "/e %d %s", idx, todo.Content)
		for _, tag := range todo.Tags {
			fmt.Fprintf(&sb, " #%s", tag)
		}
		fmt.Fprintf(&sb, " @%d", todo.Duration)
		return Result{OK: true, Prefill: sb.String()}
	}

	arg := args[1]
	switch {
	case strings.HasPrefix(arg, "#") && len(args) == 2:
		to, err := strconv.Atoi(arg[1:])
		if err != nil || to < 1 {
			return fail("Invalid position: %s", arg)
		}
		d.Todos = todostore.Move(d.Todos, idx, to)
		d.saveTodos()
		return ok("Moved item %d to position %d", idx, to)

	case strings.HasPrefix(arg, "@") && len(args) == 2:
		dur, err := strconv.Atoi(arg[1:])
		if err != nil || dur < 1 {
			return fail("Invalid duration: %s", arg)
		}
		d.Todos = todostore.SetDuration(d.Todos, idx, dur)
		d.saveTodos()
		return ok("Set item %d duration to %dm", idx, dur)

	default:
		text := strings.Join(args[1:], " ")
		newDuration := 0
		if m := trailingDurationRegex.FindStringSubmatch(text); m != nil {
			newDuration, _ = strconv.Atoi(m[1])
			text = strings.TrimSpace(text[:len(text)-len(m[0])])
		}
		if text == "" {
			return fail("Nothing to edit.")
		}
		d.Todos = todostore.Edit(d.Todos, idx, text)
		durHint := ""
		if newDuration > 0 {
			d.Todos = todostore.SetDuration(d.Todos, idx, newDuration)
			durHint = fmt.Sprintf(" (@%dm)", newDuration)
		}
		d.saveTodos()
		return ok("Edited item %d%s", idx, durHint)
	}
}

var trailingDurationRegex = regexp.MustCompile(`\s+@(\d+)\s*$`)

func (d *Dispatcher) cmdDone(args []string) Result {
	now := d.clock()

	// Bare /done during a session completes the current task and advances
	if len(args) == 0 && d.Mode == domain.ModeTodoCountdown && d.Session.Active() {
		return d.advanceSession(true)
	}

	if len(args) == 0 {
		return fail("Usage: /ok <N|*>")
	}

	if args[0] == "*" {
		count := 0
		for i, t := range d.Todos {
			if t.Status == domain.StatusDone {
				continue
			}
			d.History = history.Append(d.History, t, now)
			d.Todos = todostore.MarkDone(d.Todos, i+1, now)
			count++
		}
		d.saveTodos()
		d.saveHistory()
		return ok("Completed all %d items", count)
	}

	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 1 || idx > len(d.Todos) {
		return fail("Invalid index: %s", args[0])
	}
	if d.Todos[idx-1].Status != domain.StatusDone {
		d.History = history.Append(d.History, d.Todos[idx-1], now)
		d.saveHistory()
	}
	d.Todos = todostore.MarkDone(d.Todos, idx, now)
	d.saveTodos()
	return ok("Completed item %d", idx)
}

func (d *Dispatcher) cmdUndo(args []string) Result {
	if len(args) == 0 {
		return fail("Usage: /u <N|*>")
	}
	if args[0] == "*" {
		count := 0
		for i, t := range d.Todos {
			if t.Status == domain.StatusDone {
				d.Todos = todostore.MarkUndone(d.Todos, i+1)
				count++
			}
		}
		d.saveTodos()
		return ok("Restored %d items to pending", count)
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 1 || idx > len(d.Todos) {
		return fail("Invalid index: %s", args[0])
	}
	d.Todos = todostore.MarkUndone(d.Todos, idx)
	d.saveTodos()
	return ok("Restored item %d to pending", idx)
}

func (d *Dispatcher) cmdTag(args []string) Result {
	if len(args) < 2 {
		return fail("Usage: /t <N|*> <tag>")
	}
	tag := args[1]
	if args[0] == "*" {
		for i := range d.Todos {
			d.Todos = todostore.SetTag(d.Todos, i+1, tag)
		}
		d.saveTodos()
		return ok("Tagged all items with #%s", tag)
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 1 || idx > len(d.Todos) {
		return fail("Invalid index: %s", args[0])
	}
	d.Todos = todostore.SetTag(d.Todos, idx, tag)
	d.saveTodos()
	return ok("Tagged item %d with #%s", idx, tag)
}

var priorityNames = map[string]domain.Priority{
	"h": domain.PriorityHigh, "high": domain.PriorityHigh,
	"m": domain.PriorityMid, "mid": domain.PriorityMid,
	"l": domain.PriorityLow, "low": domain.PriorityLow,
}

func (d *Dispatcher) cmdPriority(args []string) Result {
	if len(args) < 2 {
		return fail("Usage: /p <N|*> <h|m|l>")
	}
	p, found := priorityNames[strings.ToLower(args[1])]
	if !found {
		return fail("Invalid priority: %s", args[1])
	}
	if args[0] == "*" {
		for i := range d.Todos {
			d.Todos = todostore.SetPriority(d.Todos, i+1, p)
		}
		d.saveTodos()
		return ok("Set all items priority to %s", p)
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 1 || idx > len(d.Todos) {
		return fail("Invalid index: %s", args[0])
	}
	d.Todos = todostore.SetPriority(d.Todos, idx, p)
	d.saveTodos()
	return ok("Set item %d priority to %s", idx, p)
}

func (d *Dispatcher) cmdSort(args []string) Result {
	by := "priority"
	if len(args) > 0 {
		by = args[0]
	}
	d.Todos = todostore.Sort(d.Todos, by)
	d.saveTodos()
	return ok("Sorted by %s", by)
}

func (d *Dispatcher) cmdClear() Result {
	for _, t := range d.Todos {
		if t.Status == domain.StatusDone {
			d.History = history.Append(d.History, t, d.clock())
		}
	}
	d.Todos = todostore.ClearDone(d.Todos)
	d.saveTodos()
	d.saveHistory()
	return ok("Cleared completed items")
}

func (d *Dispatcher) cmdReset() Result {
	if d.Session.Active() {
		d.Session.Stop(d.Todos)
		d.Mode = domain.ModeClock
	}
	d.Todos = todostore.ResetAll(d.Todos)
	d.saveTodos()
	return ok("All tasks reset to pending")
}

func (d *Dispatcher) cmdStart(args []string) Result {
	if len(args) == 0 {
		return fail("Usage: /st 1 2 3  or  /st *")
	}

	var indices []int
	if args[0] == "*" {
		for i, t := range d.Todos {
			if t.Status != domain.StatusDone {
				indices = append(indices, i+1)
			}
		}
		if len(indices) == 0 {
			return fail("No pending tasks.")
		}
	} else {
		for _, tok := range strings.Split(strings.Join(args, ","), ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			if n, err := strconv.Atoi(tok); err == nil && n >= 1 {
				indices = append(indices, n)
			}
		}
		if len(indices) == 0 {
			return fail("Usage: /st 1 2 3  or  /st *")
		}
	}

	var skipped []string
	var ids []string
	seen := make(map[string]bool)
	for _, i := range indices {
		if i > len(d.Todos) {
			skipped = append(skipped, fmt.Sprintf("#%d(not found)", i))
			continue
		}
		t := d.Todos[i-1]
		if t.Status == domain.StatusDone {
			skipped = append(skipped, fmt.Sprintf("#%d(done)", i))
			continue
		}
		if !seen[t.ID] {
			seen[t.ID] = true
			ids = append(ids, t.ID)
		}
	}

	prefix := ""
	if len(skipped) > 0 {
		prefix = fmt.Sprintf("Skipped: %s. ", strings.Join(skipped, ", "))
	}

	if d.Session.Active() && d.Mode == domain.ModeTodoCountdown {
		merged, err := d.Session.Merge(ids, d.Todos)
		if err != nil {
			return fail("%sNo active session to merge into.", prefix)
		}
		var display []string
		for _, id := range merged {
			display = append(display, fmt.Sprintf("#%d", todostore.IndexByID(d.Todos, id)))
		}
		return ok("%sQueue updated: %s", prefix, strings.Join(display, " → "))
	}

	res, err := d.Session.Start(ids, d.Todos)
	if err != nil {
		return fail("%sNo pending tasks to start.", prefix)
	}
	d.Todos = res.UpdatedTodos
	d.Mode = domain.ModeTodoCountdown
	d.saveTodos()

	hint := ""
	if res.ResumedFrom > 0 {
		hint = fmt.Sprintf(" (resuming from %s)", domain.FormatSeconds(res.ResumedFrom))
	}
	return ok("%sStarted: %s (%dm)%s", prefix, res.Task.Content, res.Task.Duration, hint)
}

func (d *Dispatcher) cmdPass() Result {
	if d.Mode != domain.ModeTodoCountdown || !d.Session.Active() {
		return Result{OK: true}
	}
	res := d.advanceSession(false)
	if res.OK && res.Message != "" {
		res.Message = "Skipped current task. " + res.Message
	}
	return res
}

// advanceSession finalizes the current session task and reports what
// happened next. Completed tasks land in the ledger before the todo
// save, so a concurrent deletion cannot race the record away.
func (d *Dispatcher) advanceSession(markComplete bool) Result {
	res, err := d.Session.Advance(d.Todos, markComplete)
	if err != nil {
		return fail("No active session.")
	}
	d.Todos = res.UpdatedTodos
	if res.Completed != nil {
		d.History = history.Append(d.History, *res.Completed, d.clock())
		d.saveHistory()
	}
	d.saveTodos()

	prefix := ""
	if len(res.Skipped) > 0 {
		prefix = fmt.Sprintf("Skipped: %s. ", strings.Join(res.Skipped, ", "))
	}
	if res.Finished {
		d.Mode = domain.ModeClock
		return ok("%sAll tasks complete!", prefix)
	}
	hint := ""
	if res.ResumedFrom > 0 {
		hint = fmt.Sprintf(" (resuming from %s)", domain.FormatSeconds(res.ResumedFrom))
	}
	return ok("%sNext task: %s%s", prefix, res.Next.Content, hint)
}

// CurrentSessionTask returns the live record of the task the session
// is pointed at, if any.
func (d *Dispatcher) CurrentSessionTask() (domain.TodoItem, bool) {
	id := d.Session.CurrentID()
	if id == "" {
		return domain.TodoItem{}, false
	}
	return todostore.FindByID(d.Todos, id)
}

// FlushSession persists the in-flight task's accumulated time. Called
// on quit, on signals and on the periodic flush cadence; it must run
// before any other shutdown side effect.
func (d *Dispatcher) FlushSession() {
	if !d.Session.Active() {
		return
	}
	d.Todos = d.Session.FlushProgress(d.Todos)
	d.saveTodos()
}

// ReloadTodos replaces the live sequence from disk after an external
// write was observed. Session queues keep their ids; skip logic copes
// with entries the reload removed.
func (d *Dispatcher) ReloadTodos() {
	if d.files == nil {
		return
	}
	d.Todos = d.files.LoadTodos()
}

// requireConfirm implements the repeat-to-confirm gate for destructive
// bulk commands. The first invocation of a key arms a time-boxed
// pending confirmation and returns the warning result; a repeat of the
// same key inside the window returns nil, meaning proceed. Expiry is
// checked against the wall clock at use time, a stale confirmation is
// re-armed rather than executed.
func (d *Dispatcher) requireConfirm(key, warning string) *Result {
	now := d.clock()
	if d.pendingCmd == key && now.Before(d.pendingExpiry) {
		d.pendingCmd = ""
		d.pendingExpiry = time.Time{}
		return nil
	}

	window := time.Duration(d.cfg.Session.ConfirmWindowSec) * time.Second
	if window <= 0 {
		window = 5 * time.Second
	}
	d.pendingCmd = key
	d.pendingExpiry = now.Add(window)
	res := fail("%s — repeat to confirm (%ds)", warning, int(window/time.Second))
	return &res
}

func (d *Dispatcher) saveTodos() {
	if d.files == nil {
		return
	}
	if err := d.files.SaveTodos(d.Todos); err != nil {
		d.logger.Warn("save todos", zap.Error(err))
	}
}

func (d *Dispatcher) saveHistory() {
	if d.files == nil {
		return
	}
	if err := d.files.SaveHistory(d.History); err != nil {
		d.logger.Warn("save history", zap.Error(err))
	}
}

func (d *Dispatcher) saveConfig() {
	if d.configPath == "" {
		return
	}
	if err := config.Save(d.cfg, d.configPath); err != nil {
		d.logger.Warn("save config", zap.Error(err))
	}
}

func orderRange(from, to int) (int, int) {
	if from > to {
		from, to = to, from
	}
	if from < 1 {
		from = 1
	}
	return from, to
}
