package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/tickdone/tickdone/internal/domain"
	"github.com/tickdone/tickdone/internal/todostore"
)

// Phase is the explicit state of the todo-countdown session. Keeping it
// a closed enum (instead of a bag of booleans) makes combinations like
// "paused and waiting for action" unrepresentable.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
)

// ErrNoEligibleTasks is returned by Start when every selected task is
// missing or already done.
var ErrNoEligibleTasks = errors.New("no eligible tasks")

// ErrNotActive is returned by operations that require a session
var ErrNotActive = errors.New("no active session")

// Engine drives one sequential todo-countdown session: a queue of task
// ids executed one at a time against their estimated duration, with
// pause/resume, overtime and queue merging.
//
// The engine never persists anything itself. Operations that touch
// task records take the live sequence and return an updated copy; the
// caller owns saving. Wall-clock time comes from the injected clock.
type Engine struct {
	clock func() time.Time

	phase   Phase
	queue   []string
	current int

	// totalSeconds is the full allotment (duration*60) of the current task
	totalSeconds int
	// previousActual is the task's accumulated seconds before this session
	previousActual int
	// baseRemaining is the remaining seconds when the current run
	// segment began; remaining is always baseRemaining minus the time
	// elapsed since startedAt, never stored while running
	baseRemaining int
	startedAt     time.Time

	overtime bool
	waiting  bool

	// actualTimes accumulates seconds spent per task id as the queue advances
	actualTimes map[string]int
}

// NewEngine creates an idle engine using the given clock
// (nil means time.Now).
func NewEngine(clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{clock: clock, phase: PhaseIdle}
}

// Phase returns the current session phase
func (e *Engine) Phase() Phase { return e.phase }

// Active reports whether a session exists (running or paused)
func (e *Engine) Active() bool { return e.phase != PhaseIdle }

// Queue returns a copy of the session queue
func (e *Engine) Queue() []string { return append([]string(nil), e.queue...) }

// CurrentIndex returns the position of the active task in the queue
func (e *Engine) CurrentIndex() int { return e.current }

// CurrentID returns the id of the active task, or "" when idle
func (e *Engine) CurrentID() string {
	if e.phase == PhaseIdle || e.current >= len(e.queue) {
		return ""
	}
	return e.queue[e.current]
}

// TotalSeconds returns the full allotment of the current task
func (e *Engine) TotalSeconds() int { return e.totalSeconds }

// PreviousActual returns the seconds the current task had accumulated
// before this session touched it
func (e *Engine) PreviousActual() int { return e.previousActual }

// Overtime reports whether the current task has exhausted its allotment
func (e *Engine) Overtime() bool { return e.overtime }

// WaitingForAction reports whether overtime has begun and the user has
// not yet completed or skipped the task
func (e *Engine) WaitingForAction() bool { return e.waiting }

// ActualTimes returns a copy of the per-task seconds recorded so far
func (e *Engine) ActualTimes() map[string]int {
	out := make(map[string]int, len(e.actualTimes))
	for id, secs := range e.actualTimes {
		out[id] = secs
	}
	return out
}

// Remaining returns the current task's remaining seconds (negative in
// overtime). Zero when idle.
func (e *Engine) Remaining() int {
	switch e.phase {
	case PhaseRunning:
		return e.baseRemaining - e.segmentElapsed()
	case PhasePaused:
		return e.baseRemaining
	default:
		return 0
	}
}

// StartResult describes the task a session (re)started on
type StartResult struct {
	UpdatedTodos []domain.TodoItem
	Task         domain.TodoItem
	// ResumedFrom is the seconds already on the task before this
	// session, for a "resuming from" hint; 0 for a fresh task
	ResumedFrom int
}

// Start begins a session over the given task ids, preserving the caller
// order and dropping duplicates, missing ids and done tasks. The first
// eligible task is marked in_progress in the returned sequence.
func (e *Engine) Start(ids []string, todos []domain.TodoItem) (StartResult, error) {
	eligible := eligibleIDs(ids, todos)
	if len(eligible) == 0 {
		return StartResult{}, ErrNoEligibleTasks
	}

	e.queue = eligible
	e.current = 0
	e.actualTimes = make(map[string]int)

	task, _ := todostore.FindByID(todos, eligible[0])
	updated := e.beginTask(task, todos)

	return StartResult{
		UpdatedTodos: updated,
		Task:         task,
		ResumedFrom:  task.ActualTime,
	}, nil
}

// TickResult is the outcome of one clock tick
type TickResult struct {
	// Active is false when no session is running (paused included)
	Active bool
	// Remaining seconds; negative once in overtime
	Remaining int
	// EnteredOvertime is true on exactly the tick that crossed zero
	EnteredOvertime bool
}

// Tick recomputes remaining time and detects the overtime boundary.
// The boundary fires exactly once per overtime entry; callers trigger
// the external notification on EnteredOvertime.
func (e *Engine) Tick() TickResult {
	if e.phase != PhaseRunning {
		return TickResult{}
	}
	remaining := e.baseRemaining - e.segmentElapsed()
	entered := false
	if remaining <= 0 && !e.overtime {
		e.overtime = true
		e.waiting = true
		entered = true
	}
	return TickResult{Active: true, Remaining: remaining, EnteredOvertime: entered}
}

// Pause freezes the countdown and flushes the current task's actual
// time into the returned sequence, so progress survives a crash while
// paused. Returns the frozen remaining seconds.
func (e *Engine) Pause(todos []domain.TodoItem) ([]domain.TodoItem, int, error) {
	if e.phase != PhaseRunning {
		return todos, 0, ErrNotActive
	}
	remaining := e.baseRemaining - e.segmentElapsed()
	updated := todostore.SetActualTime(todos, e.CurrentID(), e.currentActual())

	e.baseRemaining = remaining
	e.phase = PhasePaused
	e.startedAt = time.Time{}
	return updated, remaining, nil
}

// Resume continues a paused session from the frozen remaining time
func (e *Engine) Resume() error {
	if e.phase != PhasePaused {
		return ErrNotActive
	}
	e.phase = PhaseRunning
	e.startedAt = e.clock()
	return nil
}

// AdvanceResult describes one queue advancement
type AdvanceResult struct {
	UpdatedTodos []domain.TodoItem
	// Completed is the finished task snapshot (actual time and
	// completion stamp applied) when the advance marked it done;
	// the caller appends it to the ledger before any further mutation
	Completed *domain.TodoItem
	// Skipped lists queue entries passed over because they were
	// deleted or already done, for a user-facing summary
	Skipped []string
	// Finished is true when the queue is exhausted and the session ended
	Finished bool
	// Next is the task now current, nil when Finished
	Next *domain.TodoItem
	// ResumedFrom is Next's previously accumulated seconds
	ResumedFrom int
}

// Advance finalizes the current task (optionally completing it) and
// moves to the next eligible queue entry, skipping tasks that were
// deleted or completed out-of-band since the queue was built.
func (e *Engine) Advance(todos []domain.TodoItem, markComplete bool) (AdvanceResult, error) {
	if e.phase == PhaseIdle {
		return AdvanceResult{}, ErrNotActive
	}

	now := e.clock()
	currentID := e.CurrentID()
	actual := e.currentActual()
	e.actualTimes[currentID] = actual

	updated := todostore.SetActualTime(todos, currentID, actual)
	res := AdvanceResult{}

	if markComplete {
		if idx := todostore.IndexByID(updated, currentID); idx > 0 {
			updated = todostore.MarkDone(updated, idx, now)
			done, _ := todostore.FindByID(updated, currentID)
			res.Completed = &done
		}
	}

	next := e.current + 1
	for next < len(e.queue) {
		candidate, ok := todostore.FindByID(updated, e.queue[next])
		if !ok {
			res.Skipped = append(res.Skipped, "(deleted)")
			next++
			continue
		}
		if candidate.Status == domain.StatusDone {
			res.Skipped = append(res.Skipped, fmt.Sprintf("%q(done)", candidate.Content))
			next++
			continue
		}
		break
	}

	if next >= len(e.queue) {
		e.reset()
		res.UpdatedTodos = updated
		res.Finished = true
		return res, nil
	}

	e.current = next
	task, _ := todostore.FindByID(updated, e.queue[next])
	updated = e.beginTask(task, updated)

	res.UpdatedTodos = updated
	res.Next = &task
	res.ResumedFrom = task.ActualTime
	return res, nil
}

// Merge blends a fresh selection into the live queue without disturbing
// the in-flight task: the current task moves to position 0, old tail
// entries not superseded by the new selection keep their order, then
// the new selection is appended. Returns the merged queue.
func (e *Engine) Merge(ids []string, todos []domain.TodoItem) ([]string, error) {
	if e.phase == PhaseIdle {
		return nil, ErrNotActive
	}

	incoming := eligibleIDs(ids, todos)
	currentID := e.CurrentID()

	inIncoming := make(map[string]bool, len(incoming))
	for _, id := range incoming {
		inIncoming[id] = true
	}

	merged := []string{currentID}
	seen := map[string]bool{currentID: true}

	for i := e.current + 1; i < len(e.queue); i++ {
		id := e.queue[i]
		if inIncoming[id] || seen[id] {
			continue
		}
		task, ok := todostore.FindByID(todos, id)
		if !ok || task.Status == domain.StatusDone {
			continue
		}
		merged = append(merged, id)
		seen[id] = true
	}

	for _, id := range incoming {
		if seen[id] {
			continue
		}
		merged = append(merged, id)
		seen[id] = true
	}

	e.queue = merged
	e.current = 0
	return append([]string(nil), merged...), nil
}

// Stop flushes the current task's actual time and discards the session
// regardless of completion status.
func (e *Engine) Stop(todos []domain.TodoItem) ([]domain.TodoItem, error) {
	if e.phase == PhaseIdle {
		return todos, ErrNotActive
	}
	updated := todostore.SetActualTime(todos, e.CurrentID(), e.currentActual())
	e.reset()
	return updated, nil
}

// FlushProgress persists the current task's accumulated seconds into
// the returned sequence without altering session state. Called on a
// fixed cadence while running, and synchronously on process exit, to
// bound data loss on ungraceful termination.
func (e *Engine) FlushProgress(todos []domain.TodoItem) []domain.TodoItem {
	if e.phase == PhaseIdle {
		return todos
	}
	return todostore.SetActualTime(todos, e.CurrentID(), e.currentActual())
}

// beginTask points the countdown at task, marks it in_progress and
// starts a new run segment.
func (e *Engine) beginTask(task domain.TodoItem, todos []domain.TodoItem) []domain.TodoItem {
	total := task.Duration * 60
	if total <= 0 {
		total = domain.DefaultDuration * 60
	}
	e.totalSeconds = total
	e.previousActual = task.ActualTime
	e.baseRemaining = total - task.ActualTime
	e.overtime = e.baseRemaining <= 0
	e.waiting = e.overtime
	e.phase = PhaseRunning
	e.startedAt = e.clock()

	if idx := todostore.IndexByID(todos, task.ID); idx > 0 {
		return todostore.SetStatus(todos, idx, domain.StatusInProgress)
	}
	return todos
}

// currentActual is the total seconds spent on the current task across
// all sessions: its prior accumulation plus everything this session
// has consumed of the allotment.
func (e *Engine) currentActual() int {
	spent := e.totalSeconds - e.baseRemaining // earlier segments + prior sessions
	if e.phase == PhaseRunning {
		spent += e.segmentElapsed()
	}
	if spent < 0 {
		spent = 0
	}
	return spent
}

func (e *Engine) segmentElapsed() int {
	if e.startedAt.IsZero() {
		return 0
	}
	return int(e.clock().Sub(e.startedAt) / time.Second)
}

func (e *Engine) reset() {
	e.phase = PhaseIdle
	e.queue = nil
	e.current = 0
	e.totalSeconds = 0
	e.previousActual = 0
	e.baseRemaining = 0
	e.startedAt = time.Time{}
	e.overtime = false
	e.waiting = false
}

// eligibleIDs filters ids down to existing, not-done tasks, preserving
// order and dropping duplicates.
func eligibleIDs(ids []string, todos []domain.TodoItem) []string {
	var out []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		task, ok := todostore.FindByID(todos, id)
		if !ok || task.Status == domain.StatusDone {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
