package dispatch

import (
	"strings"
	"testing"
	"time"

	"github.com/tickdone/tickdone/internal/domain"
	"github.com/tickdone/tickdone/internal/parser"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestDispatcher(t *testing.T) (*Dispatcher, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	seq := 0
	d := New(Options{
		Clock: clock.Now,
		IDGen: func() string {
			seq++
			return string(rune('a' + seq - 1))
		},
	})
	return d, clock
}

func submit(t *testing.T, d *Dispatcher, line string) Result {
	t.Helper()
	res, handled := d.Submit(line)
	if !handled {
		t.Fatalf("input %q was not handled", line)
	}
	return res
}

func TestAddDoneClear(t *testing.T) {
	d, _ := newTestDispatcher(t)

	res := submit(t, d, "Buy milk @30")
	if !res.OK {
		t.Fatalf("add failed: %s", res.Message)
	}
	if len(d.Todos) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(d.Todos))
	}
	if d.Todos[0].Status != domain.StatusPending || d.Todos[0].Duration != 30 {
		t.Errorf("unexpected todo: %+v", d.Todos[0])
	}

	res = submit(t, d, "/done 1")
	if !res.OK {
		t.Fatalf("done failed: %s", res.Message)
	}
	if d.Todos[0].Status != domain.StatusDone {
		t.Errorf("status = %s, want done", d.Todos[0].Status)
	}
	if len(d.History) != 1 || d.History[0].Content != "Buy milk" {
		t.Fatalf("expected one history record, got %+v", d.History)
	}

	submit(t, d, "/clear")
	if len(d.Todos) != 0 {
		t.Errorf("expected empty todos after clear, got %d", len(d.Todos))
	}
	if len(d.History) != 1 {
		t.Errorf("history should survive clear, got %d records", len(d.History))
	}
}

func TestDeleteAllConfirmGate(t *testing.T) {
	d, clock := newTestDispatcher(t)
	submit(t, d, "one")
	submit(t, d, "two")

	res := submit(t, d, "/delete *")
	if res.OK {
		t.Fatal("first delete * should not execute")
	}
	if !strings.Contains(res.Message, "repeat to confirm") {
		t.Errorf("unexpected message: %s", res.Message)
	}
	if len(d.Todos) != 2 {
		t.Fatalf("todos mutated by pending confirmation")
	}

	res = submit(t, d, "/delete *")
	if !res.OK {
		t.Fatalf("second delete * should execute: %s", res.Message)
	}
	if len(d.Todos) != 0 {
		t.Errorf("expected all deleted, got %d", len(d.Todos))
	}

	// An expired confirmation re-arms instead of executing
	submit(t, d, "three")
	submit(t, d, "/delete *")
	clock.Advance(6 * time.Second)
	res = submit(t, d, "/delete *")
	if res.OK {
		t.Fatal("stale confirmation must not execute")
	}
	if len(d.Todos) != 1 {
		t.Errorf("todos mutated past an expired window")
	}
}

func TestConfirmKeysAreIndependent(t *testing.T) {
	d, _ := newTestDispatcher(t)
	submit(t, d, "task")
	d.History = append(d.History, domain.DoneRecord{ID: "x", Content: "old"})

	submit(t, d, "/delete *")
	d.ShowHistory = true
	res := submit(t, d, "/delete *")
	if res.OK {
		t.Fatal("history delete must arm its own confirmation")
	}
	if len(d.History) != 1 {
		t.Errorf("history mutated by a todo-delete confirmation")
	}
}

func TestDeleteDoneTaskRecordsHistory(t *testing.T) {
	d, _ := newTestDispatcher(t)
	submit(t, d, "keep")
	submit(t, d, "drop")
	submit(t, d, "/done 2")
	if len(d.History) != 1 {
		t.Fatalf("expected 1 record after done, got %d", len(d.History))
	}

	submit(t, d, "/delete 2")
	if len(d.Todos) != 1 {
		t.Fatalf("expected 1 todo left, got %d", len(d.Todos))
	}
	// Append is idempotent by id, the done record stays single
	if len(d.History) != 1 {
		t.Errorf("expected 1 record after delete, got %d", len(d.History))
	}
}

func TestHistoryViewDeleteRouting(t *testing.T) {
	d, _ := newTestDispatcher(t)
	submit(t, d, "live task")
	d.History = []domain.DoneRecord{
		{ID: "r1", Content: "first"},
		{ID: "r2", Content: "second"},
	}

	submit(t, d, "/history")
	if !d.ShowHistory {
		t.Fatal("history view should be showing")
	}

	res := submit(t, d, "/delete 1")
	if !res.OK {
		t.Fatalf("history delete failed: %s", res.Message)
	}
	if len(d.History) != 1 || d.History[0].ID != "r2" {
		t.Errorf("unexpected history: %+v", d.History)
	}
	if len(d.Todos) != 1 {
		t.Errorf("todo deleted while history view active")
	}
}

func TestEditVariants(t *testing.T) {
	d, _ := newTestDispatcher(t)
	submit(t, d, "alpha")
	submit(t, d, "beta")

	res := submit(t, d, "/edit 1 #2")
	if !res.OK {
		t.Fatalf("move failed: %s", res.Message)
	}
	if d.Todos[0].Content != "beta" || d.Todos[1].Content != "alpha" {
		t.Errorf("move order wrong: %s, %s", d.Todos[0].Content, d.Todos[1].Content)
	}

	res = submit(t, d, "/edit 1 @45")
	if !res.OK || d.Todos[0].Duration != 45 {
		t.Errorf("duration edit: %s, dur=%d", res.Message, d.Todos[0].Duration)
	}

	res = submit(t, d, "/edit 2 rewritten text @15")
	if !res.OK {
		t.Fatalf("content edit failed: %s", res.Message)
	}
	if d.Todos[1].Content != "rewritten text" || d.Todos[1].Duration != 15 {
		t.Errorf("content edit: %+v", d.Todos[1])
	}

	res = submit(t, d, "/edit 5 text")
	if res.OK {
		t.Error("out-of-range edit should fail")
	}
}

func TestEditPrefill(t *testing.T) {
	d, _ := newTestDispatcher(t)
	submit(t, d, "write report @25")
	submit(t, d, "/tag 1 work")

	res := submit(t, d, "/edit 1")
	if !res.OK {
		t.Fatalf("prefill failed: %s", res.Message)
	}
	want := "/e 1 write report #work @25"
	if res.Prefill != want {
		t.Errorf("prefill = %q, want %q", res.Prefill, want)
	}
}

func TestSessionDoneBareAdvances(t *testing.T) {
	d, clock := newTestDispatcher(t)
	submit(t, d, "first @1")
	submit(t, d, "second @2")

	res := submit(t, d, "/start 1,2")
	if !res.OK {
		t.Fatalf("start failed: %s", res.Message)
	}
	if d.Mode != domain.ModeTodoCountdown {
		t.Fatalf("mode = %v, want todo countdown", d.Mode)
	}
	if d.Todos[0].Status != domain.StatusInProgress {
		t.Errorf("first task not in progress")
	}

	clock.Advance(30 * time.Second)
	res = submit(t, d, "/done")
	if !res.OK {
		t.Fatalf("bare done failed: %s", res.Message)
	}
	if d.Todos[0].Status != domain.StatusDone {
		t.Errorf("first task not done")
	}
	if d.Todos[0].ActualTime != 30 {
		t.Errorf("actual time = %d, want 30", d.Todos[0].ActualTime)
	}
	if len(d.History) != 1 {
		t.Errorf("expected a ledger record for the completed task")
	}
	if !strings.Contains(res.Message, "second") {
		t.Errorf("expected next-task message, got %q", res.Message)
	}

	clock.Advance(10 * time.Second)
	res = submit(t, d, "/done")
	if !strings.Contains(res.Message, "All tasks complete") {
		t.Errorf("expected completion message, got %q", res.Message)
	}
	if d.Session.Active() {
		t.Error("session should have ended")
	}
	if d.Mode != domain.ModeClock {
		t.Errorf("mode after completion = %v, want clock", d.Mode)
	}
}

func TestStartMergeUpdatesQueue(t *testing.T) {
	d, clock := newTestDispatcher(t)
	submit(t, d, "A")
	submit(t, d, "B")
	submit(t, d, "C")
	submit(t, d, "D")

	submit(t, d, "/start 1,2,3")
	clock.Advance(5 * time.Second)

	res := submit(t, d, "/start 3,4")
	if !res.OK {
		t.Fatalf("merge failed: %s", res.Message)
	}
	if !strings.Contains(res.Message, "Queue updated: #1 → #2 → #3 → #4") {
		t.Errorf("unexpected merge message: %q", res.Message)
	}
	if d.Session.CurrentID() != d.Todos[0].ID {
		t.Error("merge moved the in-flight task")
	}
}

func TestStartSkipsReported(t *testing.T) {
	d, _ := newTestDispatcher(t)
	submit(t, d, "A")
	submit(t, d, "B")
	submit(t, d, "/done 2")

	res := submit(t, d, "/start 1,2,9")
	if !res.OK {
		t.Fatalf("start failed: %s", res.Message)
	}
	if !strings.Contains(res.Message, "#2(done)") || !strings.Contains(res.Message, "#9(not found)") {
		t.Errorf("skip summary missing: %q", res.Message)
	}
}

func TestPassSkipsWithoutCompleting(t *testing.T) {
	d, clock := newTestDispatcher(t)
	submit(t, d, "A @1")
	submit(t, d, "B @1")
	submit(t, d, "/start *")
	clock.Advance(10 * time.Second)

	res := submit(t, d, "/pass")
	if !res.OK {
		t.Fatalf("pass failed: %s", res.Message)
	}
	if d.Todos[0].Status == domain.StatusDone {
		t.Error("pass must not complete the task")
	}
	if d.Todos[0].ActualTime != 10 {
		t.Errorf("actual time = %d, want 10", d.Todos[0].ActualTime)
	}
	if len(d.History) != 0 {
		t.Error("pass must not append to the ledger")
	}
}

func TestPauseResumeSession(t *testing.T) {
	d, clock := newTestDispatcher(t)
	submit(t, d, "A @2")
	submit(t, d, "/start 1")

	clock.Advance(30 * time.Second)
	res := submit(t, d, "/pause")
	if !res.OK {
		t.Fatalf("pause failed: %s", res.Message)
	}
	if d.Todos[0].ActualTime != 30 {
		t.Errorf("pause should flush actual time, got %d", d.Todos[0].ActualTime)
	}

	clock.Advance(time.Hour)
	submit(t, d, "/resume")
	clock.Advance(10 * time.Second)
	if got := d.Session.Remaining(); got != 120-40 {
		t.Errorf("remaining = %d, want 80", got)
	}
}

func TestTimerAndCountdownCommands(t *testing.T) {
	d, clock := newTestDispatcher(t)

	submit(t, d, "/timer")
	if d.Mode != domain.ModeTimer || !d.Stopwatch.Running() {
		t.Error("timer should be running in timer mode")
	}
	clock.Advance(5 * time.Second)
	submit(t, d, "/pause")
	if d.Stopwatch.Running() {
		t.Error("stopwatch should be paused")
	}

	res := submit(t, d, "/countdown 02")
	if !res.OK || !strings.Contains(res.Message, "10 minutes") {
		t.Errorf("preset countdown: %q", res.Message)
	}
	if d.Mode != domain.ModeCountdown {
		t.Errorf("mode = %v, want countdown", d.Mode)
	}

	res = submit(t, d, "/countdown nope")
	if res.OK {
		t.Error("invalid countdown arg should fail")
	}
}

func TestModeAndTheme(t *testing.T) {
	d, _ := newTestDispatcher(t)

	if res := submit(t, d, "/mode 3"); !res.OK || d.Mode != domain.ModeCountdown {
		t.Errorf("mode 3: %q, mode=%v", res.Message, d.Mode)
	}
	if res := submit(t, d, "/mode 9"); res.OK {
		t.Error("mode 9 should fail")
	}
	if res := submit(t, d, "/theme 2"); !res.OK || d.ThemeIndex != 1 {
		t.Errorf("theme 2: %q, index=%d", res.Message, d.ThemeIndex)
	}
	if res := submit(t, d, "/theme 99"); res.OK {
		t.Error("theme 99 should fail")
	}
}

func TestUndoAllAndPriority(t *testing.T) {
	d, _ := newTestDispatcher(t)
	submit(t, d, "A")
	submit(t, d, "B")
	submit(t, d, "/done *")
	if d.Todos[0].Status != domain.StatusDone || d.Todos[1].Status != domain.StatusDone {
		t.Fatal("done * should complete everything")
	}
	if len(d.History) != 2 {
		t.Fatalf("expected 2 ledger records, got %d", len(d.History))
	}

	submit(t, d, "/undo *")
	for i, todo := range d.Todos {
		if todo.Status != domain.StatusPending || todo.CompletedAt != nil {
			t.Errorf("todo %d not restored: %+v", i+1, todo)
		}
	}

	submit(t, d, "/priority * h")
	for _, todo := range d.Todos {
		if todo.Priority != domain.PriorityHigh {
			t.Errorf("priority = %s, want high", todo.Priority)
		}
	}
	if res := submit(t, d, "/priority 1 x"); res.OK {
		t.Error("invalid priority letter should fail")
	}
}

func TestUnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)
	res := submit(t, d, "/bogus")
	if res.OK || !strings.Contains(res.Message, "Unknown command") {
		t.Errorf("unexpected: %+v", res)
	}
}

func TestQuitFlushesSession(t *testing.T) {
	d, clock := newTestDispatcher(t)
	submit(t, d, "A @5")
	submit(t, d, "/start 1")
	clock.Advance(42 * time.Second)

	res := submit(t, d, "/quit")
	if !res.Quit {
		t.Fatal("quit should request shutdown")
	}
	if d.Todos[0].ActualTime != 42 {
		t.Errorf("actual time = %d, want 42", d.Todos[0].ActualTime)
	}
}

func TestDurationWarningSurfaced(t *testing.T) {
	d, _ := newTestDispatcher(t)
	res := submit(t, d, "plan sprint @3d")
	if !res.OK {
		t.Fatalf("add failed: %s", res.Message)
	}
	if d.Todos[0].Duration != 60 {
		t.Errorf("duration = %d, want fallback 60", d.Todos[0].Duration)
	}
	if !strings.Contains(res.Message, "too coarse") {
		t.Errorf("expected a duration warning in %q", res.Message)
	}
}

func TestExecuteTodoInsertPosition(t *testing.T) {
	d, _ := newTestDispatcher(t)
	submit(t, d, "one")
	submit(t, d, "two")
	d.Execute(parser.Input{Kind: parser.KindTodo, Content: "between", Position: 2, Duration: 60})
	if d.Todos[1].Content != "between" {
		t.Errorf("insert position ignored: %+v", d.Todos)
	}
}
