package session

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tickdone/tickdone/internal/domain"
	"github.com/tickdone/tickdone/internal/todostore"
)

// fakeClock is a manually advanced wall clock
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func task(id, content string, minutes int) domain.TodoItem {
	return domain.TodoItem{
		ID:        id,
		Content:   content,
		Status:    domain.StatusPending,
		Priority:  domain.PriorityNone,
		Tags:      []string{},
		Duration:  minutes,
		CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestStart_FiltersIneligible(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := []domain.TodoItem{task("2", "two", 10), task("5", "five", 10), task("7", "seven", 10)}
	todos = todostore.MarkDone(todos, 2, clock.Now()) // task 5 already done

	res, err := e.Start([]string{"2", "5", "7"}, todos)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(e.Queue(), []string{"2", "7"}) {
		t.Errorf("queue = %v, want [2 7]", e.Queue())
	}
	if res.Task.ID != "2" {
		t.Errorf("first task = %s, want 2", res.Task.ID)
	}
	current, _ := todostore.FindByID(res.UpdatedTodos, "2")
	if current.Status != domain.StatusInProgress {
		t.Errorf("first task status = %q, want in_progress", current.Status)
	}
	if e.TotalSeconds() != 600 || e.Remaining() != 600 {
		t.Errorf("total/remaining = %d/%d, want 600/600", e.TotalSeconds(), e.Remaining())
	}
}

func TestStart_NoEligibleTasks(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := todostore.MarkDone([]domain.TodoItem{task("1", "one", 5)}, 1, clock.Now())
	_, err := e.Start([]string{"1", "missing"}, todos)
	if !errors.Is(err, ErrNoEligibleTasks) {
		t.Fatalf("err = %v, want ErrNoEligibleTasks", err)
	}
	if e.Active() {
		t.Error("engine should stay idle after failed start")
	}
}

func TestStart_Deduplicates(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := []domain.TodoItem{task("1", "one", 5), task("2", "two", 5)}
	if _, err := e.Start([]string{"1", "2", "1"}, todos); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(e.Queue(), []string{"1", "2"}) {
		t.Errorf("queue = %v, want [1 2]", e.Queue())
	}
}

func TestTick_OvertimeFiresExactlyOnce(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := []domain.TodoItem{task("1", "one", 1)} // 60 seconds
	if _, err := e.Start([]string{"1"}, todos); err != nil {
		t.Fatal(err)
	}

	clock.Advance(30 * time.Second)
	res := e.Tick()
	if !res.Active || res.Remaining != 30 || res.EnteredOvertime {
		t.Fatalf("mid-run tick = %+v", res)
	}

	clock.Advance(31 * time.Second)
	res = e.Tick()
	if !res.EnteredOvertime {
		t.Fatal("overtime boundary not detected")
	}
	if res.Remaining != -1 {
		t.Errorf("remaining = %d, want -1", res.Remaining)
	}
	if !e.Overtime() || !e.WaitingForAction() {
		t.Error("overtime/waiting flags not set")
	}

	clock.Advance(time.Second)
	res = e.Tick()
	if res.EnteredOvertime {
		t.Error("overtime boundary refired")
	}
}

func TestPauseResume(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := []domain.TodoItem{task("1", "one", 10)} // 600s
	start, err := e.Start([]string{"1"}, todos)
	if err != nil {
		t.Fatal(err)
	}
	todos = start.UpdatedTodos

	clock.Advance(90 * time.Second)
	todos, remaining, err := e.Pause(todos)
	if err != nil {
		t.Fatal(err)
	}
	if remaining != 510 {
		t.Errorf("remaining = %d, want 510", remaining)
	}
	flushed, _ := todostore.FindByID(todos, "1")
	if flushed.ActualTime != 90 {
		t.Errorf("flushed ActualTime = %d, want 90", flushed.ActualTime)
	}
	if e.Phase() != PhasePaused {
		t.Fatalf("phase = %v, want paused", e.Phase())
	}

	// Paused time is frozen
	clock.Advance(time.Hour)
	if e.Remaining() != 510 {
		t.Errorf("paused remaining = %d, want 510", e.Remaining())
	}

	if err := e.Resume(); err != nil {
		t.Fatal(err)
	}
	clock.Advance(10 * time.Second)
	if got := e.Remaining(); got != 500 {
		t.Errorf("resumed remaining = %d, want 500", got)
	}

	// Accumulation across segments
	todos = e.FlushProgress(todos)
	flushed, _ = todostore.FindByID(todos, "1")
	if flushed.ActualTime != 100 {
		t.Errorf("ActualTime after two segments = %d, want 100", flushed.ActualTime)
	}
}

func TestResume_RequiresPaused(t *testing.T) {
	e := NewEngine(newFakeClock().Now)
	if err := e.Resume(); !errors.Is(err, ErrNotActive) {
		t.Errorf("Resume on idle = %v, want ErrNotActive", err)
	}
}

func TestStart_ResumesFromPreviousActualTime(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := []domain.TodoItem{task("1", "one", 10)}
	todos = todostore.SetActualTime(todos, "1", 480) // 8 of 10 minutes spent earlier

	res, err := e.Start([]string{"1"}, todos)
	if err != nil {
		t.Fatal(err)
	}
	if res.ResumedFrom != 480 {
		t.Errorf("ResumedFrom = %d, want 480", res.ResumedFrom)
	}
	if e.Remaining() != 120 {
		t.Errorf("remaining = %d, want 120", e.Remaining())
	}

	clock.Advance(60 * time.Second)
	updated := e.FlushProgress(res.UpdatedTodos)
	got, _ := todostore.FindByID(updated, "1")
	if got.ActualTime != 540 {
		t.Errorf("ActualTime = %d, want 540", got.ActualTime)
	}
}

func TestStart_AlreadyOvertime(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := todostore.SetActualTime([]domain.TodoItem{task("1", "one", 1)}, "1", 120)
	if _, err := e.Start([]string{"1"}, todos); err != nil {
		t.Fatal(err)
	}
	if !e.Overtime() || !e.WaitingForAction() {
		t.Error("session should begin in overtime when the allotment is spent")
	}
	// Already in overtime at start, so the boundary must not fire again
	clock.Advance(time.Second)
	if res := e.Tick(); res.EnteredOvertime {
		t.Error("overtime boundary fired for a task that started exhausted")
	}
}

func TestAdvance_MarkCompleteAndNext(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := []domain.TodoItem{task("1", "one", 1), task("2", "two", 2)}
	start, err := e.Start([]string{"1", "2"}, todos)
	if err != nil {
		t.Fatal(err)
	}
	todos = start.UpdatedTodos

	clock.Advance(45 * time.Second)
	res, err := e.Advance(todos, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Finished {
		t.Fatal("queue should not be finished")
	}
	if res.Completed == nil {
		t.Fatal("completed snapshot missing")
	}
	if res.Completed.ActualTime != 45 {
		t.Errorf("completed ActualTime = %d, want 45", res.Completed.ActualTime)
	}
	if res.Completed.Status != domain.StatusDone || res.Completed.CompletedAt == nil {
		t.Error("completed task not marked done")
	}
	if res.Next == nil || res.Next.ID != "2" {
		t.Fatalf("next = %+v, want task 2", res.Next)
	}
	if e.TotalSeconds() != 120 {
		t.Errorf("next total = %d, want 120", e.TotalSeconds())
	}
	next, _ := todostore.FindByID(res.UpdatedTodos, "2")
	if next.Status != domain.StatusInProgress {
		t.Errorf("next status = %q, want in_progress", next.Status)
	}
	if got := e.ActualTimes()["1"]; got != 45 {
		t.Errorf("actualTimes[1] = %d, want 45", got)
	}
}

func TestAdvance_SkipsDeletedAndDone(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := []domain.TodoItem{
		task("1", "one", 1), task("2", "two", 1),
		task("3", "three", 1), task("4", "four", 1),
	}
	start, err := e.Start([]string{"1", "2", "3", "4"}, todos)
	if err != nil {
		t.Fatal(err)
	}
	todos = start.UpdatedTodos

	// Task 2 deleted and task 3 completed behind the session's back
	todos = todostore.Delete(todos, 2)
	todos = todostore.MarkDone(todos, todostore.IndexByID(todos, "3"), clock.Now())

	res, err := e.Advance(todos, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Completed != nil {
		t.Error("pass must not produce a completion snapshot")
	}
	want := []string{"(deleted)", `"three"(done)`}
	if !reflect.DeepEqual(res.Skipped, want) {
		t.Errorf("skipped = %v, want %v", res.Skipped, want)
	}
	if res.Next == nil || res.Next.ID != "4" {
		t.Fatalf("next = %+v, want task 4", res.Next)
	}
}

func TestAdvance_QueueExhaustedEndsSession(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := []domain.TodoItem{task("1", "one", 1)}
	start, err := e.Start([]string{"1"}, todos)
	if err != nil {
		t.Fatal(err)
	}

	clock.Advance(10 * time.Second)
	res, err := e.Advance(start.UpdatedTodos, true)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Finished {
		t.Fatal("session should end when the queue is exhausted")
	}
	if e.Active() {
		t.Error("engine should be idle after finishing")
	}
	if e.Remaining() != 0 {
		t.Errorf("idle remaining = %d, want 0", e.Remaining())
	}
}

func TestMerge_PinnedOrdering(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := []domain.TodoItem{
		task("A", "a", 1), task("B", "b", 1),
		task("C", "c", 1), task("D", "d", 1),
	}
	if _, err := e.Start([]string{"A", "B", "C"}, todos); err != nil {
		t.Fatal(err)
	}

	merged, err := e.Merge([]string{"C", "D"}, todos)
	if err != nil {
		t.Fatal(err)
	}
	// Current task first, old tail entries not in the new selection
	// next, then the new selection in its given order.
	want := []string{"A", "B", "C", "D"}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("merged queue = %v, want %v", merged, want)
	}
	if e.CurrentIndex() != 0 {
		t.Errorf("currentIndex = %d, want 0", e.CurrentIndex())
	}
	if e.CurrentID() != "A" {
		t.Errorf("current = %s, want A", e.CurrentID())
	}
}

func TestMerge_DropsDoneTailAndDeduplicates(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := []domain.TodoItem{
		task("A", "a", 1), task("B", "b", 1), task("C", "c", 1),
	}
	if _, err := e.Start([]string{"A", "B", "C"}, todos); err != nil {
		t.Fatal(err)
	}

	// B completes out-of-band; merge re-selecting the current task
	todos = todostore.MarkDone(todos, 2, clock.Now())
	merged, err := e.Merge([]string{"A", "C"}, todos)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(merged, []string{"A", "C"}) {
		t.Errorf("merged queue = %v, want [A C]", merged)
	}
}

func TestMerge_KeepsTimerState(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := []domain.TodoItem{task("A", "a", 10), task("B", "b", 1)}
	if _, err := e.Start([]string{"A"}, todos); err != nil {
		t.Fatal(err)
	}
	clock.Advance(120 * time.Second)

	if _, err := e.Merge([]string{"B"}, todos); err != nil {
		t.Fatal(err)
	}
	if got := e.Remaining(); got != 480 {
		t.Errorf("remaining after merge = %d, want 480 (in-flight progress kept)", got)
	}
}

func TestStop_FlushesAndDiscards(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(clock.Now)

	todos := []domain.TodoItem{task("1", "one", 10)}
	start, err := e.Start([]string{"1"}, todos)
	if err != nil {
		t.Fatal(err)
	}

	clock.Advance(200 * time.Second)
	updated, err := e.Stop(start.UpdatedTodos)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := todostore.FindByID(updated, "1")
	if got.ActualTime != 200 {
		t.Errorf("ActualTime = %d, want 200", got.ActualTime)
	}
	// Stop never completes the task
	if got.Status != domain.StatusInProgress {
		t.Errorf("status = %q, want in_progress", got.Status)
	}
	if e.Active() {
		t.Error("engine should be idle after stop")
	}
}

func TestFlushProgress_Idle(t *testing.T) {
	e := NewEngine(newFakeClock().Now)
	todos := []domain.TodoItem{task("1", "one", 1)}
	if got := e.FlushProgress(todos); !reflect.DeepEqual(got, todos) {
		t.Error("idle flush must not touch the sequence")
	}
}
