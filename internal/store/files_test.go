package store

import (
	"os"
	"testing"
	"time"

	"github.com/tickdone/tickdone/internal/domain"
)

func TestFiles_TodosRoundTrip(t *testing.T) {
	files, err := NewFiles(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	completed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	todos := []domain.TodoItem{
		{
			ID: "a", Content: "First", Status: domain.StatusPending,
			Priority: domain.PriorityHigh, Tags: []string{"work"},
			Duration: 30, CreatedAt: completed.Add(-time.Hour),
		},
		{
			ID: "b", Content: "Second", Status: domain.StatusDone,
			Priority: domain.PriorityNone, Tags: []string{},
			Duration: 60, ActualTime: 120,
			CreatedAt: completed.Add(-2 * time.Hour), CompletedAt: &completed,
		},
	}

	if err := files.SaveTodos(todos); err != nil {
		t.Fatal(err)
	}

	got := files.LoadTodos()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Content != "First" || got[0].Priority != domain.PriorityHigh {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].ActualTime != 120 {
		t.Errorf("ActualTime = %d, want 120", got[1].ActualTime)
	}
	if got[1].CompletedAt == nil || !got[1].CompletedAt.Equal(completed) {
		t.Errorf("CompletedAt = %v", got[1].CompletedAt)
	}
}

func TestFiles_MissingStoreIsEmpty(t *testing.T) {
	files, err := NewFiles(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := files.LoadTodos(); len(got) != 0 {
		t.Errorf("LoadTodos = %v, want empty", got)
	}
	if got := files.LoadHistory(); len(got) != 0 {
		t.Errorf("LoadHistory = %v, want empty", got)
	}
}

func TestFiles_CorruptStoreDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	files, err := NewFiles(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	os.WriteFile(files.TodosPath(), []byte("{{{not json"), 0o644)

	if got := files.LoadTodos(); len(got) != 0 {
		t.Errorf("LoadTodos on corrupt store = %v, want empty", got)
	}
}

func TestFiles_HistoryRoundTrip(t *testing.T) {
	files, err := NewFiles(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	records := []domain.DoneRecord{
		{ID: "a", Content: "Ship it", ActualTime: 300, Duration: 30, Tags: []string{"dev"}, CompletedAt: time.Now().UTC()},
	}
	if err := files.SaveHistory(records); err != nil {
		t.Fatal(err)
	}

	got := files.LoadHistory()
	if len(got) != 1 || got[0].Content != "Ship it" || got[0].ActualTime != 300 {
		t.Errorf("LoadHistory = %+v", got)
	}
}

func TestFiles_SaveRecordsLastWrite(t *testing.T) {
	files, err := NewFiles(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !files.LastWrite().IsZero() {
		t.Error("LastWrite should start zero")
	}
	before := time.Now()
	if err := files.SaveTodos(nil); err != nil {
		t.Fatal(err)
	}
	if files.LastWrite().Before(before) {
		t.Error("LastWrite not updated by save")
	}
}

func TestFiles_SaveNilWritesEmptyArray(t *testing.T) {
	files, err := NewFiles(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := files.SaveTodos(nil); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(files.TodosPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("file = %q, want []", data)
	}
}
