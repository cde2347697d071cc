package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tickdone/tickdone/internal/domain"
)

const (
	todosFile   = "todos.json"
	historyFile = "done_history.json"
)

// Files provides whole-file persistence for the todo sequence and the
// done-history ledger. Every save rewrites the complete collection;
// readers never assume partial or append writes. Saves are atomic
// (write to a temp file, then rename) so an interrupted write can not
// leave a truncated store behind.
type Files struct {
	dir    string
	logger *zap.Logger

	mu        sync.Mutex
	lastWrite time.Time
}

// NewFiles creates the adapter, ensuring the data directory exists.
// A nil logger disables diagnostics.
func NewFiles(dir string, logger *zap.Logger) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Files{dir: dir, logger: logger}, nil
}

// TodosPath returns the absolute path of the todo sequence file, for
// external file watching.
func (f *Files) TodosPath() string {
	return filepath.Join(f.dir, todosFile)
}

// HistoryPath returns the absolute path of the ledger file
func (f *Files) HistoryPath() string {
	return filepath.Join(f.dir, historyFile)
}

// LastWrite returns when this process last saved any store, used by
// the watcher to suppress reactions to our own writes.
func (f *Files) LastWrite() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastWrite
}

// LoadTodos reads the todo sequence. A missing or corrupt file
// degrades to an empty sequence rather than failing; the tool must
// start even when the store is damaged.
func (f *Files) LoadTodos() []domain.TodoItem {
	var todos []domain.TodoItem
	f.load(f.TodosPath(), &todos)
	return todos
}

// SaveTodos replaces the todo sequence file wholesale
func (f *Files) SaveTodos(todos []domain.TodoItem) error {
	if todos == nil {
		todos = []domain.TodoItem{}
	}
	return f.save(f.TodosPath(), todos)
}

// LoadHistory reads the done-history ledger, degrading to empty on
// missing or corrupt data.
func (f *Files) LoadHistory() []domain.DoneRecord {
	var records []domain.DoneRecord
	f.load(f.HistoryPath(), &records)
	return records
}

// SaveHistory replaces the ledger file wholesale
func (f *Files) SaveHistory(records []domain.DoneRecord) error {
	if records == nil {
		records = []domain.DoneRecord{}
	}
	return f.save(f.HistoryPath(), records)
}

func (f *Files) load(path string, v interface{}) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("reading store", zap.String("path", path), zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		f.logger.Warn("corrupt store, starting empty", zap.String("path", path), zap.Error(err))
	}
}

func (f *Files) save(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}

	f.mu.Lock()
	f.lastWrite = time.Now()
	f.mu.Unlock()
	return nil
}
