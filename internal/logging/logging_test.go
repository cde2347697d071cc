package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	log := New(dir)
	log.Info("hello")
	log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "tickdone.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestNew_EmptyDirIsNop(t *testing.T) {
	log := New("")
	log.Info("dropped")
}
