package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iskaalaman/studyhub/internal/infrastructure/config"
)

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(config.LoggerConfig{Level: "info", Format: "json", Output: "file", Filename: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.WithComponent("scheduler").Infow("Class added", "subject", "Math")
	log.LogPersistence("save", "tasks", 2, 3*time.Millisecond, errors.New("disk full"))
	_ = log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{`"component":"scheduler"`, `"subject":"Math"`, `"error":"disk full"`, `"duration_ms":3`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(config.LoggerConfig{Level: "loud", Format: "json", Output: "stdout"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.WithError(errors.New("x")).Warnw("ignored")
	log.LogStudySession("id", "deck", "normal", map[string]interface{}{"known": 3})
}
