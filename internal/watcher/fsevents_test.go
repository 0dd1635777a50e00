package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", func() error { return nil }, zerolog.Nop()); err == nil {
		t.Error("New() with empty path should fail")
	}
	if _, err := New("config.yaml", nil, zerolog.Nop()); err == nil {
		t.Error("New() with nil reload should fail")
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "a: 1\n")

	var reloads atomic.Int32
	w, err := New(path, func() error {
		reloads.Add(1)
		return nil
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	w.SetDebounce(20 * time.Millisecond)

	if err := w.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer w.Stop()

	writeFile(t, path, "a: 2\n")

	if !waitFor(t, func() bool { return reloads.Load() >= 1 }) {
		t.Fatal("expected reload after write")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "a: 1\n")

	var reloads atomic.Int32
	w, err := New(path, func() error {
		reloads.Add(1)
		return nil
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	w.SetDebounce(20 * time.Millisecond)
	if err := w.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "other.yaml"), "b: 1\n")
	time.Sleep(200 * time.Millisecond)

	if n := reloads.Load(); n != 0 {
		t.Errorf("expected no reloads for unrelated file, got %d", n)
	}
}

func TestWatcher_FailedReloadKeepsRunning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "a: 1\n")

	var calls atomic.Int32
	w, err := New(path, func() error {
		if calls.Add(1) == 1 {
			return errors.New("invalid config")
		}
		return nil
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	w.SetDebounce(20 * time.Millisecond)
	if err := w.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer w.Stop()

	writeFile(t, path, "broken")
	if !waitFor(t, func() bool { return calls.Load() >= 1 }) {
		t.Fatal("expected first reload")
	}

	writeFile(t, path, "a: 3\n")
	if !waitFor(t, func() bool { return calls.Load() >= 2 }) {
		t.Fatal("expected watcher to keep reloading after a failure")
	}
}

func TestWatcher_StopWithoutEvents(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "missing.yaml"), func() error { return nil }, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
}
