package daemon

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestIsRunning_NoPIDFile(t *testing.T) {
	running, err := IsRunning(filepath.Join(t.TempDir(), "serve.pid"))
	if err != nil {
		t.Errorf("IsRunning() error = %v, want nil", err)
	}
	if running {
		t.Error("IsRunning() = true, want false for missing PID file")
	}
}

func TestIsRunning_CurrentProcess(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "serve.pid")
	if err := WritePID(pidFile, os.Getpid()); err != nil {
		t.Fatalf("WritePID() failed: %v", err)
	}

	running, err := IsRunning(pidFile)
	if err != nil {
		t.Errorf("IsRunning() error = %v, want nil", err)
	}
	if !running {
		t.Error("IsRunning() = false, want true for current process")
	}
}

func TestIsRunning_StalePIDFileRemoved(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "serve.pid")
	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(999999)+"\n"), 0644); err != nil {
		t.Fatalf("failed to write PID file: %v", err)
	}

	running, err := IsRunning(pidFile)
	if err != nil {
		t.Errorf("IsRunning() error = %v, want nil", err)
	}
	if running {
		t.Error("IsRunning() = true, want false for dead process")
	}
	if _, err := os.Stat(pidFile); !os.IsNotExist(err) {
		t.Error("stale PID file should be removed")
	}
}

func TestIsRunning_GarbagePIDFile(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "serve.pid")
	if err := os.WriteFile(pidFile, []byte("not-a-pid"), 0644); err != nil {
		t.Fatalf("failed to write PID file: %v", err)
	}
	if running, _ := IsRunning(pidFile); running {
		t.Error("IsRunning() = true, want false for garbage PID file")
	}
}

func TestStop_NotRunning(t *testing.T) {
	if err := Stop(filepath.Join(t.TempDir(), "serve.pid")); err == nil {
		t.Error("Stop() should fail without a PID file")
	}
}

func TestRemovePID_Missing(t *testing.T) {
	if err := RemovePID(filepath.Join(t.TempDir(), "serve.pid")); err != nil {
		t.Errorf("RemovePID() on missing file should succeed, got %v", err)
	}
}
