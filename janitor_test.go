package plinth

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCleanupDir(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "stale.tmp")
	fresh := filepath.Join(dir, "fresh.tmp")
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatalf("Failed to write stale file: %v", err)
	}
	if err := os.WriteFile(fresh, []byte("new"), 0644); err != nil {
		t.Fatalf("Failed to write fresh file: %v", err)
	}

	// Backdate the stale file past the cutoff
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("Failed to backdate file: %v", err)
	}

	removed, err := CleanupDir(dir, time.Hour)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 file removed, got %d", removed)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("Stale file should have been removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("Fresh file should survive: %v", err)
	}
}

func TestCleanupDir_SkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()

	sub := filepath.Join(dir, "keep")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(sub, old, old); err != nil {
		t.Fatalf("Failed to backdate subdirectory: %v", err)
	}

	removed, err := CleanupDir(dir, time.Hour)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("Expected 0 files removed, got %d", removed)
	}
	if _, err := os.Stat(sub); err != nil {
		t.Errorf("Subdirectory should survive: %v", err)
	}
}

func TestCleanupDir_MissingDir(t *testing.T) {
	_, err := CleanupDir(filepath.Join(t.TempDir(), "nope"), time.Hour)
	if err == nil {
		t.Error("Should fail on a missing directory")
	}
}

func TestScheduleCleanup_BadSpec(t *testing.T) {
	log := newLogger("error")

	_, err := ScheduleCleanup("not a cron spec", t.TempDir(), time.Hour, log)
	if err == nil {
		t.Error("Should fail on an invalid cron spec")
	}
}

func TestScheduleCleanup(t *testing.T) {
	log := newLogger("error")

	c, err := ScheduleCleanup("* * * * *", t.TempDir(), time.Hour, log)
	if err != nil {
		t.Fatalf("Failed to schedule cleanup: %v", err)
	}
	c.Stop()
}
