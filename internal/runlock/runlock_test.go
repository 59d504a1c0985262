package runlock_test

import (
	"errors"
	"path/filepath"
	"testing"

	"lxcsetup/internal/runlock"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "lxcsetup.lock")
	lock := runlock.New(path)
	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	// Reacquire after release must succeed.
	if err := lock.Acquire(); err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	lock.Release()
}

func TestContentionReturnsErrLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lxcsetup.lock")
	first := runlock.New(path)
	if err := first.Acquire(); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer first.Release()

	second := runlock.New(path)
	err := second.Acquire()
	if !errors.Is(err, runlock.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestReleaseWithoutAcquire(t *testing.T) {
	lock := runlock.New(filepath.Join(t.TempDir(), "never.lock"))
	if err := lock.Release(); err != nil {
		t.Fatalf("Release without Acquire should be a no-op: %v", err)
	}
}
