// Package runlock enforces single-instance execution. Two concurrent setup
// runs mutating the same host would interleave cleanup and install steps, so
// every mutating command takes an exclusive file lock first.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked indicates another process already holds the lock.
var ErrLocked = errors.New("another lxcsetup run is already in progress")

// Lock is an exclusive advisory file lock.
type Lock struct {
	path  string
	flock *flock.Flock
}

// New prepares a lock at path without acquiring it.
func New(path string) *Lock {
	return &Lock{path: path, flock: flock.New(path)}
}

// Acquire takes the lock without blocking. Contention returns ErrLocked.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("ensure lock directory: %w", err)
	}
	ok, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Release drops the lock. Safe to call when the lock was never acquired.
func (l *Lock) Release() error {
	return l.flock.Unlock()
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}
