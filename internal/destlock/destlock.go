// Package destlock serializes organize runs that share a destination root.
package destlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileName is the lock file created in the destination root. It is hidden so
// the walker never organizes it.
const FileName = ".phototools.lock"

// ErrLocked reports another run holding the destination.
var ErrLocked = errors.New("destination is locked by another phototools run")

// Lock is a held advisory lock on a destination root.
type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire creates destRoot if needed and takes its lock without waiting.
func Acquire(destRoot string) (*Lock, error) {
	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}
	path := filepath.Join(destRoot, FileName)
	l := &Lock{path: path, lock: flock.New(path)}

	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return l, nil
}

// Path is the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and removes the lock file.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}
