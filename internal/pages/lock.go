package pages

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created in the output directory for the duration of a run.
const LockFileName = ".relnotes.lock"

// ErrLocked reports that another generate run holds the output directory.
var ErrLocked = errors.New("another relnotes run is writing to the output directory")

type runLock struct {
	path string
	lock *flock.Flock
}

func acquireLock(outputDir string) (*runLock, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output dir: %w", err)
	}
	path := filepath.Join(outputDir, LockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return &runLock{path: path, lock: lock}, nil
}

func (l *runLock) release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
