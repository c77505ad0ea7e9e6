package runlock

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning is returned when another process holds the lock.
var ErrAlreadyRunning = errors.New("another internwatch run holds the lock")

// Acquire takes an exclusive, non-blocking lock on path. The returned release
// func unlocks it; it is safe to call more than once.
func Acquire(path string) (release func() error, err error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: %w", path, ErrAlreadyRunning)
	}
	return lock.Unlock, nil
}
