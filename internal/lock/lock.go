package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrBusy is returned when another process holds the workspace lock.
var ErrBusy = errors.New("workspace is in use by another tdbuild process")

const retryDelay = 100 * time.Millisecond

// Acquire takes an exclusive lock on path, creating it if needed. With
// wait set it polls until the lock is free or ctx is done; otherwise a
// held lock returns ErrBusy immediately. The returned func releases it.
func Acquire(ctx context.Context, path string, wait bool) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prepare lock dir: %w", err)
	}

	fileLock := flock.New(path)

	var (
		locked bool
		err    error
	)
	if wait {
		locked, err = fileLock.TryLockContext(ctx, retryDelay)
	} else {
		locked, err = fileLock.TryLock()
	}
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrBusy
	}
	return fileLock.Unlock, nil
}
