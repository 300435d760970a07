//go:build !unix

package store

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"
)

// ErrLockUnsupported is returned by every write on platforms without flock.
var ErrLockUnsupported = errors.New("schedule locking not supported on this platform")

type fileLock struct{}

// acquireLock always fails: a lock file without flock would survive a
// crashed holder and block every later writer.
func acquireLock(ctx context.Context, path string, timeout, interval time.Duration) (*fileLock, error) {
	return nil, fmt.Errorf("%w: %s/%s", ErrLockUnsupported, runtime.GOOS, runtime.GOARCH)
}

func (l *fileLock) release() {}
