//go:build unix

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// fileLock is an advisory flock held on a sentinel file beside the schedule.
// The kernel releases it when the holder exits, so a leftover lock file
// never blocks anyone.
type fileLock struct {
	f *os.File
}

// acquireLock tries a non-blocking exclusive flock every interval until
// timeout, then fails with ErrLocked.
func acquireLock(ctx context.Context, path string, timeout, interval time.Duration) (*fileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			if attempt > 1 {
				log.Debug().Str("lock", path).Int("attempts", attempt).Msg("schedule lock acquired")
			}
			return &fileLock{f: f}, nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			f.Close()
			return nil, fmt.Errorf("lock %s: %w", path, err)
		}
		if !time.Now().Before(deadline) {
			f.Close()
			return nil, fmt.Errorf("%w: %s still held after %s", ErrLocked, path, timeout)
		}
		if attempt == 1 {
			log.Debug().Str("lock", path).Dur("timeout", timeout).Msg("waiting for schedule lock")
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			f.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrLocked, path, ctx.Err())
		case <-timer.C:
		}
	}
}

// release drops the lock. The sentinel file stays on disk.
func (l *fileLock) release() {
	if l == nil || l.f == nil {
		return
	}
	unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	l.f.Close()
	l.f = nil
}
