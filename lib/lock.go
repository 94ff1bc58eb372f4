package wallpaperlib

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const lockPollInterval = 50 * time.Millisecond

// Takes an exclusive advisory lock on path, shared with other processes.
// Polls so that a cancelled caller stops waiting.
func lockFile(ctx context.Context, path string) (func(), error) {
	for {
		release, ok, err := tryLockFile(path)
		if err != nil {
			return nil, err
		}
		if ok {
			return release, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}
}

// A single attempt at the lock. ok is false when another holder has it.
func tryLockFile(path string) (release func(), ok bool, err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, false, err
	}
	fd := int(f.Fd())

	err = unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
	if errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EINTR) {
		f.Close()
		return nil, false, nil
	}
	if err != nil {
		f.Close()
		return nil, false, err
	}

	return func() {
		_ = unix.Flock(fd, unix.LOCK_UN)
		f.Close()
	}, true, nil
}
