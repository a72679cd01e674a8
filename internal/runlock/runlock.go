// Package runlock keeps two engine processes from scraping out of the same
// data directory at once.
package runlock

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rotisserie/eris"
)

// ErrHeld means another process holds the lock.
var ErrHeld = eris.New("run lock is held by another process")

const fileName = "run.lock"

type Lock struct {
	fl *flock.Flock
}

// Path is the lock file for dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, fileName)
}

// TryAcquire takes the lock without waiting.
func TryAcquire(dataDir string) (*Lock, error) {
	fl, err := newFlock(dataDir)
	if err != nil {
		return nil, err
	}
	ok, err := fl.TryLock()
	if err != nil {
		return nil, eris.Wrapf(err, "runlock: lock %s", fl.Path())
	}
	if !ok {
		return nil, ErrHeld
	}
	return &Lock{fl: fl}, nil
}

// Acquire waits for the lock until ctx is done, polling every retry.
func Acquire(ctx context.Context, dataDir string, retry time.Duration) (*Lock, error) {
	fl, err := newFlock(dataDir)
	if err != nil {
		return nil, err
	}
	if retry <= 0 {
		retry = 250 * time.Millisecond
	}
	ok, err := fl.TryLockContext(ctx, retry)
	if err != nil {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ErrHeld, ctx.Err().Error())
		}
		return nil, eris.Wrapf(err, "runlock: lock %s", fl.Path())
	}
	if !ok {
		return nil, ErrHeld
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return eris.Wrap(err, "runlock: unlock")
	}
	return nil
}

func newFlock(dataDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, eris.Wrap(err, "runlock: create data dir")
	}
	return flock.New(Path(dataDir)), nil
}
