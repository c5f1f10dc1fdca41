package io

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/matzehuels/polybuild/pkg/errors"
)

// lockRetry is how often a blocked build retries the destination lock.
const lockRetry = 50 * time.Millisecond

// LockPath returns the lock file guarding dest. It lives next to dest, not
// inside it, so the output tree only ever holds served files.
func LockPath(dest string) string {
	dest = filepath.Clean(dest)
	return filepath.Join(filepath.Dir(dest), "."+filepath.Base(dest)+".lock")
}

// LockDestination takes an exclusive file lock on dest, waiting until it is
// free or ctx is done. Two builds writing the same output tree would
// otherwise interleave their files. The returned func releases the lock.
func LockDestination(ctx context.Context, dest string) (func() error, error) {
	path := LockPath(dest)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create directory %s", filepath.Dir(path))
	}

	fl := flock.New(path)
	ok, err := fl.TryLockContext(ctx, lockRetry)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "lock %s", dest)
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeIO, "lock %s: still held by another build", dest)
	}
	return fl.Unlock, nil
}
