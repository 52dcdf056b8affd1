package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// lockRetryInterval is how often a blocked Lock call re-checks the
// lock file.
const lockRetryInterval = 50 * time.Millisecond

// Lock acquires an exclusive advisory lock on the store, protecting
// concurrent environment installs from separate hk processes. Release
// it by calling the returned function.
func (s *Store) Lock(ctx context.Context) (func(), error) {
	lockPath := filepath.Join(s.path, ".lock")

	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to acquire store lock: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to acquire store lock: %w", ctx.Err())
		case <-time.After(lockRetryInterval):
		}
	}
}
