package run

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/log"
)

// ErrGuardActive indicates a second guard acquisition while one is
// already active. The working tree is exclusive state; overlapping
// guards would corrupt each other's restoration.
var ErrGuardActive = fmt.Errorf("a working-tree guard is already active")

// activeGuard is the single process-wide guard slot.
var activeGuard struct {
	mu    sync.Mutex
	guard *Guard
}

// Guard isolates the run from unstaged content: while active, the
// working tree contains only what is staged, so hooks see exactly what
// will be committed. Restore brings the removed content back and runs
// exactly once per guard, on whichever exit path reaches it first.
type Guard struct {
	root        string
	intentToAdd []string
	patchFile   string
	restored    atomic.Bool
}

// KeepWorkingTree clears intent-to-add entries and unstaged changes
// from the working tree, retaining enough state to restore both.
// At most one guard can be active per process; a second acquisition
// fails with ErrGuardActive. Failures here are infrastructure errors
// that abort the run before any hook executes.
func KeepWorkingTree(ctx context.Context, root, patchDir string) (*Guard, error) {
	activeGuard.mu.Lock()
	if activeGuard.guard != nil {
		activeGuard.mu.Unlock()
		return nil, ErrGuardActive
	}
	g := &Guard{root: root}
	activeGuard.guard = g
	activeGuard.mu.Unlock()

	if err := g.clean(ctx, patchDir); err != nil {
		// Put back whatever was already removed before failing.
		g.Restore(ctx)
		return nil, err
	}
	return g, nil
}

func (g *Guard) clean(ctx context.Context, patchDir string) error {
	intentToAdd, err := git.IntentToAddFiles(ctx, g.root)
	if err != nil {
		return err
	}
	if len(intentToAdd) > 0 {
		log.FromContext(ctx).Printf("Unstaged intent-to-add files detected.\n")
		if err := git.RemoveCached(ctx, g.root, intentToAdd); err != nil {
			return err
		}
		g.intentToAdd = intentToAdd
	}

	tree, err := git.WriteTree(ctx, g.root)
	if err != nil {
		return err
	}
	patch, err := git.UnstagedPatch(ctx, g.root, tree)
	if err != nil {
		return err
	}
	if len(patch) == 0 {
		return nil
	}

	patchFile := filepath.Join(patchDir, fmt.Sprintf("patch%d-%d", time.Now().Unix(), os.Getpid()))
	if err := os.WriteFile(patchFile, patch, 0o600); err != nil {
		return fmt.Errorf("failed to write working-tree patch: %w", err)
	}
	g.patchFile = patchFile

	log.FromContext(ctx).Printf("Non-staged changes detected, stashing to %s\n", patchFile)
	return git.CheckoutAll(ctx, g.root)
}

// Restore reapplies the retained patch in reverse and re-marks the
// intent-to-add paths. Idempotent: only the first call does work.
// Restoration is best effort; failures are logged as warnings and never
// override the run's result, but the patch file is kept so the operator
// can recover manually.
func (g *Guard) Restore(ctx context.Context) {
	if !g.restored.CompareAndSwap(false, true) {
		return
	}

	// The run context may already be cancelled (interrupt); restoration
	// must still execute.
	ctx = context.WithoutCancel(ctx)
	logger := log.FromContext(ctx)

	if g.patchFile != "" {
		if err := git.ApplyPatch(ctx, g.root, g.patchFile, true); err != nil {
			// Hook auto-fixes conflict with the stashed changes. Roll
			// the fixes back so the stash applies cleanly.
			logger.Warnf("stashed changes conflicted with hook auto-fixes, rolling back fixes")
			if err := git.CheckoutAll(ctx, g.root); err != nil {
				logger.Warnf("failed to roll back working tree: %v", err)
			}
			if err := git.ApplyPatch(ctx, g.root, g.patchFile, true); err != nil {
				logger.Warnf("failed to restore non-staged changes from %s: %v", g.patchFile, err)
			}
		}
	}

	if len(g.intentToAdd) > 0 {
		if err := git.AddIntentToAdd(ctx, g.root, g.intentToAdd); err != nil {
			logger.Warnf("failed to restore intent-to-add entries: %v", err)
		}
	}

	activeGuard.mu.Lock()
	if activeGuard.guard == g {
		activeGuard.guard = nil
	}
	activeGuard.mu.Unlock()
}
