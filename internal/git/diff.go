package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/raphi011/hk/internal/log"
)

// Diff captures the current working-tree diff as an opaque snapshot.
// The run engine compares snapshots taken before and after a hook to
// detect whether the hook modified files; the bytes are never parsed.
func Diff(ctx context.Context, root string) ([]byte, error) {
	out, err := outputGit(ctx, root,
		"diff", "--no-color", "--no-ext-diff", "--no-textconv", "--ignore-submodules")
	if err != nil {
		return nil, fmt.Errorf("failed to compute working-tree diff: %w", err)
	}
	return out, nil
}

// WriteTree writes the current index to a tree object and returns its id.
func WriteTree(ctx context.Context, root string) (string, error) {
	out, err := outputGit(ctx, root, "write-tree")
	if err != nil {
		return "", fmt.Errorf("failed to write index tree: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// UnstagedPatch returns a binary patch from the working tree to the
// given index tree (note the direction: applying it forward discards
// unstaged edits, applying it in reverse restores them). Returns nil
// when the working tree is clean relative to the index.
func UnstagedPatch(ctx context.Context, root, tree string) ([]byte, error) {
	args := gitArgs(root, []string{
		"diff-index", "--ignore-submodules", "--binary", "--exit-code",
		"--no-color", "--no-ext-diff", "-R", tree, "--",
	})
	log.FromContext(ctx).Command("git", args...)

	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		// --exit-code: status 1 means differences exist.
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			if len(strings.TrimSpace(string(out))) == 0 {
				return nil, nil
			}
			return out, nil
		}
		return nil, fmt.Errorf("failed to compute unstaged patch: %w", err)
	}
	return nil, nil
}

// CheckoutAll resets the working tree to the index, discarding unstaged
// edits. Submodule recursion is disabled so the reset stays local.
func CheckoutAll(ctx context.Context, root string) error {
	if err := runGit(ctx, root, "-c", "submodule.recurse=0", "checkout", "--", "."); err != nil {
		return fmt.Errorf("failed to check out index: %w", err)
	}
	return nil
}

// ApplyPatch applies a binary patch file. With reverse set the patch is
// applied with -R, which the working-tree guard uses to bring back
// unstaged edits it removed earlier.
func ApplyPatch(ctx context.Context, root, patchFile string, reverse bool) error {
	args := []string{"apply", "--whitespace=nowarn"}
	if reverse {
		args = append(args, "-R")
	}
	args = append(args, patchFile)
	if err := runGit(ctx, root, args...); err != nil {
		return fmt.Errorf("failed to apply patch %s: %w", patchFile, err)
	}
	return nil
}

// ShowDiff returns the current working-tree diff for display, used by
// --show-diff-on-failure. Pager and external diff drivers are disabled
// so the output can be printed directly.
func ShowDiff(ctx context.Context, root string, colored bool) ([]byte, error) {
	color := "--color=never"
	if colored {
		color = "--color=always"
	}
	out, err := outputGit(ctx, root, "--no-pager", "diff", "--no-ext-diff", color)
	if err != nil {
		return nil, fmt.Errorf("failed to show diff: %w", err)
	}
	return out, nil
}
