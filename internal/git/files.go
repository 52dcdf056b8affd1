package git

import (
	"context"
	"fmt"
	"strings"
)

// zsplit splits NUL-terminated git output into entries.
func zsplit(out []byte) []string {
	s := strings.TrimSuffix(string(out), "\x00")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\x00")
}

// StagedFiles returns the paths staged for commit, relative to the
// repository root. Deleted files are excluded since hooks cannot
// operate on them.
func StagedFiles(ctx context.Context, root string) ([]string, error) {
	out, err := outputGit(ctx, root,
		"diff", "--staged", "--name-only", "--no-ext-diff", "-z",
		"--diff-filter=ACMRTUXB")
	if err != nil {
		return nil, fmt.Errorf("failed to list staged files: %w", err)
	}
	return zsplit(out), nil
}

// AllFiles returns every file tracked by git, relative to the
// repository root.
func AllFiles(ctx context.Context, root string) ([]string, error) {
	out, err := outputGit(ctx, root, "ls-files", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked files: %w", err)
	}
	return zsplit(out), nil
}

// IntentToAddFiles returns paths staged with --intent-to-add: recorded
// in the index as new but with no content yet. These need special
// handling around a run because clearing the index entry would lose the
// marker.
func IntentToAddFiles(ctx context.Context, root string) ([]string, error) {
	out, err := outputGit(ctx, root, "status", "--ignore-submodules", "--porcelain", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to read git status: %w", err)
	}

	var intentToAdd []string
	entries := zsplit(out)
	for i := 0; i < len(entries); i++ {
		line := entries[i]
		if len(line) < 3 {
			continue
		}
		status, filename := line[:2], line[3:]
		// Renames and copies carry the source path as an extra entry.
		if status[0] == 'C' || status[0] == 'R' {
			i++
		}
		if status[1] == 'A' {
			intentToAdd = append(intentToAdd, filename)
		}
	}
	return intentToAdd, nil
}

// RemoveCached drops the index entries for the given paths without
// touching the working tree.
func RemoveCached(ctx context.Context, root string, paths []string) error {
	args := append([]string{"rm", "--cached", "--quiet", "--"}, paths...)
	if err := runGit(ctx, root, args...); err != nil {
		return fmt.Errorf("failed to clear intent-to-add entries: %w", err)
	}
	return nil
}

// AddIntentToAdd re-marks the given paths as intent-to-add.
func AddIntentToAdd(ctx context.Context, root string, paths []string) error {
	args := append([]string{"add", "--intent-to-add", "--"}, paths...)
	if err := runGit(ctx, root, args...); err != nil {
		return fmt.Errorf("failed to restore intent-to-add entries: %w", err)
	}
	return nil
}
