package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// HooksPath returns the absolute directory git will look in for hook
// scripts, honoring core.hooksPath overrides.
func HooksPath(ctx context.Context, root string) (string, error) {
	out, err := outputGit(ctx, root, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", fmt.Errorf("failed to resolve hooks path: %w", err)
	}
	path := strings.TrimSpace(string(out))
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return path, nil
}
