package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = fmt.Errorf("git not found: please install git (https://git-scm.com)")

// CheckGit verifies that git is available in PATH
func CheckGit() error {
	_, err := exec.LookPath("git")
	if err != nil {
		return ErrGitNotFound
	}
	return nil
}

// IsInsideRepo returns true if the given path is inside a git repository
func IsInsideRepo(ctx context.Context, path string) bool {
	err := runGit(ctx, path, "rev-parse", "--is-inside-work-tree")
	return err == nil
}

// Root returns the top-level directory of the repository containing path.
func Root(ctx context.Context, path string) (string, error) {
	out, err := outputGit(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// HasCommits returns true if HEAD resolves, i.e. the repository has at
// least one commit. The working-tree guard needs HEAD to write patches.
func HasCommits(ctx context.Context, path string) bool {
	err := runGit(ctx, path, "rev-parse", "--verify", "HEAD")
	return err == nil
}
