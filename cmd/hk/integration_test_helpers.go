//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/raphi011/hk/internal/config"
	"github.com/raphi011/hk/internal/log"
	"github.com/raphi011/hk/internal/output"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// setupTestRepo creates a git repo with an initial commit in a temp dir.
// Returns the absolute path to the created repo (with symlinks resolved).
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := resolvePath(t, t.TempDir())

	cmds := [][]string{
		{"git", "init"},
		{"git", "config", "user.email", "test@test.com"},
		{"git", "config", "user.name", "Test User"},
		{"git", "config", "commit.gpgsign", "false"},
	}
	for _, args := range cmds {
		gitRun(t, dir, args...)
	}

	writeFile(t, dir, "README.md", "# test\n")
	gitRun(t, dir, "git", "add", "README.md")
	gitRun(t, dir, "git", "commit", "-m", "Initial commit")

	return dir
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to run %v: %v\n%s", args, err, out)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// testContext returns a context with logger and printer writing into the
// returned buffer.
func testContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, false, false))
	ctx = output.WithPrinter(ctx, &buf)
	return ctx, &buf
}

// setupCommandState points the package-level command state at the given
// repo and an isolated store, restoring everything when the test ends.
func setupCommandState(t *testing.T, repo string) {
	t.Helper()

	oldWorkDir := workDir
	oldCfg := cfg
	workDir = repo
	cfg = config.DefaultGlobal()
	cfg.Color = "never"
	cfg.StoreDir = t.TempDir()
	t.Cleanup(func() {
		workDir = oldWorkDir
		cfg = oldCfg
	})
}
