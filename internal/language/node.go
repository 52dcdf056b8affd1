package language

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/raphi011/hk/internal/cmd"
	"github.com/raphi011/hk/internal/hook"
	"github.com/raphi011/hk/internal/store"
)

// Node runs JavaScript hooks from a per-hook npm environment under the
// store's tools directory. Install places the hook's additional
// dependencies there; Run prepends the environment's bin directory to
// PATH so the entry resolves to the installed tools.
type Node struct {
	root  string
	store *store.Store
}

// envDir returns the hook's environment directory, preferring an
// explicitly configured one.
func (n *Node) envDir(h *hook.Hook) (string, error) {
	if h.EnvDir != "" {
		return h.EnvDir, nil
	}
	tools, err := n.store.ToolsDir("node")
	if err != nil {
		return "", err
	}
	return filepath.Join(tools, h.ID), nil
}

func (n *Node) binDir(env string) string {
	return filepath.Join(env, "node_modules", ".bin")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Install creates the hook environment and installs its additional
// dependencies with npm. Idempotent: an environment whose bin
// directory already exists is left alone.
func (n *Node) Install(ctx context.Context, h *hook.Hook) error {
	if _, err := exec.LookPath("npm"); err != nil {
		return fmt.Errorf("npm not found: node hooks require a node installation")
	}

	env, err := n.envDir(h)
	if err != nil {
		return err
	}
	if _, err := os.Stat(n.binDir(env)); err == nil {
		return nil
	}
	if err := os.MkdirAll(env, 0o755); err != nil {
		return fmt.Errorf("failed to create node environment: %w", err)
	}
	if len(h.AdditionalDeps) == 0 {
		return nil
	}

	release, err := n.store.Lock(ctx)
	if err != nil {
		return err
	}
	defer release()

	args := append([]string{"install", "--prefix", env, "--no-audit", "--no-fund"}, h.AdditionalDeps...)
	if err := cmd.RunContext(ctx, n.root, "npm", args...); err != nil {
		return fmt.Errorf("failed to install node environment for %s: %w", h.ID, err)
	}
	return nil
}

func (n *Node) Run(ctx context.Context, h *hook.Hook, filenames []string, env map[string]string) (int, []byte, error) {
	words, err := splitEntry(h.Entry)
	if err != nil {
		return -1, nil, err
	}
	args := append(words[1:], h.Args...)
	args = append(args, filenames...)

	envDir, err := n.envDir(h)
	if err != nil {
		return -1, nil, err
	}

	// exec resolves the binary against the parent's PATH, so point the
	// entry at the environment's bin directly when it is installed there.
	entry := words[0]
	if installed := filepath.Join(n.binDir(envDir), entry); fileExists(installed) {
		entry = installed
	}

	c := exec.CommandContext(ctx, entry, args...)
	c.Dir = n.root
	c.Env = buildEnv(env, n.binDir(envDir))
	return cmd.CombinedExitCode(ctx, c)
}
