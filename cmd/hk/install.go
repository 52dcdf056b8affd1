package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/output"
)

// hookMarker identifies scripts written by hk install, so install and
// uninstall never clobber a hook script they did not write.
const hookMarker = "# installed by hk"

const hookScript = `#!/bin/sh
` + hookMarker + `
exec hk run "$@"
`

func installHook(ctx context.Context, force bool) error {
	root, err := git.Root(ctx, workDir)
	if err != nil {
		return err
	}
	hooksPath, err := git.HooksPath(ctx, root)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(hooksPath, 0o755); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}

	scriptPath := filepath.Join(hooksPath, "pre-commit")
	if existing, err := os.ReadFile(scriptPath); err == nil {
		if !strings.Contains(string(existing), hookMarker) && !force {
			return fmt.Errorf("%s exists and was not written by hk, pass --force to overwrite", scriptPath)
		}
	}

	if err := os.WriteFile(scriptPath, []byte(hookScript), 0o755); err != nil {
		return fmt.Errorf("failed to write hook script: %w", err)
	}

	output.FromContext(ctx).Printf("Installed pre-commit hook at %s\n", scriptPath)
	return nil
}

func uninstallHook(ctx context.Context, force bool) error {
	root, err := git.Root(ctx, workDir)
	if err != nil {
		return err
	}
	hooksPath, err := git.HooksPath(ctx, root)
	if err != nil {
		return err
	}

	scriptPath := filepath.Join(hooksPath, "pre-commit")
	existing, err := os.ReadFile(scriptPath)
	if err != nil {
		if os.IsNotExist(err) {
			output.FromContext(ctx).Println("No pre-commit hook installed.")
			return nil
		}
		return fmt.Errorf("failed to read hook script: %w", err)
	}
	if !strings.Contains(string(existing), hookMarker) && !force {
		return fmt.Errorf("%s was not written by hk, pass --force to remove it", scriptPath)
	}

	if err := os.Remove(scriptPath); err != nil {
		return fmt.Errorf("failed to remove hook script: %w", err)
	}

	output.FromContext(ctx).Printf("Removed pre-commit hook at %s\n", scriptPath)
	return nil
}
