// Package store manages hk's on-disk cache directory: the patch files
// the working-tree guard writes, and the tool environments language
// runners install into.
package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const readme = "This directory is maintained by hk.\n" +
	"It holds language environments and working-tree patches; it is safe to delete.\n"

// Store is a handle to the cache directory. Zero-value is not usable;
// construct with New and call Init before use.
type Store struct {
	path string
}

// New resolves the cache directory: $HK_HOME if set, the store_dir
// config override if given, else the user cache dir.
func New(override string) (*Store, error) {
	if env := os.Getenv("HK_HOME"); env != "" {
		return &Store{path: env}, nil
	}
	if override != "" {
		return &Store{path: override}, nil
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine cache directory: %w", err)
	}
	return &Store{path: filepath.Join(cache, "hk")}, nil
}

// Init creates the cache directory structure and the README marker.
// Idempotent.
func (s *Store) Init() error {
	for _, dir := range []string{s.path, s.PatchDir(), s.toolsRoot()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	readmePath := filepath.Join(s.path, "README")
	if _, err := os.Stat(readmePath); os.IsNotExist(err) {
		if err := os.WriteFile(readmePath, []byte(readme), 0o644); err != nil {
			return fmt.Errorf("failed to write store README: %w", err)
		}
	}
	return nil
}

// Path returns the store root.
func (s *Store) Path() string {
	return s.path
}

// PatchDir is where the working-tree guard persists unstaged-change
// patches. Patches are kept after restoration so an operator can
// recover manually if restoration ever misbehaves.
func (s *Store) PatchDir() string {
	return filepath.Join(s.path, "patches")
}

func (s *Store) toolsRoot() string {
	return filepath.Join(s.path, "tools")
}

// ToolsDir returns the environment root for a language runner, creating
// it on demand.
func (s *Store) ToolsDir(language string) (string, error) {
	dir := filepath.Join(s.toolsRoot(), language)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create tools directory for %s: %w", language, err)
	}
	return dir, nil
}
