// Package language implements the per-language hook runners.
//
// A runner knows how to prepare a hook's execution environment and how
// to invoke it on a batch of filenames. The set of languages is closed:
// each config value maps to exactly one implementation, resolved when
// the registry is built. Runners never mutate the hook or the shared
// environment map.
package language

import (
	"context"
	"fmt"
	"os"
	"sort"

	shellwords "github.com/mattn/go-shellwords"

	"github.com/raphi011/hk/internal/hook"
	"github.com/raphi011/hk/internal/store"
)

// Language prepares and invokes hooks for one implementation language.
type Language interface {
	// Install prepares the hook's execution environment. Idempotent;
	// a no-op for languages that run straight from PATH.
	Install(ctx context.Context, h *hook.Hook) error

	// Run invokes the hook once on a batch of filenames, merging the
	// subprocess's stderr into the returned output. The exit code is
	// data; the error is reserved for spawn failures.
	Run(ctx context.Context, h *hook.Hook, filenames []string, env map[string]string) (int, []byte, error)
}

// Registry resolves config language names to runners. All runners
// execute with the repository root as working directory so relative
// filenames resolve the same way git produced them.
type Registry struct {
	languages map[string]Language
}

// NewRegistry builds the closed language set for one repository.
func NewRegistry(repoRoot string, st *store.Store) *Registry {
	return &Registry{
		languages: map[string]Language{
			"system": &System{root: repoRoot},
			"script": &Script{root: repoRoot},
			"fail":   &Fail{},
			"node":   &Node{root: repoRoot, store: st},
		},
	}
}

// Get returns the runner for a language name.
func (r *Registry) Get(name string) (Language, error) {
	lang, ok := r.languages[name]
	if !ok {
		return nil, fmt.Errorf("unknown language %q", name)
	}
	return lang, nil
}

// buildEnv merges the shared run environment into the process
// environment for a subprocess, optionally prepending a directory to
// PATH. The input map is read, never written.
func buildEnv(env map[string]string, pathPrefix string) []string {
	merged := os.Environ()

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		merged = append(merged, k+"="+env[k])
	}

	if pathPrefix != "" {
		merged = append(merged, "PATH="+pathPrefix+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
	return merged
}

// splitEntry splits a hook entry into command words with shell quoting
// and escape rules, so entries like `sh -c 'echo "a b"'` or
// `grep foo\ bar` work.
func splitEntry(entry string) ([]string, error) {
	words, err := shellwords.Parse(entry)
	if err != nil {
		return nil, fmt.Errorf("invalid entry %q: %w", entry, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("empty entry")
	}
	return words, nil
}
