package language

import (
	"context"
	"os/exec"
	"path/filepath"

	"github.com/raphi011/hk/internal/cmd"
	"github.com/raphi011/hk/internal/hook"
)

// Script runs a repository-local script. The entry's first word is a
// path relative to the repository root.
type Script struct {
	root string
}

// Install is a no-op: the script ships with the repository.
func (s *Script) Install(ctx context.Context, h *hook.Hook) error {
	return nil
}

func (s *Script) Run(ctx context.Context, h *hook.Hook, filenames []string, env map[string]string) (int, []byte, error) {
	words, err := splitEntry(h.Entry)
	if err != nil {
		return -1, nil, err
	}

	script := words[0]
	if !filepath.IsAbs(script) {
		script = filepath.Join(s.root, script)
	}
	args := append(words[1:], h.Args...)
	args = append(args, filenames...)

	c := exec.CommandContext(ctx, script, args...)
	c.Dir = s.root
	c.Env = buildEnv(env, "")
	return cmd.CombinedExitCode(ctx, c)
}
