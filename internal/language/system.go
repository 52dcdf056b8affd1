package language

import (
	"context"
	"os/exec"

	"github.com/raphi011/hk/internal/cmd"
	"github.com/raphi011/hk/internal/hook"
)

// System runs the hook entry directly from PATH. This is the runner
// for hooks whose tool is already installed on the machine.
type System struct {
	root string
}

// Install is a no-op: system hooks use whatever is on PATH.
func (s *System) Install(ctx context.Context, h *hook.Hook) error {
	return nil
}

func (s *System) Run(ctx context.Context, h *hook.Hook, filenames []string, env map[string]string) (int, []byte, error) {
	words, err := splitEntry(h.Entry)
	if err != nil {
		return -1, nil, err
	}
	args := append(words[1:], h.Args...)
	args = append(args, filenames...)

	c := exec.CommandContext(ctx, words[0], args...)
	c.Dir = s.root
	c.Env = buildEnv(env, "")
	return cmd.CombinedExitCode(ctx, c)
}
