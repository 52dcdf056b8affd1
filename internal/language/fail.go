package language

import (
	"bytes"
	"context"

	"github.com/raphi011/hk/internal/hook"
)

// Fail always fails, printing the hook entry as the message followed by
// the offending filenames. Used to forbid files matching a pattern.
type Fail struct{}

func (f *Fail) Install(ctx context.Context, h *hook.Hook) error {
	return nil
}

func (f *Fail) Run(ctx context.Context, h *hook.Hook, filenames []string, env map[string]string) (int, []byte, error) {
	var out bytes.Buffer
	out.WriteString(h.Entry)
	out.WriteByte('\n')
	for _, name := range filenames {
		out.WriteString(name)
		out.WriteByte('\n')
	}
	return 1, out.Bytes(), nil
}
