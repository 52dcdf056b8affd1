package run

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/hk/internal/hook"
	"github.com/raphi011/hk/internal/language"
)

// batchResult holds one batch's outcome, indexed by partition so the
// combined report is deterministic regardless of completion order.
type batchResult struct {
	code   int
	output []byte
}

// runBatches executes all batches of one hook with bounded concurrency
// and combines their outcomes.
//
// Exit codes are data: a failing batch never cancels its siblings. Only
// spawn failures propagate as errors, and those abort the run. The
// combined exit code is the first non-zero code in partition order
// (zero when all batches passed); combined output concatenates batch
// outputs in partition order.
func runBatches(
	ctx context.Context,
	lang language.Language,
	h *hook.Hook,
	batches [][]string,
	env map[string]string,
	concurrency int,
) (int, []byte, error) {
	results := make([]batchResult, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(concurrency, len(batches)))

	for i, batch := range batches {
		g.Go(func() error {
			code, out, err := lang.Run(gctx, h, batch, env)
			if err != nil {
				return fmt.Errorf("hook %s: %w", h.ID, err)
			}
			results[i] = batchResult{code: code, output: out}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, nil, err
	}

	exitCode := 0
	var combined bytes.Buffer
	for _, r := range results {
		if exitCode == 0 && r.code != 0 {
			exitCode = r.code
		}
		combined.Write(r.output)
	}
	return exitCode, combined.Bytes(), nil
}
