package run

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphi011/hk/internal/hook"
)

// fakeLanguage scripts per-batch outcomes, keyed by the first filename
// of the batch. It deliberately scrambles completion order to prove the
// combined output is reassembled in partition order.
type fakeLanguage struct {
	mu       sync.Mutex
	calls    [][]string
	installs atomic.Int32

	codes  map[string]int
	delays map[string]time.Duration
	err    error
}

func (f *fakeLanguage) Install(ctx context.Context, h *hook.Hook) error {
	f.installs.Add(1)
	return nil
}

func (f *fakeLanguage) Run(ctx context.Context, h *hook.Hook, filenames []string, env map[string]string) (int, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filenames)
	f.mu.Unlock()

	if f.err != nil {
		return -1, nil, f.err
	}

	key := ""
	if len(filenames) > 0 {
		key = filenames[0]
	}
	if d, ok := f.delays[key]; ok {
		time.Sleep(d)
	}
	return f.codes[key], []byte(fmt.Sprintf("ran %s\n", key)), nil
}

func TestRunBatches_PartitionOrderOutput(t *testing.T) {
	t.Parallel()

	// First batch finishes last; output must still lead.
	fake := &fakeLanguage{
		codes:  map[string]int{},
		delays: map[string]time.Duration{"a": 50 * time.Millisecond},
	}
	h := &hook.Hook{ID: "x", Entry: "check"}
	batches := [][]string{{"a"}, {"b"}, {"c"}}

	code, out, err := runBatches(context.Background(), fake, h, batches, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "ran a\nran b\nran c\n", string(out))
}

func TestRunBatches_AnyNonZeroFails(t *testing.T) {
	t.Parallel()

	fake := &fakeLanguage{codes: map[string]int{"b": 3}}
	h := &hook.Hook{ID: "x", Entry: "check"}
	batches := [][]string{{"a"}, {"b"}, {"c"}}

	code, out, err := runBatches(context.Background(), fake, h, batches, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, code, "first non-zero code in partition order wins")

	// A failing batch must not cancel its siblings.
	assert.Len(t, fake.calls, 3)
	assert.Contains(t, string(out), "ran c")
}

func TestRunBatches_FirstNonZeroInPartitionOrder(t *testing.T) {
	t.Parallel()

	// Batch c fails fast, batch a fails slow; partition order says a's
	// code is reported.
	fake := &fakeLanguage{
		codes:  map[string]int{"a": 1, "c": 9},
		delays: map[string]time.Duration{"a": 30 * time.Millisecond},
	}
	h := &hook.Hook{ID: "x", Entry: "check"}
	batches := [][]string{{"a"}, {"b"}, {"c"}}

	code, _, err := runBatches(context.Background(), fake, h, batches, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, code)
}

func TestRunBatches_SpawnErrorAborts(t *testing.T) {
	t.Parallel()

	fake := &fakeLanguage{err: errors.New("fork failed")}
	h := &hook.Hook{ID: "x", Entry: "check"}

	_, _, err := runBatches(context.Background(), fake, h, [][]string{{"a"}}, nil, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fork failed")
	assert.Contains(t, err.Error(), "x", "error should name the hook")
}

func TestRunBatches_EmptyBatchRunsOnce(t *testing.T) {
	t.Parallel()

	fake := &fakeLanguage{codes: map[string]int{}}
	h := &hook.Hook{ID: "x", Entry: "check"}

	code, _, err := runBatches(context.Background(), fake, h, [][]string{{}}, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	require.Len(t, fake.calls, 1)
	assert.Empty(t, fake.calls[0])
}
