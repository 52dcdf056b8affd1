package run

import (
	"math/rand"
	"os"
	"runtime"

	"github.com/raphi011/hk/internal/hook"
)

// shuffleSeed is fixed so runs are reproducible: identical inputs
// always produce identical batch contents.
const shuffleSeed = 1542676187

// shuffleFilenames spreads files evenly across batches regardless of
// their natural ordering (alphabetical clustering tends to group large
// files together), while staying fully deterministic.
func shuffleFilenames(filenames []string) {
	rng := rand.New(rand.NewSource(shuffleSeed))
	rng.Shuffle(len(filenames), func(i, j int) {
		filenames[i], filenames[j] = filenames[j], filenames[i]
	})
}

// targetConcurrency computes a hook's effective concurrency: 1 when the
// hook requires serial execution or concurrency is globally disabled,
// otherwise the number of available execution units.
func targetConcurrency(serial, noConcurrency bool) int {
	if serial || noConcurrency || os.Getenv("HK_NO_CONCURRENCY") != "" {
		return 1
	}
	return runtime.NumCPU()
}

// maxCLILength is a conservative ceiling for a single command line,
// well below the real OS limits to leave headroom for environment
// variables.
func maxCLILength() int {
	if runtime.GOOS == "windows" {
		return (1 << 15) - 2048 // UNICODE_STRING max minus headroom
	}
	return 1 << 12
}

// partitions splits the filtered filenames into ordered batches. Each
// batch respects both the command-line length ceiling and a per-batch
// count bound that shrinks as concurrency grows, so the number of
// spawned processes stays proportional to the available parallelism.
//
// An empty input yields exactly one empty batch: hooks that do not take
// filenames still run once.
func partitions(h *hook.Hook, filenames []string, concurrency int) [][]string {
	if len(filenames) == 0 {
		return [][]string{{}}
	}

	maxPerBatch := max(4, ceilDiv(len(filenames), concurrency))
	maxLength := maxCLILength()
	commandLength := h.CommandLength()

	var batches [][]string
	current := make([]string, 0, maxPerBatch)
	currentLength := commandLength + 1

	for _, filename := range filenames {
		length := len(filename) + 1
		if currentLength+length > maxLength || len(current) >= maxPerBatch {
			batches = append(batches, current)
			current = make([]string, 0, maxPerBatch)
			currentLength = commandLength + 1
		}
		current = append(current, filename)
		currentLength += length
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}

	return batches
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
