// Package run is hk's hook execution engine.
//
// Given resolved hooks and the run's master file list, it filters
// filenames per hook (include/exclude patterns, then classification
// tags), partitions the survivors into argument-length-bounded batches,
// executes the batches concurrently through the hook's language runner,
// and detects working-tree mutation by comparing diff snapshots taken
// around each hook. Hooks run strictly in configured order; only a
// single hook's batches ever overlap.
//
// The working-tree guard brackets the whole sequence: unstaged edits
// and intent-to-add markers are removed before the first hook and
// restored exactly once afterwards, on every exit path.
package run
