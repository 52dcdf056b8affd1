// Package git provides git operations via shell commands.
//
// All operations use [os/exec] to call the git CLI directly rather than
// a Go git library. This approach is simpler, more reliable, and ensures
// compatibility with user configurations (attributes, filters, hooks
// path overrides).
//
// The package exposes the primitives the run engine needs: staged-file
// listing, diff snapshots for mutation detection, and the index/worktree
// plumbing the working-tree guard is built from (write-tree, binary
// patches, checkout, intent-to-add bookkeeping).
package git
