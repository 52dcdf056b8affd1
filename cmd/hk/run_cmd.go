package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [HOOK]",
		Short: "Run the hook pipeline",
		Args:  cobra.MaximumNArgs(1),
		Long: `Run the hooks defined in .hk.yaml.

By default hooks run against the files staged for commit, with unstaged
changes stashed away for the duration of the run. Use --all-files to run
against every tracked file instead, or --files to name files explicitly.`,
		Example: `  hk run                         # Run all hooks on staged files
  hk run trailing-whitespace     # Run a single hook
  hk run --all-files             # Run on every tracked file
  git ls-files '*.go' | hk run --files -   # Run on piped filenames
  SKIP=lint hk run               # Skip hooks by id`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.hookID = args[0]
			}
			// SKIP env extends the flag, comma-separated like the flag
			if env := os.Getenv("SKIP"); env != "" {
				for _, s := range strings.Split(env, ",") {
					if s = strings.TrimSpace(s); s != "" {
						opts.skips = append(opts.skips, s)
					}
				}
			}
			return runPipeline(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.allFiles, "all-files", "a", false, "Run on all tracked files instead of staged ones")
	cmd.Flags().StringSliceVar(&opts.files, "files", nil, "Run on the given files ('-' reads from stdin)")
	cmd.Flags().StringSliceVar(&opts.skips, "skip", nil, "Skip hooks by id or alias")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "Stop after the first failing hook")
	cmd.Flags().BoolVar(&opts.showDiff, "show-diff-on-failure", false, "Print the working-tree diff when hooks fail")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Pipeline file (default .hk.yaml at the repo root)")
	cmd.MarkFlagsMutuallyExclusive("all-files", "files")

	return cmd
}
