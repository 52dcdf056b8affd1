package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/hk/internal/config"
	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/hook"
	"github.com/raphi011/hk/internal/language"
	"github.com/raphi011/hk/internal/log"
	"github.com/raphi011/hk/internal/run"
	"github.com/raphi011/hk/internal/store"
)

type runOptions struct {
	hookID     string
	allFiles   bool
	files      []string
	skips      []string
	failFast   bool
	showDiff   bool
	configPath string
}

func runPipeline(ctx context.Context, opts runOptions) error {
	root, err := git.Root(ctx, workDir)
	if err != nil {
		return err
	}

	pipelinePath := opts.configPath
	if pipelinePath == "" {
		pipelinePath = filepath.Join(root, config.DefaultPipelineFile)
	}
	pipeline, err := config.LoadPipeline(pipelinePath)
	if err != nil {
		return err
	}

	hooks := pipeline.Resolve()
	if opts.hookID != "" {
		hooks = selectHook(hooks, opts.hookID)
		if len(hooks) == 0 {
			return fmt.Errorf("unknown hook %q (available: %s)", opts.hookID, hookIDs(pipeline))
		}
	}

	filenames, err := masterFileList(ctx, root, opts)
	if err != nil {
		return err
	}
	if pipeline.Exclude != "" {
		filenames, err = applyExclude(filenames, pipeline.Exclude)
		if err != nil {
			return fmt.Errorf("%s: invalid exclude pattern: %w", pipelinePath, err)
		}
	}

	st, err := store.New(cfg.StoreDir)
	if err != nil {
		return err
	}
	if err := st.Init(); err != nil {
		return err
	}

	// Hooks must observe exactly the staged content, so unstaged changes
	// are stashed for the duration of the run. Explicit file lists run
	// against the working tree as-is.
	guarded := !opts.allFiles && len(opts.files) == 0
	if guarded && !git.HasCommits(ctx, root) {
		log.FromContext(ctx).Printf("No commits yet, running against the working tree.\n")
		guarded = false
	}
	if guarded {
		guard, err := run.KeepWorkingTree(ctx, root, st.PatchDir())
		if err != nil {
			return err
		}
		defer guard.Restore(ctx)
	}

	ok, err := run.Hooks(ctx, run.Options{
		Root:              root,
		Hooks:             hooks,
		Skips:             opts.skips,
		Filenames:         filenames,
		Env:               map[string]string{"HK": "1"},
		Languages:         language.NewRegistry(root, st),
		FailFast:          opts.failFast || pipeline.FailFast,
		ShowDiffOnFailure: opts.showDiff,
		Verbose:           verbose,
		NoConcurrency:     cfg.NoConcurrency,
		Color:             colorEnabled(),
	})
	if err != nil {
		return err
	}
	if !ok {
		return errHooksFailed
	}
	return nil
}

// masterFileList resolves the run's file universe: staged files by
// default, all tracked files with --all-files, or the explicit --files
// list with '-' reading piped names from stdin.
func masterFileList(ctx context.Context, root string, opts runOptions) ([]string, error) {
	switch {
	case opts.allFiles:
		return git.AllFiles(ctx, root)
	case len(opts.files) > 0:
		var filenames []string
		for _, f := range opts.files {
			if f == "-" {
				fromStdin, err := readStdinFiles()
				if err != nil {
					return nil, err
				}
				filenames = append(filenames, fromStdin...)
				continue
			}
			filenames = append(filenames, f)
		}
		return filenames, nil
	default:
		return git.StagedFiles(ctx, root)
	}
}

// readStdinFiles parses NUL- or newline-separated filenames from piped
// stdin.
func readStdinFiles() ([]string, error) {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, fmt.Errorf("--files -: stdin is a terminal, pipe filenames in")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read filenames from stdin: %w", err)
	}

	sep := "\n"
	if strings.ContainsRune(string(data), '\x00') {
		sep = "\x00"
	}
	var filenames []string
	for _, f := range strings.Split(string(data), sep) {
		if f = strings.TrimSpace(f); f != "" {
			filenames = append(filenames, f)
		}
	}
	return filenames, nil
}

// applyExclude drops files matching the pipeline's top-level exclude
// pattern from the master list.
func applyExclude(filenames []string, exclude string) ([]string, error) {
	filter, err := run.NewFilenameFilter("", exclude)
	if err != nil {
		return nil, err
	}
	var kept []string
	for _, f := range filenames {
		if filter.Matches(f) {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

// selectHook keeps the hooks matching the given id or alias. Several
// hooks may share an id; all of them run.
func selectHook(hooks []hook.Hook, id string) []hook.Hook {
	var selected []hook.Hook
	for _, h := range hooks {
		if h.ID == id || h.Alias == id {
			selected = append(selected, h)
		}
	}
	return selected
}

func hookIDs(p *config.Pipeline) string {
	ids := make([]string, 0, len(p.Hooks))
	for _, h := range p.Hooks {
		ids = append(ids, h.ID)
	}
	return strings.Join(ids, ", ")
}
