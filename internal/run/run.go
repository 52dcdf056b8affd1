package run

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/hook"
	"github.com/raphi011/hk/internal/identify"
	"github.com/raphi011/hk/internal/language"
	"github.com/raphi011/hk/internal/log"
	"github.com/raphi011/hk/internal/output"
	"github.com/raphi011/hk/internal/ui/styles"
)

const (
	passedLabel  = "Passed"
	failedLabel  = "Failed"
	skippedLabel = "Skipped"
	noFilesLabel = "(no files to check)"
)

// Options configures a pipeline run.
type Options struct {
	// Root is the repository top-level directory.
	Root string
	// Hooks in configured order.
	Hooks []hook.Hook
	// Skips holds hook ids or aliases to skip.
	Skips []string
	// Filenames is the run's master file list, relative to Root.
	Filenames []string
	// Env is the shared environment passed to every batch.
	Env map[string]string
	// Languages resolves each hook's runner.
	Languages *language.Registry

	FailFast          bool
	ShowDiffOnFailure bool
	Verbose           bool
	NoConcurrency     bool
	Color             bool
}

// Hooks executes the pipeline. The returned bool is the overall
// result: true iff every executed hook succeeded. The returned error
// marks infrastructure failures, which abort the run and are distinct
// from hooks reporting failure.
func Hooks(ctx context.Context, opts Options) (bool, error) {
	columns := calculateColumns(opts.Hooks)

	diff, err := git.Diff(ctx, opts.Root)
	if err != nil {
		return false, err
	}

	success := true
	// Hooks must run in serial: each observes the working-tree side
	// effects of the previous one.
	for i := range opts.Hooks {
		h := &opts.Hooks[i]
		hookSuccess, newDiff, err := runHook(ctx, opts, h, diff, columns)
		if err != nil {
			return false, err
		}
		success = success && hookSuccess
		diff = newDiff
		if !success && (opts.FailFast || h.FailFast) {
			break
		}
	}

	if !success && opts.ShowDiffOnFailure {
		p := output.FromContext(ctx)
		p.Println("All changes made by hooks:")
		out, err := git.ShowDiff(ctx, opts.Root, opts.Color)
		if err != nil {
			return false, err
		}
		p.Print(string(out))
	}

	return success, nil
}

// runHook executes one hook and returns its success plus the new diff
// snapshot that becomes "current" for the next hook.
func runHook(ctx context.Context, opts Options, h *hook.Hook, diff []byte, columns int) (bool, []byte, error) {
	p := output.FromContext(ctx)

	if slices.Contains(opts.Skips, h.ID) || (h.Alias != "" && slices.Contains(opts.Skips, h.Alias)) {
		p.Println(statusLine(h.DisplayName(), columns, skippedLabel, styles.Skipped, ""))
		return true, diff, nil
	}

	filenames, err := selectFilenames(ctx, opts.Root, h, opts.Filenames)
	if err != nil {
		return false, nil, err
	}

	if len(filenames) == 0 && !h.AlwaysRun {
		p.Println(statusLine(h.DisplayName(), columns, skippedLabel, styles.SkippedNoFiles, noFilesLabel))
		return true, diff, nil
	}

	// Print the line prefix before running so long hooks show which
	// hook is in flight.
	name := h.DisplayName()
	p.Print(name + strings.Repeat(".", columns-lipgloss.Width(name)-len(passedLabel)-1))

	lang, err := opts.Languages.Get(h.Language)
	if err != nil {
		return false, nil, err
	}

	start := time.Now()
	exitCode, combined, runErr := executeHook(ctx, opts, lang, h, filenames)
	duration := time.Since(start)
	if runErr != nil {
		p.Println() // terminate the dotted line before the error surfaces
		return false, nil, runErr
	}

	newDiff, err := git.Diff(ctx, opts.Root)
	if err != nil {
		p.Println()
		return false, nil, err
	}
	modified := !bytes.Equal(diff, newDiff)
	success := exitCode == 0 && !modified

	if success {
		p.Println(styles.Passed.Render(passedLabel))
	} else {
		p.Println(styles.Failed.Render(failedLabel))
	}

	if opts.Verbose || h.Verbose || !success {
		report(ctx, opts, h, reportDetails{
			exitCode: exitCode,
			modified: modified,
			duration: duration,
			output:   combined,
		})
	}

	return success, newDiff, nil
}

// executeHook installs the hook's environment if needed and runs all
// its batches. An install failure is reported as a failing outcome
// rather than aborting the run: the hook is unavailable, its siblings
// are not.
func executeHook(ctx context.Context, opts Options, lang language.Language, h *hook.Hook, filenames []string) (int, []byte, error) {
	if err := lang.Install(ctx, h); err != nil {
		return 1, []byte(err.Error()), nil
	}

	var toRun []string
	if h.PassFilenames {
		toRun = slices.Clone(filenames)
		shuffleFilenames(toRun)
	}

	concurrency := targetConcurrency(h.RequireSerial, opts.NoConcurrency)
	batches := partitions(h, toRun, concurrency)

	if logger := log.FromContext(ctx); logger.Verbose() {
		logger.Printf("hook %s: %d files, %d batches, concurrency %d\n",
			h.ID, len(toRun), len(batches), concurrency)
	}

	env := opts.Env
	if h.ID != "" {
		env = maps.Clone(opts.Env)
		if env == nil {
			env = make(map[string]string, 1)
		}
		env["HK_HOOK_ID"] = h.ID
	}

	return runBatches(ctx, lang, h, batches, env, concurrency)
}

// selectFilenames applies the hook's filename filter, then its tag
// filter, to the master file list. A path whose classification fails is
// logged and excluded; one bad path must not abort the run.
func selectFilenames(ctx context.Context, root string, h *hook.Hook, master []string) ([]string, error) {
	filter, err := FilenameFilterForHook(h)
	if err != nil {
		return nil, err
	}
	tagFilter := TagFilterForHook(h)
	logger := log.FromContext(ctx)

	var selected []string
	for _, filename := range master {
		if !filter.Matches(filename) {
			continue
		}
		tags, err := identify.TagsFromPath(filepath.Join(root, filename))
		if err != nil {
			logger.Warnf("failed to classify %s: %v", filename, err)
			continue
		}
		if tagFilter.Matches(tags) {
			selected = append(selected, filename)
		}
	}
	return selected, nil
}

type reportDetails struct {
	exitCode int
	modified bool
	duration time.Duration
	output   []byte
}

// report prints the dimmed detail block shown after a failure or in
// verbose mode. When the hook configures a log file, the captured
// output is appended there instead of printed.
func report(ctx context.Context, opts Options, h *hook.Hook, d reportDetails) {
	p := output.FromContext(ctx)

	p.Println(styles.Dimmed.Render(fmt.Sprintf("- hook id: %s", h.ID)))
	if opts.Verbose || h.Verbose {
		p.Println(styles.Dimmed.Render(fmt.Sprintf("- duration: %.2fs", d.duration.Seconds())))
	}
	if d.exitCode != 0 {
		p.Println(styles.Dimmed.Render(fmt.Sprintf("- exit code: %d", d.exitCode)))
	}
	if d.modified {
		p.Println(styles.Dimmed.Render("- files were modified by this hook"))
	}

	out := bytes.TrimSpace(d.output)
	if len(out) == 0 {
		return
	}
	if h.LogFile != "" {
		logFile := h.LogFile
		if !filepath.IsAbs(logFile) {
			logFile = filepath.Join(opts.Root, logFile)
		}
		if err := appendLogFile(logFile, out); err != nil {
			log.FromContext(ctx).Warnf("failed to write log file %s: %v", h.LogFile, err)
		}
		return
	}
	p.Println(styles.Dimmed.Render(indent(string(out), "  ")))
}

func appendLogFile(path string, out []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(out)
	return err
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// statusLine lays out "name....(postfix)Verdict" padded to the given
// column width. The verdict is styled; padding math uses the unstyled
// widths.
func statusLine(name string, columns int, verdict string, style lipgloss.Style, postfix string) string {
	dots := columns - lipgloss.Width(name) - len(verdict) - len(postfix) - 1
	if dots < 1 {
		dots = 1
	}
	return name + strings.Repeat(".", dots) + postfix + style.Render(verdict)
}

// calculateColumns picks the report width: at least 80, wide enough for
// the longest hook name plus the widest verdict decoration.
func calculateColumns(hooks []hook.Hook) int {
	nameLen := 0
	for i := range hooks {
		nameLen = max(nameLen, lipgloss.Width(hooks[i].DisplayName()))
	}
	return max(80, nameLen+3+len(noFilesLabel)+1+len(skippedLabel))
}
