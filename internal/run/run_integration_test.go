//go:build integration

package run

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/hook"
	"github.com/raphi011/hk/internal/language"
	"github.com/raphi011/hk/internal/log"
	"github.com/raphi011/hk/internal/output"
	"github.com/raphi011/hk/internal/store"
)

// setupTestRepo creates a git repo with an initial commit in a temp dir.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}

	cmds := [][]string{
		{"git", "init"},
		{"git", "config", "user.email", "test@test.com"},
		{"git", "config", "user.name", "Test User"},
		{"git", "config", "commit.gpgsign", "false"},
	}
	for _, args := range cmds {
		gitRun(t, dir, args...)
	}

	writeFile(t, dir, "README.md", "# test\n")
	gitRun(t, dir, "git", "add", "README.md")
	gitRun(t, dir, "git", "commit", "-m", "Initial commit")

	return dir
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to run %v: %v\n%s", args, err, out)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// runPipeline executes hooks against a repo and returns the success flag
// plus the captured status output.
func runPipeline(t *testing.T, repo string, hooks []hook.Hook, filenames []string, failFast bool) (bool, string) {
	t.Helper()

	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	ctx := output.WithPrinter(context.Background(), &buf)
	ctx = log.WithLogger(ctx, log.New(&buf, false, false))

	ok, err := Hooks(ctx, Options{
		Root:      repo,
		Hooks:     hooks,
		Filenames: filenames,
		Languages: language.NewRegistry(repo, st),
		FailFast:  failFast,
	})
	if err != nil {
		t.Fatalf("Hooks() = %v\noutput:\n%s", err, buf.String())
	}
	return ok, buf.String()
}

func TestHooks_MutationDetection(t *testing.T) {
	repo := setupTestRepo(t)

	writeFile(t, repo, "notes.txt", "trailing space \n")
	writeFile(t, repo, "config.json", "{}\n")
	gitRun(t, repo, "git", "add", "notes.txt", "config.json")

	hooks := []hook.Hook{
		{
			ID:            "trim-trailing",
			Entry:         `sh -c 'for f in "$@"; do sed -i "s/ *$//" "$f"; done' --`,
			Language:      "system",
			Types:         []string{"text"},
			PassFilenames: true,
		},
		{
			ID:            "check-json",
			Entry:         `sh -c 'exit 0'`,
			Language:      "system",
			Types:         []string{"json"},
			PassFilenames: true,
		},
	}

	ok, out := runPipeline(t, repo, hooks, []string{"notes.txt", "config.json"}, false)

	if ok {
		t.Error("run should fail: the fixer modified a file")
	}
	if !strings.Contains(out, "Failed") {
		t.Errorf("output missing Failed verdict:\n%s", out)
	}
	if !strings.Contains(out, "files were modified by this hook") {
		t.Errorf("output missing modification notice:\n%s", out)
	}
	if !strings.Contains(out, "Passed") {
		t.Errorf("clean json hook should still pass:\n%s", out)
	}

	content, err := os.ReadFile(filepath.Join(repo, "notes.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "trailing space\n" {
		t.Errorf("fixer output = %q, want trailing space stripped", content)
	}
}

func TestHooks_TagFiltering(t *testing.T) {
	repo := setupTestRepo(t)

	writeFile(t, repo, "x.txt", "text\n")
	writeFile(t, repo, "y.json", "{}\n")
	gitRun(t, repo, "git", "add", "x.txt", "y.json")

	seen := filepath.Join(t.TempDir(), "seen")
	hooks := []hook.Hook{
		{
			ID:            "json-only",
			Entry:         `sh -c 'printf "%s\n" "$@" >> ` + seen + `' --`,
			Language:      "system",
			Types:         []string{"json"},
			PassFilenames: true,
		},
	}

	ok, _ := runPipeline(t, repo, hooks, []string{"x.txt", "y.json"}, false)
	if !ok {
		t.Fatal("run should pass")
	}

	got, err := os.ReadFile(seen)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "y.json\n" {
		t.Errorf("hook saw %q, want only y.json", got)
	}
}

func TestHooks_AllFilteredSkipsWithoutRunning(t *testing.T) {
	repo := setupTestRepo(t)

	writeFile(t, repo, "x.txt", "text\n")
	gitRun(t, repo, "git", "add", "x.txt")

	marker := filepath.Join(t.TempDir(), "marker")
	hooks := []hook.Hook{
		{
			ID:            "json-only",
			Entry:         `sh -c 'touch ` + marker + `'`,
			Language:      "system",
			Types:         []string{"json"},
			PassFilenames: true,
		},
	}

	ok, out := runPipeline(t, repo, hooks, []string{"x.txt"}, false)
	if !ok {
		t.Error("fully filtered hook counts as success")
	}
	if !strings.Contains(out, noFilesLabel) || !strings.Contains(out, skippedLabel) {
		t.Errorf("output missing skip notice:\n%s", out)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Error("filtered hook must not be invoked at all")
	}
}

func TestHooks_FailFastStopsPipeline(t *testing.T) {
	repo := setupTestRepo(t)

	writeFile(t, repo, "x.txt", "text\n")
	gitRun(t, repo, "git", "add", "x.txt")

	marker := filepath.Join(t.TempDir(), "marker")
	hooks := []hook.Hook{
		{
			ID:       "broken",
			Entry:    `sh -c 'exit 3'`,
			Language: "system",
		},
		{
			ID:        "later",
			Entry:     `sh -c 'touch ` + marker + `'`,
			Language:  "system",
			AlwaysRun: true,
		},
	}

	ok, out := runPipeline(t, repo, hooks, []string{"x.txt"}, true)
	if ok {
		t.Error("run should fail")
	}
	if !strings.Contains(out, "exit code: 3") {
		t.Errorf("output missing exit code detail:\n%s", out)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Error("fail_fast must stop later hooks, even always_run ones")
	}
}

func TestHooks_SkipList(t *testing.T) {
	repo := setupTestRepo(t)

	writeFile(t, repo, "x.txt", "text\n")
	gitRun(t, repo, "git", "add", "x.txt")

	marker := filepath.Join(t.TempDir(), "marker")
	hooks := []hook.Hook{
		{
			ID:       "skipme",
			Entry:    `sh -c 'touch ` + marker + `'`,
			Language: "system",
		},
	}

	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	ctx := output.WithPrinter(context.Background(), &buf)

	ok, err := Hooks(ctx, Options{
		Root:      repo,
		Hooks:     hooks,
		Skips:     []string{"skipme"},
		Filenames: []string{"x.txt"},
		Languages: language.NewRegistry(repo, st),
	})
	if err != nil {
		t.Fatalf("Hooks() = %v", err)
	}
	if !ok {
		t.Error("skipped hook counts as success")
	}
	if !strings.Contains(buf.String(), skippedLabel) {
		t.Errorf("output missing Skipped verdict:\n%s", buf.String())
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Error("skipped hook must not run")
	}
}

func TestHooks_FailLanguage(t *testing.T) {
	repo := setupTestRepo(t)

	writeFile(t, repo, "secret.key", "aaa\n")
	gitRun(t, repo, "git", "add", "secret.key")

	hooks := []hook.Hook{
		{
			ID:            "no-secrets",
			Entry:         "do not commit key files",
			Language:      "fail",
			Files:         `\.key$`,
			PassFilenames: true,
		},
	}

	ok, out := runPipeline(t, repo, hooks, []string{"secret.key"}, false)
	if ok {
		t.Error("fail hook with matching files must fail")
	}
	if !strings.Contains(out, "do not commit key files") {
		t.Errorf("output missing entry text:\n%s", out)
	}
	if !strings.Contains(out, "secret.key") {
		t.Errorf("output missing offending filename:\n%s", out)
	}
}
