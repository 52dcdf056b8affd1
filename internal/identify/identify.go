// Package identify classifies files into tags used for hook selection.
//
// Every regular file gets "file" plus "text" or "binary", an executable
// bit adds "executable", and the extension (or shebang for
// extensionless executables) contributes language tags like "python"
// or "json".
package identify

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extensionTags maps a file extension (without dot) to its tags.
// Most extensions imply "text"; binary formats carry "binary" instead
// and suppress content probing.
var extensionTags = map[string][]string{
	"bash":     {"text", "shell", "bash"},
	"c":        {"text", "c"},
	"cfg":      {"text"},
	"cpp":      {"text", "c++"},
	"css":      {"text", "css"},
	"csv":      {"text", "csv"},
	"go":       {"text", "go"},
	"h":        {"text", "c", "header"},
	"html":     {"text", "html"},
	"ini":      {"text", "ini"},
	"js":       {"text", "javascript"},
	"json":     {"text", "json"},
	"jsx":      {"text", "jsx"},
	"lock":     {"text"},
	"md":       {"text", "markdown"},
	"mod":      {"text", "go-mod"},
	"proto":    {"text", "proto"},
	"py":       {"text", "python"},
	"pyi":      {"text", "pyi"},
	"rb":       {"text", "ruby"},
	"rs":       {"text", "rust"},
	"sh":       {"text", "shell"},
	"sql":      {"text", "sql"},
	"sum":      {"text", "go-sum"},
	"svg":      {"text", "svg"},
	"toml":     {"text", "toml"},
	"ts":       {"text", "ts"},
	"tsx":      {"text", "tsx"},
	"txt":      {"text", "plain-text"},
	"xml":      {"text", "xml"},
	"yaml":     {"text", "yaml"},
	"yml":      {"text", "yaml"},
	"zsh":      {"text", "shell", "zsh"},
	"gif":      {"binary", "image", "gif"},
	"gz":       {"binary", "gzip"},
	"ico":      {"binary", "icon"},
	"jpeg":     {"binary", "image", "jpeg"},
	"jpg":      {"binary", "image", "jpeg"},
	"pdf":      {"binary", "pdf"},
	"png":      {"binary", "image", "png"},
	"tar":      {"binary", "tar"},
	"whl":      {"binary", "wheel"},
	"zip":      {"binary", "zip"},
}

// namedTags maps well-known exact filenames to tags.
var namedTags = map[string][]string{
	"Dockerfile": {"text", "dockerfile"},
	"Makefile":   {"text", "makefile"},
	"go.mod":     {"text", "go-mod"},
	"go.sum":     {"text", "go-sum"},
}

// interpreterTags maps a shebang interpreter to language tags.
var interpreterTags = map[string][]string{
	"bash":    {"shell", "bash"},
	"node":    {"javascript"},
	"python":  {"python"},
	"python3": {"python"},
	"ruby":    {"ruby"},
	"sh":      {"shell"},
	"zsh":     {"shell", "zsh"},
}

// TagsFromPath classifies the file at path. The returned error is
// reserved for stat/read failures; the engine treats those as
// "exclude this path" rather than aborting the run.
func TagsFromPath(path string) ([]string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return []string{"symlink"}, nil
	}
	if info.IsDir() {
		return []string{"directory"}, nil
	}
	if !info.Mode().IsRegular() {
		return []string{"special"}, nil
	}

	tags := newTagSet("file")
	executable := info.Mode()&0o111 != 0
	if executable {
		tags.add("executable")
	} else {
		tags.add("non-executable")
	}

	if byName, ok := namedTags[filepath.Base(path)]; ok {
		tags.add(byName...)
	} else if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		if byExt, ok := extensionTags[strings.ToLower(ext)]; ok {
			tags.add(byExt...)
		}
	} else if executable {
		if interp := shebangTags(path); interp != nil {
			tags.add(interp...)
		}
	}

	// Fall back to content probing when the extension told us nothing
	// about text vs binary.
	if !tags.has("text") && !tags.has("binary") {
		isText, err := probeText(path)
		if err != nil {
			return nil, err
		}
		if isText {
			tags.add("text")
		} else {
			tags.add("binary")
		}
	}

	return tags.sorted(), nil
}

// shebangTags reads the first line of an executable and maps its
// interpreter to tags. Returns nil for anything unrecognized.
func shebangTags(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil
	}
	line := scanner.Text()
	if !strings.HasPrefix(line, "#!") {
		return nil
	}

	fields := strings.Fields(line[2:])
	if len(fields) == 0 {
		return nil
	}
	interp := filepath.Base(fields[0])
	// "#!/usr/bin/env python3" names the interpreter in the argument.
	if interp == "env" && len(fields) > 1 {
		interp = filepath.Base(fields[1])
	}
	// Strip version suffixes like python3.12.
	interp = strings.TrimRightFunc(interp, func(r rune) bool {
		return r == '.' || (r >= '0' && r <= '9')
	})
	if tags, ok := interpreterTags[interp]; ok {
		return tags
	}
	if tags, ok := interpreterTags[interp+"3"]; ok {
		return tags
	}
	return nil
}

// probeText reports whether the first KiB of the file looks like text
// (no NUL bytes). Empty files count as text.
func probeText(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 1024)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		if errors.Is(err, io.EOF) {
			return true, nil // empty files are text
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return !bytes.ContainsRune(buf[:n], 0), nil
}
