package run

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/raphi011/hk/internal/hook"
)

// FilenameFilter selects paths by optional include and exclude
// patterns. Patterns are unanchored regular expressions over the
// path string. The zero filter (no patterns) matches everything.
type FilenameFilter struct {
	include *regexp.Regexp
	exclude *regexp.Regexp
}

// NewFilenameFilter compiles the patterns. A malformed pattern is a
// configuration error, reported here rather than per path.
func NewFilenameFilter(include, exclude string) (*FilenameFilter, error) {
	f := &FilenameFilter{}
	var err error
	if include != "" {
		if f.include, err = regexp.Compile(include); err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", include, err)
		}
	}
	if exclude != "" {
		if f.exclude, err = regexp.Compile(exclude); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", exclude, err)
		}
	}
	return f, nil
}

// FilenameFilterForHook builds the filter from a hook's selection rules.
func FilenameFilterForHook(h *hook.Hook) (*FilenameFilter, error) {
	return NewFilenameFilter(h.Files, h.Exclude)
}

// Matches reports whether path passes: the include pattern is absent or
// matches, and the exclude pattern is absent or does not match.
// Safe for concurrent use.
func (f *FilenameFilter) Matches(path string) bool {
	if f.include != nil && !f.include.MatchString(path) {
		return false
	}
	if f.exclude != nil && f.exclude.MatchString(path) {
		return false
	}
	return true
}

// TagFilter selects files by their classification tags.
type TagFilter struct {
	all     []string // every tag must be present; empty = unconstrained
	any     []string // at least one must be present; empty = unconstrained
	exclude []string // none may be present
}

// TagFilterForHook builds the filter from a hook's type rules.
func TagFilterForHook(h *hook.Hook) *TagFilter {
	return &TagFilter{all: h.Types, any: h.TypesOr, exclude: h.ExcludeTypes}
}

// Matches reports whether a file with the given tags is selected.
func (f *TagFilter) Matches(tags []string) bool {
	for _, t := range f.all {
		if !slices.Contains(tags, t) {
			return false
		}
	}
	if len(f.any) > 0 {
		found := false
		for _, t := range f.any {
			if slices.Contains(tags, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, t := range f.exclude {
		if slices.Contains(tags, t) {
			return false
		}
	}
	return true
}
