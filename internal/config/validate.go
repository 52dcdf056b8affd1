package config

import (
	"fmt"
	"regexp"
)

// knownLanguages is the closed set of language runners hk dispatches
// to. It must stay in sync with the registry in internal/language.
var knownLanguages = map[string]bool{
	"system": true,
	"script": true,
	"fail":   true,
	"node":   true,
}

// validate checks the pipeline before any hook can execute. Pattern
// errors, duplicate ids, and unknown languages are configuration
// errors, reported with enough context to locate the offending entry.
func (p *Pipeline) validate() error {
	if err := checkPattern(p.Exclude, "top-level exclude"); err != nil {
		return err
	}

	if len(p.Hooks) == 0 {
		return fmt.Errorf("pipeline defines no hooks")
	}

	seen := make(map[string]bool, len(p.Hooks))
	for i, h := range p.Hooks {
		where := fmt.Sprintf("hook %d", i+1)
		if h.ID != "" {
			where = fmt.Sprintf("hook %q", h.ID)
		}

		if h.ID == "" {
			return fmt.Errorf("%s: id is required", where)
		}
		if seen[h.ID] {
			return fmt.Errorf("%s: duplicate id", where)
		}
		seen[h.ID] = true

		if h.Entry == "" {
			return fmt.Errorf("%s: entry is required", where)
		}
		if h.Language != "" && !knownLanguages[h.Language] {
			return fmt.Errorf("%s: unknown language %q", where, h.Language)
		}
		if err := checkPattern(h.Files, where+" files"); err != nil {
			return err
		}
		if err := checkPattern(h.Exclude, where+" exclude"); err != nil {
			return err
		}
	}
	return nil
}

func checkPattern(pattern, where string) error {
	if pattern == "" {
		return nil
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("%s: invalid pattern %q: %w", where, pattern, err)
	}
	return nil
}
