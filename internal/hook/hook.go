// Package hook defines the immutable hook descriptor the run engine
// executes. Hooks are resolved once from configuration and never
// mutated afterwards; the engine and the language runners only read
// from them.
package hook

// Hook describes a single configured check or fixer.
type Hook struct {
	// Identity.
	ID    string
	Alias string
	Name  string

	// Invocation template.
	Entry string
	Args  []string

	// Selection rules.
	Files        string // include pattern, unanchored regex
	Exclude      string // exclude pattern, unanchored regex
	Types        []string
	TypesOr      []string
	ExcludeTypes []string

	// Execution policy.
	AlwaysRun     bool
	FailFast      bool
	RequireSerial bool
	PassFilenames bool
	Verbose       bool
	LogFile       string

	// Runner binding.
	Language       string
	EnvDir         string
	AdditionalDeps []string
}

// DisplayName returns the human-facing name for status lines, falling
// back to the ID when no name is configured.
func (h *Hook) DisplayName() string {
	if h.Name != "" {
		return h.Name
	}
	return h.ID
}

// CommandLength is the byte length of the fixed part of the hook's
// command line: entry, every fixed argument, and one separator per
// argument. The batch partitioner subtracts it from the platform
// argument-length ceiling.
func (h *Hook) CommandLength() int {
	n := len(h.Entry) + len(h.Args)
	for _, a := range h.Args {
		n += len(a)
	}
	return n
}
