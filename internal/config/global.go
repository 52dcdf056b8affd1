package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Global holds the per-user tool configuration. All fields are
// optional; zero values mean "use the built-in default".
type Global struct {
	// Color controls status-line styling: "auto", "always" or "never".
	Color string `toml:"color"`
	// NoConcurrency forces every hook to run its batches serially,
	// equivalent to setting HK_NO_CONCURRENCY for every run.
	NoConcurrency bool `toml:"no_concurrency"`
	// StoreDir overrides the cache directory used for patches and
	// language environments.
	StoreDir string `toml:"store_dir"`
}

// DefaultGlobal returns the default tool configuration.
func DefaultGlobal() Global {
	return Global{Color: "auto"}
}

// globalPath returns the path to the per-user config file.
func globalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hk", "config.toml"), nil
}

// LoadGlobal reads the per-user config, returning defaults when the
// file does not exist.
func LoadGlobal() (Global, error) {
	path, err := globalPath()
	if err != nil {
		return DefaultGlobal(), fmt.Errorf("failed to locate config: %w", err)
	}
	return loadGlobalFrom(path)
}

func loadGlobalFrom(path string) (Global, error) {
	cfg := DefaultGlobal()

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return DefaultGlobal(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return DefaultGlobal(), fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	switch cfg.Color {
	case "", "auto", "always", "never":
	default:
		return DefaultGlobal(), fmt.Errorf("%s: color must be auto, always or never, got %q", path, cfg.Color)
	}
	if cfg.Color == "" {
		cfg.Color = "auto"
	}
	return cfg, nil
}
