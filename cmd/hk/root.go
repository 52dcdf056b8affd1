package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/hk/internal/config"
	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/log"
	"github.com/raphi011/hk/internal/output"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Shared state injected into commands
	cfg     config.Global
	workDir string
)

// errHooksFailed marks runs where hooks reported failure. The status
// lines already explain the failure, so Execute exits 1 silently
// instead of printing the error again.
var errHooksFailed = errors.New("hooks failed")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hk",
	Short: "Git hook pipeline runner",
	Long: `hk runs the hook pipeline defined in .hk.yaml against your staged files.

Install it as a pre-commit hook with 'hk install', or run the pipeline
manually with 'hk run'.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip git check for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}
		return git.CheckGit()
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Exit codes: 0 when every executed hook succeeded, 1
// when hooks failed, 2 on configuration or infrastructure errors.
func Execute() {
	// Load per-user config
	loadedCfg, err := config.LoadGlobal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg = loadedCfg

	// Get working directory
	workDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hk: failed to get working directory: %v\n", err)
		os.Exit(2)
	}

	// Cobra parses flags inside Execute, after the logger is attached to
	// the context. Pre-scan so the logger sees the right mode.
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-v", "--verbose":
			verbose = true
		case "-q", "--quiet":
			quiet = true
		}
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create logger (stderr for diagnostics)
	logger := log.New(os.Stderr, verbose, quiet)
	ctx = log.WithLogger(ctx, logger)

	// Add output printer (stdout for status lines), downsampling styles
	// to what the terminal supports
	ctx = output.WithPrinter(ctx, stdoutWriter())

	// Store context for commands to use
	rootCmd.SetContext(ctx)

	err = rootCmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, errHooksFailed):
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// stdoutWriter wraps stdout so styled output degrades to the terminal's
// color capability, honoring the color setting from config.toml.
func stdoutWriter() io.Writer {
	w := colorprofile.NewWriter(os.Stdout, os.Environ())
	switch cfg.Color {
	case "always":
		w.Profile = colorprofile.TrueColor
	case "never":
		w.Profile = colorprofile.NoTTY
	}
	return w
}

// colorEnabled reports whether status output carries color, for
// subprocesses that take their own color flag (git diff).
func colorEnabled() bool {
	switch cfg.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show hook output and external commands")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newUninstallCmd())
	rootCmd.AddCommand(newValidateConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}
