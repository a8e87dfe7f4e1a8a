package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/uptimestars/starsctl/internal/errors"
	"github.com/uptimestars/starsctl/internal/ui"
)

// Global flags
var (
	cfgFile string
	apiURL  string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "starsctl",
	Short: "Watch and manage Uptime Stars monitors from the terminal",
	Long: `starsctl talks to an Uptime Stars backend. It shows a live dashboard of
your monitors and their recent events, and scripts the same operations the
web dashboard offers: pausing, editing, annotating events and exporting
the SLA report.

Examples:
  starsctl dashboard
  starsctl monitors list
  starsctl monitors pause 3f1c...
  starsctl events list --monitor 3f1c... --json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// run prints suggestions itself so they appear once, after the error.
	DisableSuggestions:         true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			return ui.ConfigureColor(ui.ColorModeNever)
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./.starsctl.yaml, then ~/.config/starsctl/config.yaml)")
	pf.StringVar(&apiURL, "api-url", "", "backend API root, overrides api.base_url")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log requests and cache activity to stderr")
	pf.BoolVar(&machineMode, "json", false, "print machine-readable JSON")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// Execute runs the CLI and exits with its status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line in args and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}

	if machineMode {
		_ = WriteJSONFromError(stdout, err)
		return 1
	}

	if isUnknownCommandError(err) {
		fmt.Fprintln(stderr, ui.ErrorStyle().Render(ui.SymbolFail+" "+err.Error()))
		if name := extractUnknownCommand(err); name != "" {
			if suggestions := rootCmd.SuggestionsFor(name); len(suggestions) > 0 {
				fmt.Fprintf(stderr, "\n  Did you mean: %s?\n", strings.Join(suggestions, ", "))
			}
		}
		fmt.Fprintln(stderr, "\n  Run 'starsctl --help' to see the available commands.")
		return 1
	}

	fmt.Fprint(stderr, err.Error())
	if !strings.HasSuffix(err.Error(), "\n") {
		fmt.Fprintln(stderr)
	}
	return 1
}

// isUnknownCommandError reports whether cobra rejected the command line itself.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "starsctl"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
