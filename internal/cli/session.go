package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/config"
	"github.com/uptimestars/starsctl/internal/errors"
	"github.com/uptimestars/starsctl/internal/logger"
	"github.com/uptimestars/starsctl/internal/query"
	"github.com/uptimestars/starsctl/internal/ui"
	"golang.org/x/term"
)

// session holds what a backend command needs: the resolved config, a
// client, the query store and a logger.
type session struct {
	cfg     *config.Config
	cfgPath string
	client  *api.Client
	store   *query.Store
	log     logger.Logger
	out     io.Writer
}

// newSession loads config and builds the client. Logs go to logOut so the
// dashboard can keep them off the screen.
func newSession(cmd *cobra.Command, logOut io.Writer) (*session, error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if !noColor {
		if err := ui.ConfigureColor(cfg.Output.Color); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Invalid output.color", "Use auto, always, or never.")
		}
	}

	log, err := logger.New(logOut, logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Component: "starsctl",
		NoColor:   noColor || cfg.Output.Color == ui.ColorModeNever,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid log settings", "Check log.level and log.format in your config.")
	}
	log.Debug("config: %s, backend: %s", displayPath(path), cfg.API.BaseURL)

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout,
		api.WithLogger(log),
		api.WithUserAgent(version),
		api.WithExportTimeout(cfg.API.ExportTimeout),
	)
	store := query.NewStore(query.Options{StaleTime: cfg.Cache.StaleTime, Logger: log})

	return &session{
		cfg:     cfg,
		cfgPath: path,
		client:  client,
		store:   store,
		log:     log,
		out:     cmd.OutOrStdout(),
	}, nil
}

// loadConfig resolves the config file and applies the global flag
// overrides before validating.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(Config())
	if err != nil {
		return nil, "", err
	}
	if apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(apiURL, "/")
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// emit prints data as a JSON envelope in machine mode, or through human
// otherwise.
func (s *session) emit(data interface{}, human func(w io.Writer) error) error {
	if MachineMode() {
		return WriteJSONSuccess(s.out, data)
	}
	return human(s.out)
}

// busy runs fn behind a spinner when stdout is a terminal and no JSON is
// requested.
func (s *session) busy(label string, fn func() error) error {
	if MachineMode() || !stdoutIsTerminal() {
		return fn()
	}
	return ui.NewSpinner(label, s.out).Run(fn)
}

// success prints a green check line.
func success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, ui.SuccessStyle().Render(ui.SymbolSuccess+" "+fmt.Sprintf(format, args...)))
}

// Terminal checks are variables so tests can pretend to be interactive.
var (
	stdoutIsTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	stdinIsTerminal  = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

func displayPath(path string) string {
	if path == "" {
		return "(defaults)"
	}
	return path
}
