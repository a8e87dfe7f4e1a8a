package cli

import (
	stderrors "errors"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/uptimestars/starsctl/internal/dashboard"
	"github.com/uptimestars/starsctl/internal/errors"
)

var dashboardInterval time.Duration

// dashboardCmd starts the TUI dashboard
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "ui"},
	Short:   "Live dashboard of monitors and events",
	Long: `Start an interactive dashboard showing every monitor grouped like the
web UI, status counts, and the latest events. Select a monitor and press
enter for its detail view.

Data refreshes every poll.interval (5s by default). Press ? for keys.

Logs never draw over the dashboard: they go to log.file when set and are
dropped otherwise.

Examples:
  starsctl dashboard
  starsctl dashboard --interval 30s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd, dashboardInterval)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().DurationVar(&dashboardInterval, "interval", 0, "refresh interval (default poll.interval)")
}

// dashboardCommand runs the TUI until the user quits.
func dashboardCommand(cmd *cobra.Command, interval time.Duration) error {
	if MachineMode() || !stdoutIsTerminal() {
		return errors.New(errors.ErrValidation,
			"The dashboard needs an interactive terminal",
			"Use 'starsctl monitors list' or 'starsctl events list' in scripts.")
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	logOut, closeLog, err := openLogFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := newSession(cmd, logOut)
	if err != nil {
		return err
	}
	if interval <= 0 {
		interval = s.cfg.Poll.Interval
	}

	model := dashboard.NewModel(s.client, dashboard.Options{
		Store:             s.store,
		Interval:          interval,
		PageSize:          s.cfg.Dashboard.PageSize,
		LastEventsLimit:   s.cfg.Dashboard.LastEventsLimit,
		DetailEventsLimit: s.cfg.Dashboard.DetailEventsLimit,
		EventsPageSize:    s.cfg.Events.PageSize,
		StripWindow:       s.cfg.Dashboard.StripWindow,
		Logger:            s.log,
		Version:           formatVersion(version),
		BaseURL:           s.cfg.API.BaseURL,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	final, err := p.Run()

	// Stop the poller of whatever view was open last.
	if m, ok := final.(dashboard.Model); ok {
		m.Close()
	} else {
		model.Close()
	}

	// A cancelled context (SIGTERM) ends the program without a failure.
	if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Dashboard stopped unexpectedly",
			"Check your terminal supports full-screen programs, or use 'starsctl monitors list'.")
	}
	return nil
}

// openLogFile opens log.file for appending, or discards logs when unset.
func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't open log.file "+path,
			"Check the directory exists and is writable, or clear log.file.")
	}
	return f, func() { f.Close() }, nil
}
