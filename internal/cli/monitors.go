package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/uptimestars/starsctl/internal/actions"
	"github.com/uptimestars/starsctl/internal/aggregate"
	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/errors"
	"github.com/uptimestars/starsctl/internal/ui"
)

// Command-specific flags
var (
	monitorsListPage       PageFlags
	monitorsListLastEvents int
	monitorsGetLastEvents  int
	monitorsGetOutput      string
	monitorsCreateFlags    MonitorFlags
	monitorsCreateForm     bool
	monitorsUpdateFlags    MonitorFlags
	monitorsUpdateForm     bool
	monitorsDeleteYes      bool
	monitorsStatsCheck     bool
	monitorsExportFrom     string
	monitorsExportTo       string
	monitorsExportOut      string
)

// monitorsCmd groups the monitor commands
var monitorsCmd = &cobra.Command{
	Use:     "monitors",
	Aliases: []string{"monitor", "mon"},
	Short:   "List, inspect and change monitors",
}

var monitorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List monitors grouped like the dashboard",
	Long: `List one page of monitors, grouped by monitor group, with their status,
uptime and most recent checks.

Examples:
  starsctl monitors list
  starsctl monitors list --page 2 --size 50
  starsctl monitors list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsList(cmd)
	},
}

var monitorsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one monitor in detail",
	Long: `Show every setting of a monitor with its recent checks and status changes.

Examples:
  starsctl monitors get 3f1c...
  starsctl monitors get 3f1c... -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsGet(cmd, args[0])
	},
}

var monitorsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a monitor",
	Long: `Create a monitor from flags, or fill in a form with --interactive.

Examples:
  starsctl monitors create --name api --target https://api.example.com/health
  starsctl monitors create --name gw --type ping --target 10.0.0.1 --interval 5
  starsctl monitors create --interactive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsCreate(cmd)
	},
}

var monitorsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a monitor's settings",
	Long: `Change the settings named by flags, leaving the rest alone. With
--interactive the current settings are loaded into a form.

Examples:
  starsctl monitors update 3f1c... --interval 5
  starsctl monitors update 3f1c... --alert-email ops@example.com --alert-email oncall@example.com
  starsctl monitors update 3f1c... --interactive`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsUpdate(cmd, args[0])
	},
}

var monitorsPauseCmd = &cobra.Command{
	Use:   "pause <id>",
	Short: "Stop checking a monitor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsSetActive(cmd, args[0], false)
	},
}

var monitorsResumeCmd = &cobra.Command{
	Use:   "resume <id>",
	Short: "Resume checking a paused monitor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsSetActive(cmd, args[0], true)
	},
}

var monitorsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a monitor and its history",
	Long: `Delete a monitor. You are asked to confirm unless --yes is given;
without a terminal --yes is required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsDelete(cmd, args[0])
	},
}

var monitorsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count monitors by status",
	Long: `Count every monitor by status, as the dashboard's stats bar does.

With --check the command exits 1 when any monitor is down, for use in
scripts and health checks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsStats(cmd, monitorsStatsCheck)
	},
}

var monitorsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the SLA report",
	Long: `Download the SLA report for a date range. Dates are dd/mm/yyyy and
default to the first of the current month through today.

Examples:
  starsctl monitors export
  starsctl monitors export --from 01/03/2025 --to 31/03/2025 --out march.xlsx
  starsctl monitors export --out - > report.xlsx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsExport(cmd, monitorsExportFrom, monitorsExportTo, monitorsExportOut)
	},
}

func init() {
	rootCmd.AddCommand(monitorsCmd)
	monitorsCmd.AddCommand(monitorsListCmd, monitorsGetCmd, monitorsCreateCmd, monitorsUpdateCmd,
		monitorsPauseCmd, monitorsResumeCmd, monitorsDeleteCmd, monitorsStatsCmd, monitorsExportCmd)

	AddPageFlags(monitorsListCmd, &monitorsListPage)
	monitorsListCmd.Flags().IntVar(&monitorsListLastEvents, "last-events", 0, "recent checks per monitor (default from config)")

	monitorsGetCmd.Flags().IntVar(&monitorsGetLastEvents, "last-events", 0, "recent checks to show (default from config)")
	monitorsGetCmd.Flags().StringVarP(&monitorsGetOutput, "output", "o", "text", "output format: text, json, or yaml")

	AddMonitorFlags(monitorsCreateCmd, &monitorsCreateFlags)
	monitorsCreateCmd.Flags().BoolVarP(&monitorsCreateForm, "interactive", "i", false, "fill in a form")

	AddMonitorFlags(monitorsUpdateCmd, &monitorsUpdateFlags)
	monitorsUpdateCmd.Flags().BoolVarP(&monitorsUpdateForm, "interactive", "i", false, "edit the current settings in a form")

	monitorsDeleteCmd.Flags().BoolVarP(&monitorsDeleteYes, "yes", "y", false, "delete without asking")

	monitorsStatsCmd.Flags().BoolVar(&monitorsStatsCheck, "check", false, "exit 1 when any monitor is down")

	monitorsExportCmd.Flags().StringVar(&monitorsExportFrom, "from", "", "first day, dd/mm/yyyy (default first of this month)")
	monitorsExportCmd.Flags().StringVar(&monitorsExportTo, "to", "", "last day, dd/mm/yyyy (default today)")
	monitorsExportCmd.Flags().StringVar(&monitorsExportOut, "out", "", "file to write, - for stdout (default monitor_export_<from>_to_<to>.xlsx)")
}

// monitorsList prints one page of monitors.
func monitorsList(cmd *cobra.Command) error {
	s, err := newSession(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	req := monitorsListPage.Request(s.cfg.Dashboard.PageSize)
	lastEvents := orDefault(monitorsListLastEvents, s.cfg.Dashboard.LastEventsLimit)

	var page *api.Page[api.Monitor]
	var groups []api.Group
	err = s.busy("Loading monitors", func() error {
		var err error
		if page, err = s.fetchMonitors(ctx, req, lastEvents); err != nil {
			return err
		}
		if !MachineMode() {
			groups, err = s.allGroups(ctx)
		}
		return err
	})
	if err != nil {
		return errors.FromAPI(err)
	}

	return s.emit(page, func(w io.Writer) error {
		renderMonitorList(w, page, groups, lastEvents)
		return nil
	})
}

// monitorsGet prints one monitor in the requested format.
func monitorsGet(cmd *cobra.Command, id string) error {
	format := monitorsGetOutput
	switch format {
	case "text", "json", "yaml":
	default:
		return errors.New(errors.ErrValidation,
			fmt.Sprintf("Unknown output format '%s'", format),
			"Use text, json, or yaml.")
	}

	s, err := newSession(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	window := orDefault(monitorsGetLastEvents, s.cfg.Dashboard.DetailEventsLimit)

	var detail *api.MonitorDetail
	var groups []api.Group
	err = s.busy("Loading monitor", func() error {
		var err error
		if detail, err = s.fetchMonitor(ctx, id, window); err != nil {
			return err
		}
		if format == "text" && !MachineMode() {
			groups, err = s.allGroups(ctx)
		}
		return err
	})
	if err != nil {
		return errors.FromAPI(err)
	}

	switch {
	case format == "yaml":
		data, err := toYAML(detail)
		if err != nil {
			return errors.Wrap(err, "Failed to render YAML")
		}
		_, err = s.out.Write(data)
		return err
	case format == "json" || MachineMode():
		return WriteJSONSuccess(s.out, detail)
	}
	renderMonitorDetail(s.out, detail, groups, window)
	return nil
}

// monitorsCreate creates a monitor from flags or the form.
func monitorsCreate(cmd *cobra.Command) error {
	s, err := newSession(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var payload api.MonitorPayload
	if monitorsCreateForm {
		if err := requireTerminal("The monitor form"); err != nil {
			return err
		}
		seed, err := monitorsCreateFlags.Payload()
		if err != nil {
			return err
		}
		if payload, err = fillMonitorForm(ctx, s, seed); err != nil {
			return err
		}
	} else if payload, err = monitorsCreateFlags.Payload(); err != nil {
		return err
	}

	acts := actions.NewMonitors(s.client, s.store, s.log)
	var id string
	err = s.busy("Creating "+payload.Name, func() error {
		var err error
		id, err = acts.Create(ctx, payload)
		return err
	})
	if err != nil {
		return errors.FromAPI(err)
	}

	return s.emit(map[string]string{"id": id, "name": payload.Name}, func(w io.Writer) error {
		success(w, "Created monitor %s (%s)", payload.Name, id)
		return nil
	})
}

// monitorsUpdate applies the changed flags, or the edited form, to a monitor.
func monitorsUpdate(cmd *cobra.Command, id string) error {
	s, err := newSession(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var patch api.MonitorPatch
	if monitorsUpdateForm {
		if err := requireTerminal("The monitor form"); err != nil {
			return err
		}
		detail, err := s.fetchMonitor(ctx, id, 0)
		if err != nil {
			return errors.FromAPI(err)
		}
		payload, err := fillMonitorForm(ctx, s, api.PayloadFromDetail(*detail))
		if err != nil {
			return err
		}
		patch = api.PatchFromPayload(payload)
	} else {
		if patch, err = monitorsUpdateFlags.Patch(cmd); err != nil {
			return err
		}
		if patch.IsEmpty() {
			return errors.New(errors.ErrValidation,
				"Nothing to update",
				"Pass at least one setting, e.g. --interval 5, or use --interactive.")
		}
	}

	acts := actions.NewMonitors(s.client, s.store, s.log)
	err = s.busy("Updating monitor", func() error {
		return acts.Update(ctx, id, patch)
	})
	if err != nil {
		return errors.FromAPI(err)
	}

	return s.emit(map[string]string{"id": id}, func(w io.Writer) error {
		success(w, "Updated monitor %s", id)
		return nil
	})
}

// fillMonitorForm runs the monitor form seeded with seed.
func fillMonitorForm(ctx context.Context, s *session, seed api.MonitorPayload) (api.MonitorPayload, error) {
	groups, err := s.allGroups(ctx)
	if err != nil {
		// The form still works without group names.
		s.log.Warn("could not load groups: %v", err)
	}
	form := newMonitorForm(seed)
	if err := runMonitorForm(form, groups); err != nil {
		return seed, errors.WrapWithCode(err, errors.ErrValidation,
			"Form cancelled", "Run the command again, or pass the settings as flags.")
	}
	return form.payload()
}

// monitorsSetActive pauses or resumes a monitor.
func monitorsSetActive(cmd *cobra.Command, id string, active bool) error {
	s, err := newSession(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	acts := actions.NewMonitors(s.client, s.store, s.log)

	label, done := "Pausing monitor", "Paused monitor %s"
	apply := acts.Disable
	if active {
		label, done = "Resuming monitor", "Resumed monitor %s"
		apply = acts.Enable
	}

	if err := s.busy(label, func() error { return apply(ctx, id) }); err != nil {
		return errors.FromAPI(err)
	}
	return s.emit(map[string]interface{}{"id": id, "active": active}, func(w io.Writer) error {
		success(w, done, id)
		return nil
	})
}

// monitorsDelete deletes a monitor after confirmation.
func monitorsDelete(cmd *cobra.Command, id string) error {
	s, err := newSession(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if !monitorsDeleteYes {
		if MachineMode() || !stdinIsTerminal() {
			return errors.New(errors.ErrValidation,
				"Refusing to delete without confirmation",
				"Pass --yes to delete from a script.")
		}
		detail, err := s.fetchMonitor(ctx, id, 0)
		if err != nil {
			return errors.FromAPI(err)
		}
		ok, err := confirm(fmt.Sprintf("Delete monitor %s (%s) and all its events?", detail.Name, id))
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrValidation,
				"Failed to get confirmation", "Pass --yes to skip the prompt.")
		}
		if !ok {
			fmt.Fprintln(s.out, ui.WarningStyle().Render("Cancelled."))
			return nil
		}
	}

	acts := actions.NewMonitors(s.client, s.store, s.log)
	if err := s.busy("Deleting monitor", func() error { return acts.Delete(ctx, id) }); err != nil {
		return errors.FromAPI(err)
	}
	return s.emit(map[string]string{"id": id}, func(w io.Writer) error {
		success(w, "Deleted monitor %s", id)
		return nil
	})
}

// statsOutput is the --json shape of monitors stats.
type statsOutput struct {
	aggregate.Stats
	Total int `json:"total"`
}

// monitorsStats counts every monitor by status.
func monitorsStats(cmd *cobra.Command, check bool) error {
	s, err := newSession(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var monitors []api.Monitor
	err = s.busy("Counting monitors", func() error {
		var err error
		monitors, err = s.allMonitors(ctx, 1)
		return err
	})
	if err != nil {
		return errors.FromAPI(err)
	}

	stats := aggregate.Tally(monitors)
	err = s.emit(statsOutput{Stats: stats, Total: stats.Total()}, func(w io.Writer) error {
		fmt.Fprint(w, ui.RenderHeader(ui.HeaderInfo{Version: formatVersion(version), BaseURL: s.cfg.API.BaseURL}))
		fmt.Fprint(w, ui.RenderStatsSummary(stats))
		return nil
	})
	if err != nil {
		return err
	}

	if check && stats.Down > 0 {
		s.log.Debug("%d monitors down, exiting 1", stats.Down)
		return errors.NewExitError(1)
	}
	return nil
}

// exportOutput is the --json shape of monitors export.
type exportOutput struct {
	File  string `json:"file"`
	Bytes int64  `json:"bytes"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// monitorsExport downloads the SLA report to a file or stdout.
func monitorsExport(cmd *cobra.Command, fromFlag, toFlag, out string) error {
	r := api.DefaultExportRange(now())
	from, err := ParseDateFlag("--from", fromFlag)
	if err != nil {
		return err
	}
	to, err := ParseDateFlag("--to", toFlag)
	if err != nil {
		return err
	}
	if !from.IsZero() {
		r.From = from
	}
	if !to.IsZero() {
		r.To = to
	}
	if err := r.Validate(); err != nil {
		return errors.FromAPI(err)
	}
	if out == "" {
		out = r.FileName()
	}

	s, err := newSession(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if out == "-" {
		if _, err := s.client.ExportReport(ctx, r, s.out); err != nil {
			return errors.FromAPI(err)
		}
		return nil
	}

	// Download next to the target and rename on success, so a failed export
	// leaves an earlier report with the same name untouched.
	f, err := os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+".*.part")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Cannot create "+out, "Check the directory exists and is writable, or pass --out.")
	}
	tmp := f.Name()

	var n int64
	err = s.busy("Exporting report", func() error {
		var err error
		n, err = s.client.ExportReport(ctx, r, f)
		return err
	})
	if err == nil {
		err = f.Chmod(0644)
	}
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return errors.FromAPI(err)
	}
	if err := os.Rename(tmp, out); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapWithCode(err, errors.ErrExec,
			"Cannot write "+out, "Check the directory is writable, or pass --out.")
	}

	result := exportOutput{
		File:  out,
		Bytes: n,
		From:  r.From.Format(api.ExportDateLayout),
		To:    r.To.Format(api.ExportDateLayout),
	}
	return s.emit(result, func(w io.Writer) error {
		success(w, "Exported %s to %s (%s to %s)", humanize.Bytes(uint64(n)), out, result.From, result.To)
		return nil
	})
}

// orDefault returns v, or def when v is not positive.
func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
