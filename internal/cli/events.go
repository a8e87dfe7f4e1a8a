package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/uptimestars/starsctl/internal/actions"
	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/errors"
)

var (
	eventsListPage    PageFlags
	eventsListMonitor string

	annotateNote          string
	annotateCategory      string
	annotateTicket        string
	annotateMaintenance   string
	annotateFalsePositive bool
)

// eventsCmd groups the event commands
var eventsCmd = &cobra.Command{
	Use:     "events",
	Aliases: []string{"event"},
	Short:   "List and annotate status-change events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List important events, newest first",
	Long: `List the events where a monitor went down or came back up.

Examples:
  starsctl events list
  starsctl events list --monitor 3f1c... --size 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return eventsList(cmd, eventsListMonitor)
	},
}

var eventsAnnotateCmd = &cobra.Command{
	Use:   "annotate <id>",
	Short: "Add a note, category or ticket to an event",
	Long: `Annotate an event. Only the fields you pass are changed.

Examples:
  starsctl events annotate 9b2e... --note "planned DB failover"
  starsctl events annotate 9b2e... --false-positive
  starsctl events annotate 9b2e... --false-positive=false --ticket OPS-1432`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return eventsAnnotate(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd, eventsAnnotateCmd)

	AddPageFlags(eventsListCmd, &eventsListPage)
	eventsListCmd.Flags().StringVar(&eventsListMonitor, "monitor", "", "only events of this monitor id")

	f := eventsAnnotateCmd.Flags()
	f.StringVar(&annotateNote, "note", "", "free-text note")
	f.StringVar(&annotateCategory, "category", "", "category label")
	f.StringVar(&annotateTicket, "ticket", "", "ticket id")
	f.StringVar(&annotateMaintenance, "maintenance-type", "", "maintenance type")
	f.BoolVar(&annotateFalsePositive, "false-positive", false, "mark (or with =false, unmark) as a false positive")
}

// eventsList prints one page of events.
func eventsList(cmd *cobra.Command, monitorID string) error {
	s, err := newSession(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	req := eventsListPage.Request(s.cfg.Events.PageSize)

	var page *api.Page[api.Event]
	err = s.busy("Loading events", func() error {
		var err error
		page, err = s.fetchEvents(ctx, req, monitorID)
		return err
	})
	if err != nil {
		return errors.FromAPI(err)
	}

	return s.emit(page, func(w io.Writer) error {
		renderEventTable(w, page, monitorID == "")
		return nil
	})
}

// annotationPatch builds the patch from the annotation flags set on cmd.
func annotationPatch(cmd *cobra.Command) api.EventPatch {
	var patch api.EventPatch
	changed := cmd.Flags().Changed
	if changed("note") {
		patch.Note = &annotateNote
	}
	if changed("category") {
		patch.Category = &annotateCategory
	}
	if changed("ticket") {
		patch.TicketID = &annotateTicket
	}
	if changed("maintenance-type") {
		patch.MaintenanceType = &annotateMaintenance
	}
	if changed("false-positive") {
		patch.FalsePositive = &annotateFalsePositive
	}
	return patch
}

// eventsAnnotate updates the annotation fields of one event.
func eventsAnnotate(cmd *cobra.Command, id string) error {
	patch := annotationPatch(cmd)
	if patch.IsEmpty() {
		return errors.New(errors.ErrValidation,
			"Nothing to annotate",
			"Pass at least one of --note, --category, --ticket, --maintenance-type, --false-positive.")
	}

	s, err := newSession(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	acts := actions.NewEvents(s.client, s.store, s.log)
	if err := s.busy("Saving annotation", func() error { return acts.Annotate(ctx, id, patch) }); err != nil {
		return errors.FromAPI(err)
	}
	return s.emit(map[string]interface{}{"id": id, "patch": patch}, func(w io.Writer) error {
		success(w, "Annotated event %s", id)
		return nil
	})
}
