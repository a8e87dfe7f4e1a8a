package cli

import (
	"strings"
	"time"

	"github.com/guregu/null/v5"
	"github.com/spf13/cobra"
	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/errors"
)

// PageFlags holds the --page and --size flags of list commands.
type PageFlags struct {
	Page int
	Size int
}

// AddPageFlags registers --page and --size. A size of 0 means the
// configured default.
func AddPageFlags(cmd *cobra.Command, flags *PageFlags) {
	cmd.Flags().IntVar(&flags.Page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&flags.Size, "size", 0, "page size (default from config)")
}

// Request returns the page request, using defaultSize when --size is unset.
func (f PageFlags) Request(defaultSize int) api.PageRequest {
	size := f.Size
	if size == 0 {
		size = defaultSize
	}
	return api.PageRequest{Number: f.Page, Size: size}
}

// MonitorFlags holds the monitor fields settable from the command line.
type MonitorFlags struct {
	Name         string
	Description  string
	Type         string
	Target       string
	Interval     int
	Timeout      int
	AlertEmails  []string
	Group        string
	Headers      []string
	SearchMode   string
	ExpectedText string
	AlertMessage string
	AlertDelay   int
	AlertResend  int
}

// AddMonitorFlags registers the monitor field flags on a command. Defaults
// match a new monitor: HTTP, checked every minute, 1000 ms timeout.
func AddMonitorFlags(cmd *cobra.Command, flags *MonitorFlags) {
	f := cmd.Flags()
	f.StringVar(&flags.Name, "name", "", "display name")
	f.StringVar(&flags.Description, "description", "", "free-text description")
	f.StringVar(&flags.Type, "type", "http", "probe type: http or ping")
	f.StringVar(&flags.Target, "target", "", "URL or host to probe")
	f.IntVar(&flags.Interval, "interval", 1, "minutes between checks")
	f.IntVar(&flags.Timeout, "timeout", 1000, "probe timeout in milliseconds")
	f.StringSliceVar(&flags.AlertEmails, "alert-email", nil, "address to alert (repeatable)")
	f.StringVar(&flags.Group, "group", "", "group id (empty for no group)")
	f.StringSliceVar(&flags.Headers, "header", nil, "request header as 'Name: value' (repeatable)")
	f.StringVar(&flags.SearchMode, "search-mode", "includes", "expected text match: includes or excludes")
	f.StringVar(&flags.ExpectedText, "expected-text", "", "text the response must include or exclude")
	f.StringVar(&flags.AlertMessage, "alert-message", "", "custom alert message")
	f.IntVar(&flags.AlertDelay, "alert-delay", 0, "minutes down before alerting")
	f.IntVar(&flags.AlertResend, "alert-resend", 0, "resend the alert every N failed cycles (0 never)")
}

// Payload builds a create payload from every flag.
func (f MonitorFlags) Payload() (api.MonitorPayload, error) {
	p := api.NewMonitorPayload(strings.TrimSpace(f.Name), strings.TrimSpace(f.Target))

	typ, err := api.ParseMonitorType(f.Type)
	if err != nil {
		return p, flagError("--type", err)
	}
	mode, err := api.ParseSearchMode(f.SearchMode)
	if err != nil {
		return p, flagError("--search-mode", err)
	}

	p.Description = f.Description
	p.Type = typ
	p.IntervalInMinutes = f.Interval
	p.TimeoutInMilliseconds = f.Timeout
	p.SearchMode = mode
	p.AlertDelayMinutes = f.AlertDelay
	p.AlertResendCycles = f.AlertResend
	if len(f.AlertEmails) > 0 {
		p.AlertEmails = f.AlertEmails
	}
	if len(f.Headers) > 0 {
		p.RequestHeaders = f.Headers
	}
	p.GroupID = optionalString(f.Group)
	p.ExpectedText = optionalString(f.ExpectedText)
	p.AlertMessage = optionalString(f.AlertMessage)
	return p, nil
}

// Patch builds an update touching only the flags set on cmd.
func (f MonitorFlags) Patch(cmd *cobra.Command) (api.MonitorPatch, error) {
	var patch api.MonitorPatch
	changed := cmd.Flags().Changed

	if changed("name") {
		patch.Name = &f.Name
	}
	if changed("description") {
		patch.Description = &f.Description
	}
	if changed("type") {
		typ, err := api.ParseMonitorType(f.Type)
		if err != nil {
			return patch, flagError("--type", err)
		}
		patch.Type = &typ
	}
	if changed("target") {
		patch.Target = &f.Target
	}
	if changed("interval") {
		patch.IntervalInMinutes = &f.Interval
	}
	if changed("timeout") {
		patch.TimeoutInMilliseconds = &f.Timeout
	}
	if changed("alert-email") {
		patch.AlertEmails = append([]string{}, f.AlertEmails...)
	}
	if changed("group") {
		patch.GroupID = clearable(f.Group)
	}
	if changed("header") {
		patch.RequestHeaders = append([]string{}, f.Headers...)
	}
	if changed("search-mode") {
		mode, err := api.ParseSearchMode(f.SearchMode)
		if err != nil {
			return patch, flagError("--search-mode", err)
		}
		patch.SearchMode = &mode
	}
	if changed("expected-text") {
		patch.ExpectedText = clearable(f.ExpectedText)
	}
	if changed("alert-message") {
		patch.AlertMessage = clearable(f.AlertMessage)
	}
	if changed("alert-delay") {
		patch.AlertDelayMinutes = &f.AlertDelay
	}
	if changed("alert-resend") {
		patch.AlertResendCycles = &f.AlertResend
	}
	return patch, nil
}

// ParseDateFlag parses a dd/mm/yyyy flag value. Returns the zero time if
// the flag is empty.
func ParseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := api.ParseExportDate(value)
	if err != nil {
		return time.Time{}, errors.WrapWithCode(err, errors.ErrValidation,
			"'"+value+"' doesn't look like a valid "+name+" date",
			"Use dd/mm/yyyy, e.g. 01/03/2025.")
	}
	return t, nil
}

func optionalString(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}

// clearable sets an optional field in a patch; an empty value clears it.
func clearable(s string) *null.String {
	v := optionalString(s)
	return &v
}

func flagError(flag string, err error) error {
	return errors.WrapWithCode(err, errors.ErrValidation,
		"Invalid value for "+flag, "Run the command with --help to see accepted values.")
}
