package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/errors"
)

// Prompts are variables so tests can answer them.
var (
	runMonitorForm = func(f *monitorForm, groups []api.Group) error { return f.build(groups).Run() }

	confirm = func(title string) (bool, error) {
		var ok bool
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(title).
					Affirmative("Delete").
					Negative("Cancel").
					Value(&ok),
			),
		).Run()
		return ok, err
	}
)

// monitorForm holds the interactive monitor form as text, the way huh
// inputs edit it.
type monitorForm struct {
	Name         string
	Description  string
	Type         string
	Target       string
	Interval     string
	Timeout      string
	Group        string
	Emails       string
	Headers      string
	SearchMode   string
	ExpectedText string
	AlertMessage string
	AlertDelay   string
	AlertResend  string
}

// newMonitorForm seeds the form from p.
func newMonitorForm(p api.MonitorPayload) *monitorForm {
	return &monitorForm{
		Name:         p.Name,
		Description:  p.Description,
		Type:         p.Type.String(),
		Target:       p.Target,
		Interval:     strconv.Itoa(p.IntervalInMinutes),
		Timeout:      strconv.Itoa(p.TimeoutInMilliseconds),
		Group:        p.GroupID.String,
		Emails:       strings.Join(p.AlertEmails, ", "),
		Headers:      strings.Join(p.RequestHeaders, "\n"),
		SearchMode:   p.SearchMode.String(),
		ExpectedText: p.ExpectedText.String,
		AlertMessage: p.AlertMessage.String,
		AlertDelay:   strconv.Itoa(p.AlertDelayMinutes),
		AlertResend:  strconv.Itoa(p.AlertResendCycles),
	}
}

// build lays out the form in three pages: what to probe, how often, and
// who to alert.
func (f *monitorForm) build(groups []api.Group) *huh.Form {
	groupOptions := []huh.Option[string]{huh.NewOption("No group", "")}
	for _, g := range groups {
		groupOptions = append(groupOptions, huh.NewOption(g.Name, g.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&f.Name).
				Validate(required("name")),
			huh.NewSelect[string]().
				Title("Type").
				Options(huh.NewOption("HTTP", "http"), huh.NewOption("Ping", "ping")).
				Value(&f.Type),
			huh.NewInput().
				Title("Target").
				Description("URL for HTTP monitors, host name or address for ping").
				Placeholder("https://example.com/health").
				Value(&f.Target).
				Validate(required("target")),
			huh.NewInput().
				Title("Description").
				Value(&f.Description),
			huh.NewSelect[string]().
				Title("Group").
				Options(groupOptions...).
				Value(&f.Group),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Check interval (minutes)").
				Value(&f.Interval).
				Validate(atLeast("interval", 1)),
			huh.NewInput().
				Title("Timeout (milliseconds)").
				Value(&f.Timeout).
				Validate(atLeast("timeout", 100)),
			huh.NewText().
				Title("Request headers").
				Description("One 'Name: value' per line").
				Value(&f.Headers),
			huh.NewInput().
				Title("Expected text").
				Description("Leave empty to only check the status code").
				Value(&f.ExpectedText),
			huh.NewSelect[string]().
				Title("Expected text must be").
				Options(huh.NewOption("Included", "includes"), huh.NewOption("Excluded", "excludes")).
				Value(&f.SearchMode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Alert emails").
				Description("Comma separated").
				Value(&f.Emails),
			huh.NewInput().
				Title("Alert message").
				Value(&f.AlertMessage),
			huh.NewInput().
				Title("Alert delay (minutes)").
				Value(&f.AlertDelay).
				Validate(atLeast("alert delay", 0)),
			huh.NewInput().
				Title("Resend alert every N cycles").
				Description("0 sends one alert per outage").
				Value(&f.AlertResend).
				Validate(atLeast("resend cycles", 0)),
		),
	)
}

// payload converts the form back into a request body.
func (f *monitorForm) payload() (api.MonitorPayload, error) {
	p := api.NewMonitorPayload(strings.TrimSpace(f.Name), strings.TrimSpace(f.Target))
	p.Description = strings.TrimSpace(f.Description)

	var err error
	if p.Type, err = api.ParseMonitorType(f.Type); err != nil {
		return p, formError(err)
	}
	if p.SearchMode, err = api.ParseSearchMode(f.SearchMode); err != nil {
		return p, formError(err)
	}

	ints := []struct {
		name  string
		value string
		dst   *int
	}{
		{"interval", f.Interval, &p.IntervalInMinutes},
		{"timeout", f.Timeout, &p.TimeoutInMilliseconds},
		{"alert delay", f.AlertDelay, &p.AlertDelayMinutes},
		{"resend cycles", f.AlertResend, &p.AlertResendCycles},
	}
	for _, n := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(n.value))
		if err != nil {
			return p, formError(fmt.Errorf("%s must be a whole number", n.name))
		}
		*n.dst = v
	}

	p.AlertEmails = splitList(f.Emails, ",")
	p.RequestHeaders = splitList(f.Headers, "\n")
	p.GroupID = optionalString(strings.TrimSpace(f.Group))
	p.ExpectedText = optionalString(f.ExpectedText)
	p.AlertMessage = optionalString(f.AlertMessage)
	return p, nil
}

// splitList splits s on sep and drops empty entries.
func splitList(s, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func atLeast(name string, floor int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%s must be a whole number", name)
		}
		if n < floor {
			return fmt.Errorf("%s must be at least %d", name, floor)
		}
		return nil
	}
}

func formError(err error) error {
	return errors.WrapWithCode(err, errors.ErrValidation,
		"Invalid form input", "Run the command again and correct the field.")
}

// requireTerminal rejects prompts when stdin is not interactive.
func requireTerminal(what string) error {
	if MachineMode() || !stdinIsTerminal() {
		return errors.New(errors.ErrValidation,
			what+" needs an interactive terminal",
			"Pass the values as flags instead, see --help.")
	}
	return nil
}
