package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/uptimestars/starsctl/internal/aggregate"
	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/ui"
	"gopkg.in/yaml.v3"
)

// Output styles
var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)
	nameStyle    = lipgloss.NewStyle().Bold(true)
	fieldStyle   = lipgloss.NewStyle().Foreground(ui.ColorMuted).Width(12)
)

// now is the clock for relative times.
var now = time.Now

// toYAML renders v through its JSON form so field names match --json output.
func toYAML(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return nil, err
	}
	enc.Close()
	return []byte(buf.String()), nil
}

// renderMonitorList prints a page of monitors in group sections.
func renderMonitorList(w io.Writer, page *api.Page[api.Monitor], groups []api.Group, window int) {
	if len(page.Data) == 0 {
		fmt.Fprintln(w, "No monitors.")
		fmt.Fprintln(w, "\nCreate one with: starsctl monitors create --name <name> --target <url>")
		return
	}

	for i, section := range aggregate.GroupMonitors(page.Data, groups).Sections() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("%s (%d)", section.Label, len(section.Monitors))))
		for _, m := range section.Monitors {
			fmt.Fprintln(w, renderMonitorLine(m, window))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.MutedStyle().Render(pageFooter(page.PageNumber, page.PageCount, page.TotalItemCount, "monitors")))
}

// renderMonitorLine prints one monitor with its status, uptime and strip.
func renderMonitorLine(m api.Monitor, window int) string {
	cols := []string{
		" " + padCells(ui.StatusBadge(aggregate.Classify(m)), 13),
		nameStyle.Render(padCells(ui.Truncate(m.Name, 28), 28)),
		ui.MutedStyle().Render(padCells(m.ID, 36)),
		padCells(ui.Truncate(m.Target, 40), 40),
		"24h " + padCells(uptimeText(m.Uptime24hPercentage), 7),
		"30d " + padCells(uptimeText(m.Uptime30dPercentage), 7),
	}
	if len(m.LastEvents) > 0 {
		cols = append(cols, ui.RenderStrip(aggregate.Strip(m.LastEvents, window)))
	}
	return strings.Join(cols, " ")
}

// renderMonitorDetail prints every field of one monitor and its recent events.
func renderMonitorDetail(w io.Writer, d *api.MonitorDetail, groups []api.Group, window int) {
	status := aggregate.Classify(d.Monitor)
	fmt.Fprintf(w, "%s  %s\n", nameStyle.Render(d.Name), ui.StatusBadge(status))
	fmt.Fprintln(w, ui.MutedStyle().Render(d.ID))
	fmt.Fprintln(w)

	field := func(label, value string) {
		fmt.Fprintf(w, "%s%s\n", fieldStyle.Render(label), value)
	}
	if d.Description != "" {
		field("Description", d.Description)
	}
	field("Target", d.Target)
	field("Type", fmt.Sprintf("%s  every %d min  timeout %d ms", d.Type, d.IntervalInMinutes, d.TimeoutInMilliseconds))
	field("Group", groupName(d.Monitor, groups))
	field("Uptime", fmt.Sprintf("24h %s   30d %s", uptimeText(d.Uptime24hPercentage), uptimeText(d.Uptime30dPercentage)))
	if !d.CreatedAtUTC.IsZero() {
		field("Created", humanize.RelTime(d.CreatedAtUTC.Time, now(), "ago", "from now"))
	}
	if d.ExpectedText.Valid && d.ExpectedText.String != "" {
		field("Expects", fmt.Sprintf("%q (%s)", d.ExpectedText.String, d.SearchMode))
	}
	if len(d.RequestHeaders) > 0 {
		field("Headers", strings.Join(d.RequestHeaders, ", "))
	}
	if len(d.AlertEmails) > 0 {
		field("Alerts", fmt.Sprintf("%s  delay %d min, resend every %d cycles",
			strings.Join(d.AlertEmails, ", "), d.AlertDelayMinutes, d.AlertResendCycles))
	}
	if d.AlertMessage.Valid && d.AlertMessage.String != "" {
		field("Message", d.AlertMessage.String)
	}

	slots := aggregate.Strip(d.LastEvents, window)
	if latency, ok := aggregate.LatestLatency(*d); ok {
		spark := ui.RenderSparkline(ui.LatencySeries(slots), window, float64(d.TimeoutInMilliseconds))
		field("Latency", fmt.Sprintf("%.0f ms  %s", latency, spark))
	}
	field("Recent", ui.RenderStrip(slots))

	if len(d.LastImportantEvents) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionStyle.Render("Status changes"))
		for _, ev := range d.LastImportantEvents {
			fmt.Fprintf(w, "  %s  %s  %s\n",
				ui.MutedStyle().Render(relTime(ev.TimestampUTC)),
				ui.StatusBadge(aggregate.EventStatus(ev)),
				ui.Truncate(ev.Message, 60))
		}
	}
}

// renderEventTable prints a page of events. The monitor column is left out
// when every event belongs to one monitor.
func renderEventTable(w io.Writer, page *api.Page[api.Event], withMonitor bool) {
	if len(page.Data) == 0 {
		fmt.Fprintln(w, "No events.")
		return
	}

	columns := []ui.TableColumn{
		{Title: "ID", Width: 8},
		{Title: "When", Width: 14},
	}
	if withMonitor {
		columns = append(columns, ui.TableColumn{Title: "Monitor", Width: 12})
	}
	columns = append(columns,
		ui.TableColumn{Title: "Status", Width: 6},
		ui.TableColumn{Title: "Latency", Width: 7},
		ui.TableColumn{Title: "Message", Width: 10},
		ui.TableColumn{Title: "Note", Width: 4},
	)

	rows := make([][]string, 0, len(page.Data))
	for _, ev := range page.Data {
		row := []string{ev.ID, relTime(ev.TimestampUTC)}
		if withMonitor {
			row = append(row, ev.MonitorName)
		}
		row = append(row,
			eventStatus(ev),
			fmt.Sprintf("%.0f ms", ev.LatencyMilliseconds),
			ui.Truncate(ev.Message, 60),
			annotation(ev),
		)
		rows = append(rows, row)
	}

	fmt.Fprintln(w, ui.RenderSimpleTable(columns, rows))
	fmt.Fprintln(w, ui.MutedStyle().Render(pageFooter(page.PageNumber, page.PageCount, page.TotalItemCount, "events")))
}

// renderGroupTable prints every group.
func renderGroupTable(w io.Writer, groups []api.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No groups.")
		return
	}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.Name, g.ID, ui.Truncate(g.Description, 60)})
	}
	fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "Name", Width: 4},
		{Title: "ID", Width: 2},
		{Title: "Description", Width: 11},
	}, rows))
}

func pageFooter(number, count, total int, noun string) string {
	if count <= 1 {
		return fmt.Sprintf("%d %s", total, noun)
	}
	return fmt.Sprintf("page %d/%d, %d %s", number, count, total, noun)
}

func groupName(m api.Monitor, groups []api.Group) string {
	if !m.GroupID.Valid || m.GroupID.String == "" {
		return aggregate.UngroupedLabel
	}
	if name, ok := aggregate.GroupName(groups, m.GroupID.String); ok && name != "" {
		return name
	}
	return aggregate.UnknownGroupLabel
}

func eventStatus(ev api.Event) string {
	if ev.IsUp {
		return ui.SymbolSuccess + " Up"
	}
	return ui.SymbolFail + " Down"
}

// annotation joins the filled-in annotation fields of an event.
func annotation(ev api.Event) string {
	var parts []string
	if ev.FalsePositive {
		parts = append(parts, "[FP]")
	}
	for _, s := range []string{ev.Category, ev.MaintenanceType, ev.TicketID, ev.Note} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func relTime(t api.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t.Time, now(), "ago", "from now")
}

func uptimeText(p api.Percentage) string {
	if p == "" {
		return "-"
	}
	return string(p) + "%"
}

// padCells pads s with spaces to width terminal cells.
func padCells(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
