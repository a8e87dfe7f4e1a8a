package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/uptimestars/starsctl/internal/aggregate"
	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/ui"
)

// Detail view styles
var (
	detailLabelStyle = lipgloss.NewStyle().
				Foreground(ui.ColorMuted).
				Width(12)

	detailTitleStyle = lipgloss.NewStyle().
				Foreground(ui.ColorSecondary).
				Bold(true)
)

// renderDetailView renders the single-monitor detail view. Once the window
// size is known the body scrolls in a viewport that Update keeps filled.
func (m Model) renderDetailView() string {
	var b strings.Builder
	b.WriteString(m.renderDetailHeader())
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.detailViewport.View())
	} else {
		b.WriteString(m.renderDetailBody())
	}

	if status := m.renderStatusLine(); status != "" {
		b.WriteString("\n")
		b.WriteString(status)
	}
	if m.ShowFooter() {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}
	return b.String()
}

// renderDetailHeader renders the monitor name and status prominently.
func (m Model) renderDetailHeader() string {
	if m.detail == nil {
		return HeaderStyle.Render("← " + LabelStyle.Render("monitor "+m.detailID))
	}
	title := detailTitleStyle.Render(m.detail.Name)
	badge := ui.StatusBadge(aggregate.Classify(m.detail.Monitor))
	return HeaderStyle.Render(fmt.Sprintf("← %s  %s", title, badge)) +
		LabelStyle.Render(" "+m.updatedText())
}

func (m Model) renderDetailBody() string {
	d := m.detail
	if d == nil {
		if m.loadErr != nil {
			return ErrorLineStyle.Render(" Failed to load monitor: " + m.loadErr.Error())
		}
		return LabelStyle.Render(" Loading monitor...")
	}

	var lines []string
	field := func(label, value string) {
		lines = append(lines, " "+detailLabelStyle.Render(label)+value)
	}

	if d.Description != "" {
		field("Description", d.Description)
	}
	field("Target", d.Target)
	field("Type", fmt.Sprintf("%s  every %d min  timeout %d ms", d.Type, d.IntervalInMinutes, d.TimeoutInMilliseconds))
	field("Group", m.groupLabel(d.Monitor))
	field("Uptime", fmt.Sprintf("24h %s   30d %s", uptime(d.Uptime24hPercentage), uptime(d.Uptime30dPercentage)))
	if !d.CreatedAtUTC.IsZero() {
		field("Created", humanize.RelTime(d.CreatedAtUTC.Time, m.opts.Now(), "ago", "from now"))
	}
	if d.ExpectedText.Valid && d.ExpectedText.String != "" {
		field("Expects", fmt.Sprintf("%q (%s)", d.ExpectedText.String, d.SearchMode))
	}
	if len(d.AlertEmails) > 0 {
		field("Alerts", fmt.Sprintf("%s  delay %d min, resend every %d cycles",
			strings.Join(d.AlertEmails, ", "), d.AlertDelayMinutes, d.AlertResendCycles))
	}

	slots := aggregate.Strip(d.LastEvents, m.opts.StripWindow)
	if latency, ok := aggregate.LatestLatency(*d); ok {
		spark := ui.RenderSparkline(ui.LatencySeries(slots), m.opts.StripWindow, float64(d.TimeoutInMilliseconds))
		field("Latency", fmt.Sprintf("%.0f ms  %s", latency, spark))
	} else {
		field("Latency", LabelStyle.Render("no events yet"))
	}
	field("Recent", ui.RenderStrip(slots))

	if len(d.LastImportantEvents) > 0 {
		lines = append(lines, "", SectionStyle.Render(" Status changes"))
		for _, ev := range d.LastImportantEvents {
			lines = append(lines, fmt.Sprintf(" %s  %s  %s",
				LabelStyle.Render(ev.TimestampUTC.Local().Format("Jan 02 15:04:05")),
				ui.StatusBadge(aggregate.EventStatus(ev)),
				ui.Truncate(ev.Message, 60)))
		}
	}

	lines = append(lines, "", m.renderEvents(detailEventRows))
	return strings.Join(lines, "\n")
}

// groupLabel names the monitor's group the same way the list sections do.
func (m Model) groupLabel(mon api.Monitor) string {
	if !mon.GroupID.Valid || mon.GroupID.String == "" {
		return aggregate.UngroupedLabel
	}
	if name, ok := aggregate.GroupName(m.groups, mon.GroupID.String); ok && name != "" {
		return name
	}
	return aggregate.UnknownGroupLabel
}
