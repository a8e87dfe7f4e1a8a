package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/uptimestars/starsctl/internal/aggregate"
	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/ui"
)

// Rows shown in the events table before it scrolls.
const (
	listEventRows   = 10
	detailEventRows = 15
)

// renderDashboard renders the monitor list view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n\n")

	b.WriteString(m.renderMonitorSections())
	b.WriteString("\n\n")

	b.WriteString(m.renderEvents(listEventRows))

	if status := m.renderStatusLine(); status != "" {
		b.WriteString("\n\n")
		b.WriteString(status)
	}

	if m.ShowFooter() {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}
	return b.String()
}

// renderHeader renders the title line with page and freshness information.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ui.ColorSecondary).
		Bold(true).
		Render("starsctl")

	parts := []string{}
	if m.opts.Version != "" {
		parts = append(parts, m.opts.Version)
	}
	if m.opts.BaseURL != "" {
		parts = append(parts, m.opts.BaseURL)
	}
	if st := m.monitorsState; st.HasData && st.Data != nil {
		parts = append(parts, fmt.Sprintf("%d monitors", st.Data.TotalItemCount))
		if st.Data.PageCount > 1 {
			parts = append(parts, fmt.Sprintf("page %d/%d", st.Key.Page, st.Data.PageCount))
		}
	}
	parts = append(parts, m.updatedText())

	stats := LabelStyle.Render(" | " + strings.Join(parts, " | "))
	return HeaderStyle.Render(title + stats)
}

// updatedText describes how long ago the view last loaded.
func (m Model) updatedText() string {
	if m.lastUpdate.IsZero() {
		return "loading..."
	}
	return "updated " + humanize.RelTime(m.lastUpdate, m.opts.Now(), "ago", "from now")
}

// renderStats renders the status counts with the down-count trend.
func (m Model) renderStats() string {
	line := " " + ui.RenderStatsBar(m.stats)
	if m.history.Len() > 1 && m.LayoutMode() == LayoutWide {
		trend := ui.RenderSparkline(m.history.Series(aggregate.StatusDown), 20, 0)
		line += "  " + LabelStyle.Render("down trend ") + trend
	}
	return line
}

// renderMonitorSections renders every group section with its monitors.
func (m Model) renderMonitorSections() string {
	st := m.monitorsState
	if !st.HasData {
		if m.loadErr != nil {
			return ErrorLineStyle.Render(" Failed to load monitors: " + m.loadErr.Error())
		}
		return LabelStyle.Render(" Loading monitors...")
	}
	if len(m.rows) == 0 {
		return LabelStyle.Render(" No monitors")
	}

	var lines []string
	row := 0
	for _, section := range m.sections {
		lines = append(lines, SectionStyle.Render(fmt.Sprintf(" %s (%d)", section.Label, len(section.Monitors))))
		for _, mon := range section.Monitors {
			selected := row == m.selected && m.focus == FocusMonitors
			lines = append(lines, m.renderMonitorRow(mon, selected))
			row++
		}
	}
	if st.Placeholder {
		lines = append(lines, LabelStyle.Render(" loading page..."))
	}
	return strings.Join(lines, "\n")
}

// renderMonitorRow renders one monitor, with more columns on wider terminals.
func (m Model) renderMonitorRow(mon api.Monitor, selected bool) string {
	marker := " "
	nameStyle := ValueStyle
	if selected {
		marker = selectionMarker
		nameStyle = SelectedStyle
	}

	status := aggregate.Classify(mon)
	cols := []string{
		" " + marker,
		pad(ui.StatusBadge(status), 13),
		nameStyle.Render(pad(ui.Truncate(mon.Name, 24), 24)),
	}

	layout := m.LayoutMode()
	if layout >= LayoutCompact {
		cols = append(cols,
			LabelStyle.Render(pad(ui.Truncate(mon.Target, 32), 32)),
			fmt.Sprintf("24h %s", pad(uptime(mon.Uptime24hPercentage), 7)),
		)
	}
	if layout >= LayoutWide {
		cols = append(cols,
			fmt.Sprintf("30d %s", pad(uptime(mon.Uptime30dPercentage), 7)),
			ui.RenderStrip(aggregate.Strip(mon.LastEvents, m.opts.LastEventsLimit)),
		)
	}
	return strings.Join(cols, " ")
}

// renderEvents renders the events table of the current view.
func (m Model) renderEvents(maxRows int) string {
	st := m.eventsState
	detail := m.viewMode == ViewDetail
	if detail {
		st = m.detailEvents
	}

	title := "Events"
	if st.HasData && st.Data != nil && st.Data.PageCount > 0 {
		title += fmt.Sprintf("  page %d/%d", st.Key.Page, st.Data.PageCount)
	}
	if st.Placeholder {
		title += "  loading..."
	}
	header := SectionStyle.Render(" " + title)

	events := m.currentEvents()
	if len(events) == 0 {
		if !st.HasData {
			return header + "\n" + LabelStyle.Render(" Loading events...")
		}
		return header + "\n" + LabelStyle.Render(" No events")
	}

	columns := []ui.TableColumn{
		{Title: "Time", Width: 15},
		{Title: "Status", Width: 7},
		{Title: "Latency", Width: 8},
		{Title: "Message", Width: 30},
		{Title: "Note", Width: 20},
	}
	if !detail {
		columns = append(columns[:1], append([]ui.TableColumn{{Title: "Monitor", Width: 18}}, columns[1:]...)...)
	}

	rows := make([]table.Row, len(events))
	for i, ev := range events {
		row := table.Row{
			ev.TimestampUTC.Local().Format("Jan 02 15:04:05"),
			eventStatusText(ev),
			fmt.Sprintf("%.0f ms", ev.LatencyMilliseconds),
			ev.Message,
			eventNote(ev),
		}
		if !detail {
			row = append(row[:1], append(table.Row{ev.MonitorName}, row[1:]...)...)
		}
		rows[i] = row
	}

	t := ui.NewTable(columns, rows)
	if len(rows) > maxRows {
		t.SetHeight(maxRows + 2) // header and its border
	}
	if m.eventsFocused() {
		t.Focus()
	} else {
		styles := ui.TableStyles()
		styles.Selected = lipgloss.NewStyle()
		t.SetStyles(styles)
	}
	t.SetCursor(m.eventSel)

	return header + "\n" + t.View()
}

// renderStatusLine renders the prompt, note editor, action outcome or load
// error, in that order of priority.
func (m Model) renderStatusLine() string {
	switch {
	case m.confirm != nil:
		return PromptStyle.Render(fmt.Sprintf(" Delete %s? Press y to confirm, any other key to cancel.", m.confirm.name))
	case m.annotating != "":
		return " " + m.noteInput.View() + LabelStyle.Render("  enter save, esc cancel")
	case m.action.View() != "":
		line := " " + m.action.View()
		if m.loadErr != nil {
			line += "\n" + ErrorLineStyle.Render(" Refresh failed: "+m.loadErr.Error())
		}
		return line
	case m.loadErr != nil:
		return ErrorLineStyle.Render(" Refresh failed: " + m.loadErr.Error())
	}
	return ""
}

// renderFooter renders the keyboard help footer. Write keys are hidden
// while a write is running.
func (m Model) renderFooter() string {
	hints := []string{"q quit", "r refresh", "↑↓ select"}
	if m.viewMode == ViewList {
		hints = append(hints, "tab focus", "enter open")
	} else {
		hints = append(hints, "esc back")
	}
	if m.Busy() {
		hints = append(hints, "writing...")
	} else {
		hints = append(hints, "p pause/resume", "d delete")
		if m.eventsFocused() {
			hints = append(hints, "n note", "f false positive")
		}
	}
	hints = append(hints, "? help")
	return FooterStyle.Render(strings.Join(hints, " | "))
}

func eventStatusText(ev api.Event) string {
	if ev.IsUp {
		return ui.SymbolSuccess + " Up"
	}
	return ui.SymbolFail + " Down"
}

// eventNote shows the note with the false-positive flag.
func eventNote(ev api.Event) string {
	if ev.FalsePositive {
		if ev.Note == "" {
			return "[FP]"
		}
		return "[FP] " + ev.Note
	}
	return ev.Note
}

func uptime(p api.Percentage) string {
	if p == "" {
		return "-"
	}
	return string(p) + "%"
}

// pad pads s with spaces to width terminal cells.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
