package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/uptimestars/starsctl/internal/aggregate"
)

// RenderStatsBar renders every status bucket on one line, e.g.
// "● 12 Functional  ✗ 1 Down  ◆ 0 Maintenance ...". Empty buckets are muted.
func RenderStatsBar(s aggregate.Stats) string {
	parts := make([]string, 0, len(aggregate.AllStatuses))
	for _, status := range aggregate.AllStatuses {
		n := s.Count(status)
		text := fmt.Sprintf("%s %d %s", StatusSymbol(status), n, status)
		style := lipgloss.NewStyle().Foreground(StatusColor(status))
		if n == 0 {
			style = MutedStyle()
		}
		parts = append(parts, style.Render(text))
	}
	return strings.Join(parts, "  ")
}

// RenderStatsSummary renders one status per line with a total, for the
// `monitors stats` command.
func RenderStatsSummary(s aggregate.Stats) string {
	var sb strings.Builder
	for _, status := range aggregate.AllStatuses {
		n := s.Count(status)
		label := padRight(status.String(), 12)
		line := fmt.Sprintf("%s %s %d", StatusSymbol(status), label, n)
		if n == 0 {
			sb.WriteString(MutedStyle().Render(line))
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(StatusColor(status)).Render(line))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("  %s %d", padRight("Total", 12), s.Total())))
	sb.WriteString("\n")
	return sb.String()
}
