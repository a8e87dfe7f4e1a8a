package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/uptimestars/starsctl/internal/aggregate"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

// sparklineBlockRunes provides indexed access to block characters.
var sparklineBlockRunes = []rune(sparklineBlocks)

// RenderStrip draws one cell per slot: green for up, red for down, and a
// muted shade for placeholders.
func RenderStrip(slots []aggregate.Slot) string {
	up := lipgloss.NewStyle().Foreground(ColorSuccess)
	down := lipgloss.NewStyle().Foreground(ColorError)
	empty := lipgloss.NewStyle().Foreground(ColorMuted)

	var sb strings.Builder
	for _, s := range slots {
		switch {
		case s.Placeholder:
			sb.WriteString(empty.Render(StripPlaceholder))
		case s.Event.IsUp:
			sb.WriteString(up.Render(StripFilled))
		default:
			sb.WriteString(down.Render(StripFilled))
		}
	}
	return sb.String()
}

// RenderSparkline creates a sparkline from values, oldest first. The width
// parameter determines how many of the most recent values to display. The
// line is colored by the last value's share of limit:
//   - below 60%: green
//   - 60-80%: yellow
//   - 80% and above: red
//
// A limit of zero or less leaves the line muted.
func RenderSparkline(data []float64, width int, limit float64) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	if len(data) > width {
		data = data[len(data)-width:]
	}

	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	var sb strings.Builder
	sb.Grow(len(data) * 4)

	numLevels := len(sparklineBlockRunes)
	valueRange := maxVal - minVal

	for _, v := range data {
		var level int
		if valueRange == 0 {
			level = numLevels / 2
		} else {
			normalized := (v - minVal) / valueRange
			level = int(normalized * float64(numLevels-1))
			if level < 0 {
				level = 0
			} else if level >= numLevels {
				level = numLevels - 1
			}
		}
		sb.WriteRune(sparklineBlockRunes[level])
	}

	color := ColorMuted
	if limit > 0 {
		color = getThresholdColor(data[len(data)-1] / limit * 100)
	}
	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

// getThresholdColor returns a color based on percentage thresholds.
func getThresholdColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 80:
		return ColorError
	case percent >= 60:
		return ColorWarning
	default:
		return ColorSuccess
	}
}

// LatencySeries returns event latencies oldest first, skipping placeholders.
func LatencySeries(slots []aggregate.Slot) []float64 {
	out := make([]float64, 0, len(slots))
	for _, s := range slots {
		if !s.Placeholder {
			out = append(out, s.Event.LatencyMilliseconds)
		}
	}
	return out
}
