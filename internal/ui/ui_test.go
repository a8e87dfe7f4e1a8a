package ui

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptimestars/starsctl/internal/aggregate"
	"github.com/uptimestars/starsctl/internal/api"
)

func TestMain(m *testing.M) {
	DisableColors()
	os.Exit(m.Run())
}

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		status aggregate.Status
		want   string
	}{
		{aggregate.StatusFunctional, "● Functional"},
		{aggregate.StatusDown, "✗ Down"},
		{aggregate.StatusMaintenance, "◆ Maintenance"},
		{aggregate.StatusUnknown, "○ Unknown"},
		{aggregate.StatusPaused, "⊘ Paused"},
		{aggregate.StatusPending, "◐ Pending"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusBadge(tt.status))
		})
	}
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, ColorSuccess, StatusColor(aggregate.StatusFunctional))
	assert.Equal(t, ColorError, StatusColor(aggregate.StatusDown))
	assert.Equal(t, ColorMuted, StatusColor(aggregate.StatusPaused))
}

func TestRenderStrip(t *testing.T) {
	events := []api.Event{{ID: "3", IsUp: true}, {ID: "2", IsUp: false}, {ID: "1", IsUp: true}}
	got := RenderStrip(aggregate.Strip(events, 5))
	assert.Equal(t, "░░███", got)
	assert.Equal(t, 5, lipgloss.Width(got))
}

func TestRenderSparkline(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, RenderSparkline(nil, 10, 100))
		assert.Empty(t, RenderSparkline([]float64{1}, 0, 100))
	})

	t.Run("scales min to max", func(t *testing.T) {
		assert.Equal(t, "▁█", RenderSparkline([]float64{10, 20}, 10, 0))
	})

	t.Run("flat series uses middle block", func(t *testing.T) {
		assert.Equal(t, "▅▅▅", RenderSparkline([]float64{5, 5, 5}, 10, 0))
	})

	t.Run("keeps most recent values", func(t *testing.T) {
		got := RenderSparkline([]float64{1, 2, 3, 4, 5}, 3, 0)
		assert.Equal(t, 3, lipgloss.Width(got))
	})
}

func TestGetThresholdColor(t *testing.T) {
	assert.Equal(t, ColorSuccess, getThresholdColor(10))
	assert.Equal(t, ColorWarning, getThresholdColor(60))
	assert.Equal(t, ColorError, getThresholdColor(95))
}

func TestLatencySeries(t *testing.T) {
	events := []api.Event{{LatencyMilliseconds: 30}, {LatencyMilliseconds: 10}}
	assert.Equal(t, []float64{10, 30}, LatencySeries(aggregate.Strip(events, 4)))
}

func TestRenderSimpleTable(t *testing.T) {
	assert.Empty(t, RenderSimpleTable([]TableColumn{{Title: "Name"}}, nil))

	out := RenderSimpleTable(
		[]TableColumn{{Title: "Name", Width: 2}, {Title: "Status", Width: 4}},
		[][]string{{"checkout-api", "Down"}},
	)
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "checkout-api")
	assert.Contains(t, out, "Down")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hell…", Truncate("hello world", 5))
	assert.Equal(t, "…", Truncate("hello", 1))
	assert.Empty(t, Truncate("hello", 0))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 4))
}

func TestConfigureColor(t *testing.T) {
	t.Cleanup(DisableColors)

	require.NoError(t, ConfigureColor(ColorModeAlways))
	assert.Equal(t, termenv.ANSI256, lipgloss.ColorProfile())

	require.NoError(t, ConfigureColor(ColorModeNever))
	assert.Equal(t, termenv.Ascii, lipgloss.ColorProfile())

	require.NoError(t, ConfigureColor(ColorModeAuto))
	assert.Error(t, ConfigureColor("rainbow"))
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader(HeaderInfo{Version: "v1.2.0", BaseURL: "https://status.example.com"})
	assert.Contains(t, out, "starsctl v1.2.0")
	assert.Contains(t, out, "https://status.example.com")
	assert.Contains(t, out, strings.Repeat("━", HeaderWidth))
}

func TestRenderStatsSummary(t *testing.T) {
	out := RenderStatsSummary(aggregate.Stats{Functional: 3, Down: 1, Paused: 2})
	assert.Contains(t, out, "Functional   3")
	assert.Contains(t, out, "Down         1")
	assert.Contains(t, out, "Total        6")
}

func TestRenderStatsBar(t *testing.T) {
	out := RenderStatsBar(aggregate.Stats{Functional: 2})
	for _, s := range aggregate.AllStatuses {
		assert.Contains(t, out, s.String())
	}
	assert.Contains(t, out, "● 2 Functional")
}

func TestSpinnerRun(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewSpinner("Pausing api", &buf).Run(func() error { return nil })
		require.NoError(t, err)
		assert.Contains(t, buf.String(), SymbolSuccess+" Pausing api")
	})

	t.Run("failure", func(t *testing.T) {
		var buf bytes.Buffer
		boom := errors.New("boom")
		err := NewSpinner("Deleting api", &buf).Run(func() error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, buf.String(), SymbolFail+" Deleting api")
	})

	t.Run("stop without start", func(t *testing.T) {
		var buf bytes.Buffer
		NewSpinner("idle", &buf).Stop()
		assert.Empty(t, buf.String())
	})
}

func TestActionIndicator(t *testing.T) {
	a := NewActionIndicator()
	assert.Empty(t, a.View())

	cmd := a.Start("Pausing api")
	assert.NotNil(t, cmd)
	assert.True(t, a.Active)
	assert.Contains(t, a.View(), "Pausing api...")

	a.Finish(nil)
	assert.Equal(t, SymbolSuccess+" Pausing api", a.View())

	a.Start("Deleting api")
	a.Finish(errors.New("404 Not Found"))
	assert.Contains(t, a.View(), "Deleting api failed: 404 Not Found")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0.05s", formatDuration(50_000_000))
	assert.Equal(t, "1.2s", formatDuration(1_200_000_000))
}
