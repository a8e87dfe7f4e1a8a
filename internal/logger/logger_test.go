package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		logDebug  bool
		logWarn   bool
		wantLines int
	}{
		{name: "debug level logs everything", level: "debug", logDebug: true, logWarn: true, wantLines: 2},
		{name: "warn level drops debug", level: "warn", logDebug: true, logWarn: true, wantLines: 1},
		{name: "empty level defaults to warn", level: "", logDebug: true, logWarn: false, wantLines: 0},
		{name: "error level drops warn", level: "error", logDebug: false, logWarn: true, wantLines: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(&buf, Options{Level: tt.level, Format: FormatJSON, Component: "query"})
			require.NoError(t, err)

			if tt.logDebug {
				l.Debug("debug %d", 1)
			}
			if tt.logWarn {
				l.Warn("warn %d", 2)
			}

			out := strings.TrimSpace(buf.String())
			if tt.wantLines == 0 {
				assert.Empty(t, out)
				return
			}
			assert.Len(t, strings.Split(out, "\n"), tt.wantLines)
		})
	}
}

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, Options{Level: "info", Format: FormatJSON, Component: "api"})
	require.NoError(t, err)

	l.Info("GET %s -> %d", "/monitor", 200)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "api", line["component"])
	assert.Equal(t, "GET /monitor -> 200", line["message"])
	assert.Contains(t, line, "time")
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, Options{Level: "debug", Format: FormatConsole, NoColor: true})
	require.NoError(t, err)

	l.Error("boom %s", "here")
	assert.Contains(t, buf.String(), "[ERROR]")
	assert.Contains(t, buf.String(), "boom here")
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, Options{Format: "xml"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.WarnLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"verbose", zerolog.NoLevel, true},
		{"trace", zerolog.NoLevel, true},
		{"fatal", zerolog.NoLevel, true},
		{"panic", zerolog.NoLevel, true},
		{"disabled", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNoop(t *testing.T) {
	l := Noop()
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Error("x")
	})
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %d", 1)
	l.Info("info")
	l.Warn("warn")
	l.Error("error %s", "x")

	require.Len(t, l.Messages, 4)
	assert.Equal(t, LogMessage{Level: "debug", Message: "debug 1"}, l.Messages[0])
	assert.True(t, l.HasLevel("warn"))
	assert.True(t, l.Contains("error x"))
	assert.False(t, l.Contains("missing"))

	l.Clear()
	assert.Empty(t, l.Messages)
	assert.False(t, l.HasLevel("debug"))
}

func TestBufferLogger_Concurrent(t *testing.T) {
	l := NewBufferLogger()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Info("msg %d", n)
		}(i)
	}
	wg.Wait()
	assert.Len(t, l.Messages, 20)
}
