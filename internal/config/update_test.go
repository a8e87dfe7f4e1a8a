package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefault(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# starsctl configuration")
	assert.Contains(t, string(data), "base_url: https://localhost/api/v1")
	assert.Contains(t, string(data), "interval: 5s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg, "written defaults load back unchanged")
}

func TestWriteDefault_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0644))

	err := WriteDefault(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, WriteDefault(path, true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dashboard:")
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		key      string
		value    string
		contains []string
		wantErr  string
	}{
		{
			name:     "replace existing value and keep comments",
			initial:  "# mine\napi:\n  base_url: https://old/api/v1 # prod\n  timeout: 15s\n",
			key:      "api.base_url",
			value:    "https://new/api/v1",
			contains: []string{"# mine", "base_url: https://new/api/v1", "timeout: 15s"},
		},
		{
			name:     "add key to existing section",
			initial:  "poll:\n  interval: 5s\n",
			key:      "cache.stale_time",
			value:    "10s",
			contains: []string{"interval: 5s", "cache:", "stale_time: 10s"},
		},
		{
			name:     "empty file",
			initial:  "",
			key:      "log.level",
			value:    "debug",
			contains: []string{"log:", "level: debug"},
		},
		{
			name:    "section used as value",
			initial: "api:\n  base_url: x\n",
			key:     "api",
			value:   "y",
			wantErr: "is a section",
		},
		{
			name:    "value used as section",
			initial: "version: 1\n",
			key:     "version.major",
			value:   "2",
			wantErr: "is a value",
		},
		{
			name:    "malformed key",
			initial: "version: 1\n",
			key:     "api..base_url",
			value:   "x",
			wantErr: "invalid key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.initial), 0644))

			err := SetValue(path, tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, string(data), want)
			}
		})
	}
}

func TestSetValue_LoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefault(path, false))

	require.NoError(t, SetValue(path, "dashboard.page_size", "42"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Dashboard.PageSize)
}
