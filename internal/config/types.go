package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete starsctl configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	API       APIConfig       `yaml:"api" mapstructure:"api"`
	Poll      PollConfig      `yaml:"poll" mapstructure:"poll"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Events    EventsConfig    `yaml:"events" mapstructure:"events"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// APIConfig points the client at an Uptime Stars backend.
type APIConfig struct {
	// BaseURL is the API root, e.g. https://stars.example.com/api/v1.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds every single JSON request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// ExportTimeout bounds a whole report download.
	ExportTimeout time.Duration `yaml:"export_timeout" mapstructure:"export_timeout"`
}

// PollConfig controls background refresh of live views.
type PollConfig struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// CacheConfig controls the query cache.
type CacheConfig struct {
	// StaleTime is how long a successful result is served without refetching.
	// Zero means every read revalidates.
	StaleTime time.Duration `yaml:"stale_time" mapstructure:"stale_time"`
}

// DashboardConfig sizes the queries behind the dashboard.
type DashboardConfig struct {
	PageSize          int `yaml:"page_size" mapstructure:"page_size"`
	LastEventsLimit   int `yaml:"last_events_limit" mapstructure:"last_events_limit"`
	DetailEventsLimit int `yaml:"detail_events_limit" mapstructure:"detail_events_limit"`
	StripWindow       int `yaml:"strip_window" mapstructure:"strip_window"`
}

// EventsConfig sizes the events table.
type EventsConfig struct {
	PageSize int `yaml:"page_size" mapstructure:"page_size"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`

	// File receives dashboard logs so they never draw over the TUI.
	File string `yaml:"file" mapstructure:"file"`
}

// OutputConfig controls terminal output.
type OutputConfig struct {
	// Color: auto, always, never
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			BaseURL: "https://localhost/api/v1",
			Timeout:       15 * time.Second,
			ExportTimeout: 10 * time.Minute,
		},
		Poll: PollConfig{
			Interval: 5 * time.Second,
		},
		Cache: CacheConfig{
			StaleTime: 0,
		},
		Dashboard: DashboardConfig{
			PageSize:          100,
			LastEventsLimit:   3,
			DetailEventsLimit: 20,
			StripWindow:       20,
		},
		Events: EventsConfig{
			PageSize: 100,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}
