package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/uptimestars/starsctl/internal/errors"
)

// MinPollInterval is the fastest refresh a live view may request.
const MinPollInterval = time.Second

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"console": true, "json": true}
	validColors     = map[string]bool{"auto": true, "always": true, "never": true}
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but starsctl only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest starsctl release.")
	}

	if err := validateAPI(cfg.API); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'api' section in your config.")
	}

	if cfg.Poll.Interval < MinPollInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("poll.interval %s is too short", cfg.Poll.Interval),
			fmt.Sprintf("Use at least %s so the backend isn't hammered.", MinPollInterval))
	}

	if cfg.Cache.StaleTime < 0 {
		return errors.New(errors.ErrConfig,
			"cache.stale_time can't be negative",
			"Use 0s to always revalidate, or a positive duration like 10s.")
	}

	if err := validateSizes(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Sizes and limits must be at least 1.")
	}

	if err := validateLog(cfg.Log); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'log' section in your config.")
	}

	if !validColors[cfg.Output.Color] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown output.color '%s'", cfg.Output.Color),
			"Use one of: auto, always, never.")
	}

	return nil
}

func validateAPI(api APIConfig) error {
	if api.BaseURL == "" {
		return fmt.Errorf("api.base_url is empty")
	}
	u, err := url.Parse(api.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url '%s' isn't a valid URL: %v", api.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url '%s' must use http or https", api.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url '%s' has no host", api.BaseURL)
	}
	if api.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", api.Timeout)
	}
	if api.ExportTimeout <= 0 {
		return fmt.Errorf("api.export_timeout must be positive, got %s", api.ExportTimeout)
	}
	return nil
}

func validateSizes(cfg *Config) error {
	checks := []struct {
		key   string
		value int
	}{
		{"dashboard.page_size", cfg.Dashboard.PageSize},
		{"dashboard.last_events_limit", cfg.Dashboard.LastEventsLimit},
		{"dashboard.detail_events_limit", cfg.Dashboard.DetailEventsLimit},
		{"dashboard.strip_window", cfg.Dashboard.StripWindow},
		{"events.page_size", cfg.Events.PageSize},
	}
	for _, c := range checks {
		if c.value < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", c.key, c.value)
		}
	}
	return nil
}

func validateLog(l LogConfig) error {
	if !validLogLevels[l.Level] {
		return fmt.Errorf("unknown log.level '%s' (use debug, info, warn, or error)", l.Level)
	}
	if !validLogFormats[l.Format] {
		return fmt.Errorf("unknown log.format '%s' (use console or json)", l.Format)
	}
	return nil
}
