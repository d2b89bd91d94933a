package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

// Themes are the palettes the dashboard knows.
var Themes = []string{"auto", "latte", "frappe", "macchiato", "mocha"}

// SortOrders are the accepted library sort orders.
var SortOrders = []string{"default", "title", "artist", "album", "duration", "added"}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	add := func(section string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", section, err))
		}
	}

	add("spotify", c.Spotify.Validate())
	add("api", c.API.Validate())
	add("defaults", c.Defaults.Validate())
	add("playback", c.Playback.Validate())
	add("library", c.Library.Validate())
	add("lyrics", c.Lyrics.Validate())
	add("zen", c.Zen.Validate())
	add("tail", c.Tail.Validate())
	add("tui", c.TUI.Validate())
	add("log", c.Log.Validate())

	return errors.Join(errs...)
}

// Validate checks SpotifyConfig for errors.
func (c *SpotifyConfig) Validate() error {
	if c.RedirectURI == "" {
		return nil
	}
	u, err := url.Parse(c.RedirectURI)
	if err != nil {
		return fmt.Errorf("invalid redirect_uri: %w", err)
	}
	if u.Scheme != "http" || u.Port() == "" {
		return fmt.Errorf("redirect_uri must be an http loopback URL with a port, got %q", c.RedirectURI)
	}
	return nil
}

// Validate checks APIConfig for errors.
func (c *APIConfig) Validate() error {
	if c.RateLimit < 0 {
		return errors.New("rate_limit must be non-negative")
	}
	if c.Burst < 0 {
		return errors.New("burst must be non-negative")
	}
	return nil
}

// Validate checks DefaultsConfig for errors.
func (c *DefaultsConfig) Validate() error {
	if c.Volume < 0 || c.Volume > 100 {
		return errors.New("volume must be between 0 and 100")
	}
	switch c.Repeat {
	case "", "off", "track", "context":
	default:
		return fmt.Errorf("invalid repeat mode: %s (must be off, track, or context)", c.Repeat)
	}
	return nil
}

// Validate checks PlaybackConfig for errors.
func (c *PlaybackConfig) Validate() error {
	if c.PollInterval < 0 || c.SettleTimeout < 0 || c.RepeatOffDelay < 0 {
		return errors.New("intervals must be non-negative")
	}
	if c.PollInterval > 0 && c.PollInterval < 250 {
		return errors.New("poll_interval must be at least 250ms")
	}
	return nil
}

// Validate checks LibraryConfig for errors.
func (c *LibraryConfig) Validate() error {
	if c.PageSize < 0 || c.PageSize > 50 {
		return errors.New("page_size must be between 1 and 50")
	}
	if c.Sort != "" && !slices.Contains(SortOrders, c.Sort) {
		return fmt.Errorf("invalid sort: %s", c.Sort)
	}
	return nil
}

// Validate checks LyricsConfig for errors.
func (c *LyricsConfig) Validate() error {
	if c.BaseURL == "" {
		return nil
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	return nil
}

// Validate checks ZenConfig for errors.
func (c *ZenConfig) Validate() error {
	if c.RepeatDelay < 0 {
		return errors.New("repeat_delay must be non-negative")
	}
	return nil
}

// Validate checks TailConfig for errors.
func (c *TailConfig) Validate() error {
	if c.Interval < 0 {
		return errors.New("interval must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	if c.Theme != "" && !slices.Contains(Themes, c.Theme) {
		return fmt.Errorf("invalid theme: %s (must be one of %v)", c.Theme, Themes)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
