package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultLyricsURL is where synced lyric files are fetched from.
const DefaultLyricsURL = "https://raw.githubusercontent.com/luffytaroOnePiece/lyrics/main"

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURI: "http://127.0.0.1:8888/callback",
		},
		API: APIConfig{
			RateLimit: 10,
			Burst:     5,
		},
		Defaults: DefaultsConfig{
			Volume: 50,
			Repeat: "off",
		},
		Playback: PlaybackConfig{
			PollInterval:   1000,
			SettleTimeout:  1500,
			RepeatOffDelay: 1000,
		},
		Library: LibraryConfig{
			PageSize: 50,
			Sort:     "default",
		},
		Lyrics: LyricsConfig{
			BaseURL: DefaultLyricsURL,
		},
		Zen: ZenConfig{
			RepeatDelay: 500,
		},
		Tail: TailConfig{
			Interval: 1000,
		},
		TUI: TUIConfig{
			Theme:           "mocha",
			RefreshInterval: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = d.Spotify.RedirectURI
	}

	if c.API.RateLimit == 0 {
		c.API.RateLimit = d.API.RateLimit
	}
	if c.API.Burst == 0 {
		c.API.Burst = d.API.Burst
	}

	if c.Defaults.Volume == 0 {
		c.Defaults.Volume = d.Defaults.Volume
	}
	if c.Defaults.Repeat == "" {
		c.Defaults.Repeat = d.Defaults.Repeat
	}

	if c.Playback.PollInterval == 0 {
		c.Playback.PollInterval = d.Playback.PollInterval
	}
	if c.Playback.SettleTimeout == 0 {
		c.Playback.SettleTimeout = d.Playback.SettleTimeout
	}
	if c.Playback.RepeatOffDelay == 0 {
		c.Playback.RepeatOffDelay = d.Playback.RepeatOffDelay
	}

	if c.Library.PageSize == 0 {
		c.Library.PageSize = d.Library.PageSize
	}
	if c.Library.Sort == "" {
		c.Library.Sort = d.Library.Sort
	}

	if c.Lyrics.BaseURL == "" {
		c.Lyrics.BaseURL = d.Lyrics.BaseURL
	}
	if c.Lyrics.CacheDir == "" {
		c.Lyrics.CacheDir = filepath.Join(xdg.CacheHome, "tempo", "lyrics")
	}

	if c.Zen.RepeatDelay == 0 {
		c.Zen.RepeatDelay = d.Zen.RepeatDelay
	}

	if c.History.Path == "" {
		c.History.Path = filepath.Join(xdg.StateHome, "tempo", "history.db")
	}

	if c.Tail.Interval == 0 {
		c.Tail.Interval = d.Tail.Interval
	}

	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// DashboardLogFile is where the dashboard logs when no log file is configured.
func DashboardLogFile() string {
	return filepath.Join(xdg.StateHome, "tempo", "tempo.log")
}
