package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Spotify  SpotifyConfig  `toml:"spotify" json:"spotify"`
	API      APIConfig      `toml:"api" json:"api"`
	Defaults DefaultsConfig `toml:"defaults" json:"defaults"`
	Playback PlaybackConfig `toml:"playback" json:"playback"`
	Library  LibraryConfig  `toml:"library" json:"library"`
	Catalog  CatalogConfig  `toml:"catalog" json:"catalog"`
	Lyrics   LyricsConfig   `toml:"lyrics" json:"lyrics"`
	Zen      ZenConfig      `toml:"zen" json:"zen"`
	History  HistoryConfig  `toml:"history" json:"history"`
	Tail     TailConfig     `toml:"tail" json:"tail"`
	TUI      TUIConfig      `toml:"tui" json:"tui"`
	Log      LogConfig      `toml:"log" json:"log"`
}

// SpotifyConfig holds Spotify API settings.
type SpotifyConfig struct {
	ClientID    string `toml:"client_id" json:"client_id"`
	RedirectURI string `toml:"redirect_uri" json:"redirect_uri"`
	Market      string `toml:"market" json:"market,omitempty"`
}

// APIConfig controls request pacing against the Web API.
type APIConfig struct {
	RateLimit float64 `toml:"rate_limit" json:"rate_limit"`
	Burst     int     `toml:"burst" json:"burst"`
}

// DefaultsConfig holds default playback settings.
type DefaultsConfig struct {
	Volume  int    `toml:"volume" json:"volume"`
	Shuffle bool   `toml:"shuffle" json:"shuffle"`
	Repeat  string `toml:"repeat" json:"repeat"`
	Device  string `toml:"device" json:"device,omitempty"`
}

// PlaybackConfig tunes the playback synchronizer. Values are milliseconds.
type PlaybackConfig struct {
	PollInterval   int `toml:"poll_interval" json:"poll_interval"`
	SettleTimeout  int `toml:"settle_timeout" json:"settle_timeout"`
	RepeatOffDelay int `toml:"repeat_off_delay" json:"repeat_off_delay"`
}

// LibraryConfig holds library browsing settings.
type LibraryConfig struct {
	PageSize int    `toml:"page_size" json:"page_size"`
	Sort     string `toml:"sort" json:"sort"`
}

// CatalogConfig points at the YouTube, live and zen catalogue files.
type CatalogConfig struct {
	YouTube string `toml:"youtube" json:"youtube,omitempty"`
	Live    string `toml:"live" json:"live,omitempty"`
	Zen     string `toml:"zen" json:"zen,omitempty"`
}

// LyricsConfig holds synced lyrics settings.
type LyricsConfig struct {
	BaseURL  string `toml:"base_url" json:"base_url"`
	CacheDir string `toml:"cache_dir" json:"cache_dir,omitempty"`
}

// ZenConfig holds zen mode settings.
type ZenConfig struct {
	RepeatDelay int `toml:"repeat_delay" json:"repeat_delay"`
}

// HistoryConfig holds local listening history settings.
type HistoryConfig struct {
	Disabled bool   `toml:"disabled" json:"disabled"`
	Path     string `toml:"path" json:"path,omitempty"`
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Interval int `toml:"interval" json:"interval"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme" json:"theme"`
	RefreshInterval int    `toml:"refresh_interval" json:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file,omitempty"`
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Poll returns the remote poll interval.
func (c PlaybackConfig) Poll() time.Duration { return ms(c.PollInterval) }

// Settle returns how long local commands suppress contradicting remote state.
func (c PlaybackConfig) Settle() time.Duration { return ms(c.SettleTimeout) }

// RepeatOff returns the delay before repeat is forced off after queue playback.
func (c PlaybackConfig) RepeatOff() time.Duration { return ms(c.RepeatOffDelay) }

// Delay returns the delay before zen mode turns on track repeat.
func (c ZenConfig) Delay() time.Duration { return ms(c.RepeatDelay) }

// Every returns the tail poll interval.
func (c TailConfig) Every() time.Duration { return ms(c.Interval) }

// Refresh returns the dashboard refresh interval.
func (c TUIConfig) Refresh() time.Duration { return ms(c.RefreshInterval) }
