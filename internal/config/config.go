package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.temporc, $XDG_CONFIG_HOME/tempo/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	if path := findConfigFile(); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	finish(cfg)
	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	finish(cfg)
	return cfg, nil
}

func finish(cfg *Config) {
	loadDotEnv()
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
}

// Dir returns tempo's configuration directory.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, "tempo")
}

// DefaultPath is where 'config init' writes a new file.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// findConfigFile returns the first existing config file path.
// Path returns the config file in use, or DefaultPath when none exists yet.
func Path() string {
	if p := findConfigFile(); p != "" {
		return p
	}
	return DefaultPath()
}

func findConfigFile() string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".temporc"))
	}
	paths = append(paths, DefaultPath())

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// loadDotEnv reads .env files from the working directory and the config
// directory. Variables already set in the environment win.
func loadDotEnv() {
	for _, p := range []string{".env", filepath.Join(Dir(), ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// applyEnvOverrides applies TEMPO_* environment variables to the config.
func applyEnvOverrides(cfg *Config) {
	envString("TEMPO_SPOTIFY_CLIENT_ID", &cfg.Spotify.ClientID)
	envString("TEMPO_SPOTIFY_REDIRECT_URI", &cfg.Spotify.RedirectURI)
	envString("TEMPO_SPOTIFY_MARKET", &cfg.Spotify.Market)

	envString("TEMPO_DEFAULTS_DEVICE", &cfg.Defaults.Device)
	envInt("TEMPO_DEFAULTS_VOLUME", &cfg.Defaults.Volume)

	envInt("TEMPO_PLAYBACK_POLL_INTERVAL", &cfg.Playback.PollInterval)
	envInt("TEMPO_PLAYBACK_SETTLE_TIMEOUT", &cfg.Playback.SettleTimeout)

	envString("TEMPO_CATALOG_YOUTUBE", &cfg.Catalog.YouTube)
	envString("TEMPO_CATALOG_LIVE", &cfg.Catalog.Live)
	envString("TEMPO_CATALOG_ZEN", &cfg.Catalog.Zen)

	envString("TEMPO_LYRICS_BASE_URL", &cfg.Lyrics.BaseURL)

	envBool("TEMPO_HISTORY_DISABLED", &cfg.History.Disabled)
	envString("TEMPO_HISTORY_PATH", &cfg.History.Path)

	envString("TEMPO_TUI_THEME", &cfg.TUI.Theme)
	envInt("TEMPO_TUI_REFRESH_INTERVAL", &cfg.TUI.RefreshInterval)

	envString("TEMPO_LOG_LEVEL", &cfg.Log.Level)
	envString("TEMPO_LOG_FILE", &cfg.Log.File)
}

const fileHeader = "# tempo configuration\n\n"

// Save writes cfg to path as TOML, creating parent directories.
func Save(path string, cfg *Config) error {
	return writeTOML(path, cfg)
}

func writeTOML(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(fileHeader); err != nil {
		return err
	}
	enc := toml.NewEncoder(f)
	enc.Indent = "  "
	return enc.Encode(v)
}

var intKeys = map[string]bool{
	"defaults.volume":           true,
	"playback.poll_interval":    true,
	"playback.settle_timeout":   true,
	"playback.repeat_off_delay": true,
	"library.page_size":         true,
	"zen.repeat_delay":          true,
	"tail.interval":             true,
	"tui.refresh_interval":      true,
	"api.burst":                 true,
}

var boolKeys = map[string]bool{
	"defaults.shuffle": true,
	"history.disabled": true,
}

// SetValue updates a single "section.key" entry in the file at path,
// preserving the other values already there.
func SetValue(path, key, value string) error {
	section, field, ok := strings.Cut(key, ".")
	if !ok || section == "" || field == "" || strings.Contains(field, ".") {
		return fmt.Errorf("invalid key %q: use section.key (e.g. defaults.device)", key)
	}

	raw := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	var typed any = value
	switch {
	case intKeys[key]:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("value must be an integer for %s", key)
		}
		typed = i
	case boolKeys[key]:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("value must be true or false for %s", key)
		}
		typed = b
	case key == "api.rate_limit":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("value must be a number for %s", key)
		}
		typed = f
	}

	sec, ok := raw[section].(map[string]any)
	if !ok {
		sec = map[string]any{}
		raw[section] = sec
	}
	sec[field] = typed

	return writeTOML(path, raw)
}
