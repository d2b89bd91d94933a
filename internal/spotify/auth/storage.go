package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultTokenFileName is the token file name inside tempo's config dir.
const DefaultTokenFileName = "spotify_token.json"

// TokenFileEnv overrides where the token is kept.
const TokenFileEnv = "TEMPO_TOKEN_FILE"

// TokenStorage keeps the token in a JSON file only its owner can read.
type TokenStorage struct {
	path string
}

// NewTokenStorage stores tokens at path. An empty path falls back to
// $TEMPO_TOKEN_FILE, then to $XDG_CONFIG_HOME/tempo/spotify_token.json.
func NewTokenStorage(path string) (*TokenStorage, error) {
	if path == "" {
		path = os.Getenv(TokenFileEnv)
	}
	if path == "" {
		path = filepath.Join(xdg.ConfigHome, "tempo", DefaultTokenFileName)
	}
	return &TokenStorage{path: path}, nil
}

// Save replaces the stored token. The file is written beside the old one and
// renamed over it, so a crash never leaves half a token behind.
func (s *TokenStorage) Save(token *Token) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Load reads the stored token. It returns nil, nil when none is stored.
func (s *TokenStorage) Load() (*Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", s.path, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token file %s has no access token", s.path)
	}
	return &token, nil
}

// Delete removes the stored token. Deleting a missing token is not an error.
func (s *TokenStorage) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete token file: %w", err)
	}
	return nil
}

// Exists reports whether a token file is present.
func (s *TokenStorage) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the token file path.
func (s *TokenStorage) Path() string {
	return s.path
}
