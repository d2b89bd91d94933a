// Package auth implements Spotify's Authorization Code flow with PKCE.
package auth

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// SpotifyAuthURL is the Spotify authorization endpoint.
	SpotifyAuthURL = "https://accounts.spotify.com/authorize"

	// SpotifyTokenURL is the Spotify token endpoint.
	SpotifyTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultRedirectURI is the loopback callback registered for tempo.
	DefaultRedirectURI = "http://127.0.0.1:8888/callback"
)

// DefaultScopes cover playback control, the library and top items.
var DefaultScopes = []string{
	"user-read-private",
	"user-read-email",
	"streaming",
	"app-remote-control",
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"user-read-recently-played",
	"user-top-read",
	"user-library-read",
	"user-library-modify",
	"playlist-read-private",
	"playlist-read-collaborative",
	"playlist-modify-public",
	"playlist-modify-private",
}

// Config holds the OAuth client settings.
type Config struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
}

// NewConfig creates an OAuth configuration with the default redirect and scopes.
func NewConfig(clientID string) *Config {
	return &Config{
		ClientID:    clientID,
		RedirectURI: DefaultRedirectURI,
		Scopes:      DefaultScopes,
	}
}

// AuthURL builds the authorization URL the user opens in a browser.
func (c *Config) AuthURL(pkce *PKCE) string {
	u, _ := url.Parse(SpotifyAuthURL)

	q := u.Query()
	q.Set("client_id", c.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.RedirectURI)
	q.Set("code_challenge_method", ChallengeMethod)
	q.Set("code_challenge", pkce.Challenge)
	q.Set("state", pkce.State)
	if len(c.Scopes) > 0 {
		q.Set("scope", strings.Join(c.Scopes, " "))
	}

	u.RawQuery = q.Encode()
	return u.String()
}

// CallbackAddr returns the port and path the loopback server must serve.
func (c *Config) CallbackAddr() (port int, path string, err error) {
	u, err := url.Parse(c.RedirectURI)
	if err != nil {
		return 0, "", fmt.Errorf("invalid redirect uri: %w", err)
	}
	port, err = strconv.Atoi(u.Port())
	if err != nil {
		return 0, "", fmt.Errorf("redirect uri %q has no port", c.RedirectURI)
	}
	path = u.Path
	if path == "" {
		path = "/"
	}
	return port, path, nil
}
