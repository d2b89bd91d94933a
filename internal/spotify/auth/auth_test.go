package auth

import (
	"net/url"
	"strings"
	"testing"
)

func TestAuthURL(t *testing.T) {
	cfg := &Config{
		ClientID:    "client",
		RedirectURI: "http://127.0.0.1:8888/callback",
		Scopes:      []string{"user-read-private", "user-library-read"},
	}
	pkce := &PKCE{Verifier: "v", Challenge: "challenge", State: "state"}

	u, err := url.Parse(cfg.AuthURL(pkce))
	if err != nil {
		t.Fatalf("AuthURL() produced invalid URL: %v", err)
	}
	if got := u.Scheme + "://" + u.Host + u.Path; got != SpotifyAuthURL {
		t.Errorf("AuthURL() base = %q, want %q", got, SpotifyAuthURL)
	}

	q := u.Query()
	tests := []struct {
		param string
		want  string
	}{
		{"client_id", "client"},
		{"response_type", "code"},
		{"redirect_uri", "http://127.0.0.1:8888/callback"},
		{"code_challenge_method", "S256"},
		{"code_challenge", "challenge"},
		{"state", "state"},
		{"scope", "user-read-private user-library-read"},
	}
	for _, tt := range tests {
		if got := q.Get(tt.param); got != tt.want {
			t.Errorf("AuthURL() %s = %q, want %q", tt.param, got, tt.want)
		}
	}
}

func TestAuthURLNoScopes(t *testing.T) {
	cfg := &Config{ClientID: "c", RedirectURI: DefaultRedirectURI}
	u, _ := url.Parse(cfg.AuthURL(&PKCE{}))
	if _, ok := u.Query()["scope"]; ok {
		t.Error("AuthURL() without scopes should omit scope")
	}
}

func TestNewConfigScopes(t *testing.T) {
	cfg := NewConfig("id")
	if cfg.RedirectURI != DefaultRedirectURI {
		t.Errorf("RedirectURI = %q, want %q", cfg.RedirectURI, DefaultRedirectURI)
	}
	joined := strings.Join(cfg.Scopes, " ")
	for _, want := range []string{"user-library-modify", "user-top-read", "playlist-read-private", "streaming"} {
		if !strings.Contains(joined, want) {
			t.Errorf("default scopes missing %q", want)
		}
	}
}

func TestCallbackAddr(t *testing.T) {
	tests := []struct {
		uri     string
		port    int
		path    string
		wantErr bool
	}{
		{"http://127.0.0.1:8888/callback", 8888, "/callback", false},
		{"http://localhost:9000", 9000, "/", false},
		{"http://localhost/callback", 0, "", true},
		{"://bad", 0, "", true},
	}
	for _, tt := range tests {
		port, path, err := (&Config{RedirectURI: tt.uri}).CallbackAddr()
		if (err != nil) != tt.wantErr {
			t.Errorf("CallbackAddr(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			continue
		}
		if port != tt.port || path != tt.path {
			t.Errorf("CallbackAddr(%q) = %d, %q, want %d, %q", tt.uri, port, path, tt.port, tt.path)
		}
	}
}
