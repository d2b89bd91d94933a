package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/spotify/auth"
)

// newTestClient returns a client authenticated against srv with a valid token.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *auth.TokenStorage) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	storage, _ := auth.NewTokenStorage(filepath.Join(t.TempDir(), "token.json"))
	base := []Option{
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRateLimit(0, 0),
		WithRetryWait(time.Millisecond),
	}
	c := New("client", storage, append(base, opts...)...)
	if err := c.SetToken(&auth.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	return c, storage
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		params map[string]string
		want   string
	}{
		{"no params", "/me", nil, "/me"},
		{"empty params", "/me", map[string]string{}, "/me"},
		{"single param", "/search", map[string]string{"q": "test"}, "/search?q=test"},
		{"sorted params", "/search", map[string]string{"type": "track", "q": "a b"}, "/search?q=a+b&type=track"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildURL(tt.path, tt.params); got != tt.want {
				t.Errorf("BuildURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIErrorHelpers(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", parseAPIError(404, []byte(`{"error":{"status":404,"message":"Player command failed: No active device found"}}`)))
	if !IsNoActiveDeviceError(err) {
		t.Error("IsNoActiveDeviceError() = false for wrapped 404")
	}
	if IsAlreadyPlayingError(err) {
		t.Error("IsAlreadyPlayingError() = true for 404")
	}
	if !strings.Contains(err.Error(), "No active device") {
		t.Errorf("Error() = %q", err)
	}

	plain := parseAPIError(502, []byte("<html>bad gateway</html>"))
	if got := plain.Error(); got != "spotify api error (502): Bad Gateway" {
		t.Errorf("Error() = %q", got)
	}
}

func TestRequestSendsBearerToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer access" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/me" {
			t.Errorf("path = %q, want /me", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(User{ID: "u1", DisplayName: "Luffy"})
	})

	user, err := c.GetCurrentUser(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if user.DisplayName != "Luffy" {
		t.Errorf("DisplayName = %q, want %q", user.DisplayName, "Luffy")
	}
}

func TestRequestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.Pause(context.Background(), ""); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestRequestGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.Next(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), "after 3 retries") {
		t.Fatalf("Next() error = %v", err)
	}
	if got := calls.Load(); got != maxRetries+1 {
		t.Errorf("calls = %d, want %d", got, maxRetries+1)
	}
}

func TestRequestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"status":403,"message":"Restriction violated"}}`)
	})

	err := c.Play(context.Background(), "", nil)
	if !IsAlreadyPlayingError(err) {
		t.Fatalf("Play() error = %v, want 403", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestRequestHonoursRetryAfter(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	start := time.Now()
	if err := c.Previous(context.Background(), ""); err != nil {
		t.Fatalf("Previous() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 900*time.Millisecond {
		t.Errorf("retried after %v, want about 1s", elapsed)
	}
}

func TestRequestRefreshesOn401(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"fresh","expires_in":3600}`)
	}))
	defer tokenSrv.Close()

	c, storage := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":{"status":401,"message":"The access token expired"}}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}, WithTokenEndpoint(&auth.TokenEndpoint{URL: tokenSrv.URL}))

	if err := c.Pause(context.Background(), ""); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	saved, _ := storage.Load()
	if saved.AccessToken != "fresh" || saved.RefreshToken != "refresh" {
		t.Errorf("stored token = %+v", saved)
	}
}

func TestInvalidGrantLogsOut(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid_grant","error_description":"Refresh token revoked"}`)
	}))
	defer tokenSrv.Close()

	c, storage := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("API should not be called with an expired session")
	}, WithTokenEndpoint(&auth.TokenEndpoint{URL: tokenSrv.URL}))
	_ = c.SetToken(&auth.Token{AccessToken: "old", RefreshToken: "revoked", ExpiresAt: time.Now().Add(-time.Hour)})

	_, err := c.GetDevices(context.Background())
	if !errors.Is(err, tempoerrors.ErrSessionExpired) {
		t.Fatalf("GetDevices() error = %v, want ErrSessionExpired", err)
	}
	if c.HasToken() || storage.Exists() {
		t.Error("session should be cleared after invalid_grant")
	}
}

func TestNoTokenIsNotAuthenticated(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if err := c.Logout(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetCurrentUser(context.Background()); !errors.Is(err, tempoerrors.ErrNotAuthenticated) {
		t.Errorf("error = %v, want ErrNotAuthenticated", err)
	}
}

func TestPlayBodies(t *testing.T) {
	tests := []struct {
		name string
		opts *PlayOptions
		want string
	}{
		{"resume", nil, `{}`},
		{"uris at zero", &PlayOptions{URIs: []string{"spotify:track:a", "spotify:track:b"}, Offset: AtPosition(0)},
			`{"uris":["spotify:track:a","spotify:track:b"],"offset":{"position":0}}`},
		{"single", &PlayOptions{URIs: []string{"spotify:track:a"}}, `{"uris":["spotify:track:a"]}`},
		{"context at uri", &PlayOptions{ContextURI: "spotify:album:x", Offset: AtURI("spotify:track:a")},
			`{"context_uri":"spotify:album:x","offset":{"uri":"spotify:track:a"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("device_id") != "dev" {
					t.Errorf("device_id = %q", r.URL.Query().Get("device_id"))
				}
				body, _ := io.ReadAll(r.Body)
				if got := strings.TrimSpace(string(body)); got != tt.want {
					t.Errorf("body = %s, want %s", got, tt.want)
				}
				w.WriteHeader(http.StatusNoContent)
			})
			if err := c.Play(context.Background(), "dev", tt.opts); err != nil {
				t.Fatalf("Play() error = %v", err)
			}
		})
	}
}

func TestGetCurrentUserIsCached(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(User{ID: "u1", DisplayName: "Nami"})
	})

	for i := 0; i < 3; i++ {
		u, err := c.GetCurrentUser(context.Background())
		if err != nil || u.ID != "u1" {
			t.Fatalf("GetCurrentUser() = %v, %v", u, err)
		}
		u.DisplayName = "changed"
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("profile fetched %d times, want 1", got)
	}

	_ = c.SetToken(&auth.Token{AccessToken: "other", ExpiresAt: time.Now().Add(time.Hour)})
	if u, _ := c.GetCurrentUser(context.Background()); u.DisplayName != "Nami" || calls.Load() != 2 {
		t.Errorf("a new token should refetch the profile, calls = %d", calls.Load())
	}
}

func TestSearchParams(t *testing.T) {
	p := SearchOptions{
		Query:  " zoro ",
		Types:  []SearchType{SearchTypeAlbum, SearchTypeTrack, SearchTypeAlbum},
		Limit:  200,
		Offset: 5000,
		Market: "JP",
	}.params()

	want := map[string]string{
		"q":      "zoro",
		"type":   "album,track",
		"limit":  "50",
		"offset": "1000",
		"market": "JP",
	}
	for k, v := range want {
		if p[k] != v {
			t.Errorf("%s = %q, want %q", k, p[k], v)
		}
	}
}

func TestGetRecentlyPlayedCapsLimit(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit = %q, want 50", got)
		}
		fmt.Fprint(w, `{"items":[]}`)
	})
	if _, err := c.GetRecentlyPlayed(context.Background(), 500); err != nil {
		t.Fatalf("GetRecentlyPlayed() error = %v", err)
	}
}

func TestGetPlaybackStateIdle(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	state, err := c.GetPlaybackState(context.Background())
	if err != nil || state != nil {
		t.Errorf("GetPlaybackState() = %v, %v, want nil, nil", state, err)
	}
}

func TestSearchDefaults(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") != "track" || q.Get("limit") != "20" || q.Get("q") != "one piece" {
			t.Errorf("query = %v", q)
		}
		fmt.Fprint(w, `{"tracks":{"items":[{"id":"1","name":"We Are!"}],"total":1}}`)
	})

	if _, err := c.Search(context.Background(), SearchOptions{Query: "  "}); err == nil {
		t.Error("Search() with blank query should fail")
	}
	resp, err := c.Search(context.Background(), SearchOptions{Query: "one piece"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Tracks.Items) != 1 || resp.Tracks.Items[0].Name != "We Are!" {
		t.Errorf("Search() = %+v", resp.Tracks)
	}
}
