package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()
	return port
}

func TestLogin(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("code") != "granted" {
			t.Errorf("code = %q", r.PostForm.Get("code"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"a","refresh_token":"r","expires_in":3600}`)
	}))
	defer tokenSrv.Close()

	cfg := NewConfig("client")
	cfg.RedirectURI = fmt.Sprintf("http://127.0.0.1:%d/callback", freePort(t))
	storage, _ := NewTokenStorage(filepath.Join(t.TempDir(), "token.json"))

	// the "browser" follows the redirect with the state it was given
	open := func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		state := u.Query().Get("state")
		go func() {
			resp, err := http.Get(cfg.RedirectURI + "?code=granted&state=" + state)
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tok, err := Login(ctx, cfg, &TokenEndpoint{URL: tokenSrv.URL}, storage, open)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if tok.AccessToken != "a" {
		t.Errorf("AccessToken = %q, want %q", tok.AccessToken, "a")
	}
	if !storage.Exists() {
		t.Error("Login() did not save the token")
	}
}
