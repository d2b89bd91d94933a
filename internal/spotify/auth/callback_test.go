package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func hitCallback(t *testing.T, port int, query string) {
	t.Helper()
	go func() {
		time.Sleep(20 * time.Millisecond)
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/callback?%s", port, query))
		if err != nil {
			t.Errorf("callback request failed: %v", err)
			return
		}
		_ = resp.Body.Close()
	}()
}

func TestCallbackServer(t *testing.T) {
	server, err := NewCallbackServer(0, "/callback")
	if err != nil {
		t.Fatalf("NewCallbackServer() error = %v", err)
	}
	server.Start()
	defer func() { _ = server.Shutdown(context.Background()) }()

	hitCallback(t, server.Port(), "code=abc&state=xyz")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result, err := server.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if result.Code != "abc" || result.State != "xyz" || result.Error != "" {
		t.Errorf("Wait() = %+v", result)
	}
	if err := result.Check("xyz"); err != nil {
		t.Errorf("Check() error = %v", err)
	}
}

func TestCallbackServerTimeout(t *testing.T) {
	server, err := NewCallbackServer(0, "/callback")
	if err != nil {
		t.Fatalf("NewCallbackServer() error = %v", err)
	}
	server.Start()
	defer func() { _ = server.Shutdown(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if _, err := server.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want deadline exceeded", err)
	}
}

func TestCallbackResultCheck(t *testing.T) {
	tests := []struct {
		name   string
		result CallbackResult
		want   string
	}{
		{"ok", CallbackResult{Code: "c", State: "s"}, ""},
		{"denied", CallbackResult{Error: "access_denied", State: "s"}, "authorization denied: access_denied"},
		{"mismatch", CallbackResult{Code: "c", State: "other"}, ErrStateMismatch.Error()},
		{"no code", CallbackResult{State: "s"}, "callback carried no authorization code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Check("s")
			got := ""
			if err != nil {
				got = err.Error()
			}
			if got != tt.want {
				t.Errorf("Check() = %q, want %q", got, tt.want)
			}
		})
	}
}
