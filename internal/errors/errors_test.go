package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"sentinel", fmt.Errorf("play: %w", ErrNoActiveDevice), "Open Spotify"},
		{"session", ErrSessionExpired, "tempo auth login"},
		{"string match", errors.New("refresh failed: invalid_grant"), "tempo auth login"},
		{"rate", errors.New("spotify api error (429): slow down"), "Too many requests"},
		{"server", errors.New("server error (503)"), "Spotify is having issues"},
		{"explicit", WithSuggestion(errors.New("boom"), "do the thing"), "do the thing"},
		{"unknown", errors.New("something odd"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSuggestion(tt.err)
			if tt.want == "" && got != "" {
				t.Errorf("GetSuggestion() = %q, want empty", got)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("GetSuggestion() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestWithSuggestionUnwraps(t *testing.T) {
	err := WithSuggestion(ErrDeviceNotFound, "hint")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Error("errors.Is should see through TempoError")
	}
	if WithSuggestion(nil, "hint") != nil {
		t.Error("WithSuggestion(nil) should be nil")
	}
}

func TestFormat(t *testing.T) {
	got := Format(ErrRateLimited)
	if !strings.HasPrefix(got, "Error: rate limited") || !strings.Contains(got, "Suggestion:") {
		t.Errorf("Format() = %q", got)
	}
	if got := Format(errors.New("plain")); got != "Error: plain" {
		t.Errorf("Format() = %q, want %q", got, "Error: plain")
	}
}

func TestPartialResult(t *testing.T) {
	var p PartialResult[[]bool]
	p.AddError(nil)
	if p.HasErrors() || p.Err() != nil {
		t.Fatal("nil error should not be recorded")
	}
	p.AddError(errors.New("a"))
	if got := p.ErrorSummary(); got != "a" {
		t.Errorf("ErrorSummary() = %q, want %q", got, "a")
	}
	p.AddError(errors.New("b"))
	if got := p.ErrorSummary(); !strings.HasPrefix(got, "2 errors occurred") {
		t.Errorf("ErrorSummary() = %q", got)
	}
}
