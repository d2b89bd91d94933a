// Package errors defines tempo's error sentinels and user-facing hints.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for failures the CLI and dashboard know how to explain.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired")
	ErrNoActiveDevice   = errors.New("no active device")
	ErrDeviceNotFound   = errors.New("device not found")
	ErrTrackNotFound    = errors.New("track not found")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrPremiumRequired  = errors.New("spotify premium required")
	ErrRateLimited      = errors.New("rate limited")
	ErrNetworkError     = errors.New("network error")
	ErrTimeout          = errors.New("request timeout")
	ErrConfigNotFound   = errors.New("config file not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrCatalogMissing   = errors.New("catalog not configured")
	ErrNoLyrics         = errors.New("no lyrics available")
)

// TempoError attaches a hint for the user to an error.
type TempoError struct {
	Err        error
	Suggestion string
}

func (e *TempoError) Error() string {
	return e.Err.Error()
}

func (e *TempoError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps err with a hint shown below the error message.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &TempoError{Err: err, Suggestion: suggestion}
}

type hint struct {
	sentinels []error
	substr    []string
	text      string
}

var hints = []hint{
	{
		sentinels: []error{ErrNotAuthenticated, ErrSessionExpired},
		substr:    []string{"not authenticated", "invalid access token", "token expired", "invalid_grant"},
		text:      "Run 'tempo auth login' to authenticate with Spotify",
	},
	{
		sentinels: []error{ErrNoActiveDevice},
		substr:    []string{"no active device"},
		text:      "Open Spotify on a device and start playing, or use --device to pick one",
	},
	{
		sentinels: []error{ErrDeviceNotFound},
		substr:    []string{"device not found"},
		text:      "Run 'tempo devices' to see available devices",
	},
	{
		sentinels: []error{ErrPremiumRequired},
		substr:    []string{"premium required", "restricted device"},
		text:      "Playback control requires Spotify Premium",
	},
	{
		sentinels: []error{ErrRateLimited},
		substr:    []string{"rate limit", "429"},
		text:      "Too many requests. Wait a moment and try again",
	},
	{
		sentinels: []error{ErrNetworkError, ErrTimeout},
		substr:    []string{"network", "timeout", "connection refused", "no such host"},
		text:      "Check your internet connection and try again",
	},
	{
		sentinels: []error{ErrCatalogMissing},
		substr:    []string{"catalog not configured"},
		text:      "Set the catalog paths in your config with 'tempo config edit'",
	},
	{
		sentinels: []error{ErrConfigNotFound, ErrInvalidConfig},
		substr:    []string{"config"},
		text:      "Run 'tempo config init' to create a configuration file",
	},
	{
		substr: []string{"500", "502", "503", "server error"},
		text:   "Spotify is having issues. Try again in a moment",
	},
}

// GetSuggestion returns a hint for err, or "" when none applies.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var te *TempoError
	if errors.As(err, &te) && te.Suggestion != "" {
		return te.Suggestion
	}

	msg := strings.ToLower(err.Error())
	for _, h := range hints {
		for _, s := range h.sentinels {
			if errors.Is(err, s) {
				return h.text
			}
		}
		for _, sub := range h.substr {
			if strings.Contains(msg, sub) {
				return h.text
			}
		}
	}
	return ""
}

// Format renders err for the terminal, with its hint when one exists.
func Format(err error) string {
	if err == nil {
		return ""
	}
	if s := GetSuggestion(err); s != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err, s)
	}
	return fmt.Sprintf("Error: %s", err)
}

// PartialResult carries data alongside failures for the items that could
// not be processed.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if any item failed.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError records err when it is non-nil.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// Err joins the collected errors, or returns nil.
func (p *PartialResult[T]) Err() error {
	return errors.Join(p.Errors...)
}

// ErrorSummary returns a numbered list of the collected errors.
func (p *PartialResult[T]) ErrorSummary() string {
	switch len(p.Errors) {
	case 0:
		return ""
	case 1:
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors occurred:\n", len(p.Errors))
	for i, err := range p.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err)
	}
	return sb.String()
}
