package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// expiryBuffer treats tokens as expired shortly before Spotify does.
const expiryBuffer = 60 * time.Second

// Token represents Spotify OAuth tokens.
type Token struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	Scope        string    `json:"scope"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// IsExpired returns true if the token has expired or will within the buffer.
func (t *Token) IsExpired() bool {
	return time.Now().Add(expiryBuffer).After(t.ExpiresAt)
}

// OAuthError is an error body returned by the accounts service.
type OAuthError struct {
	Status      int
	Code        string
	Description string
}

func (e *OAuthError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("token error (%d): %s", e.Status, e.Code)
	}
	return fmt.Sprintf("token error (%d): %s - %s", e.Status, e.Code, e.Description)
}

// InvalidGrant reports whether the refresh token or code was rejected, which
// means the user has to log in again.
func (e *OAuthError) InvalidGrant() bool {
	return e.Code == "invalid_grant"
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Error        string `json:"error"`
	ErrorDesc    string `json:"error_description"`
}

// TokenEndpoint talks to the accounts service token URL.
type TokenEndpoint struct {
	URL        string
	HTTPClient *http.Client
}

// DefaultTokenEndpoint targets Spotify with a 30 second timeout.
func DefaultTokenEndpoint() *TokenEndpoint {
	return &TokenEndpoint{
		URL:        SpotifyTokenURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Exchange trades an authorization code for tokens.
func (e *TokenEndpoint) Exchange(ctx context.Context, clientID, code, redirectURI, verifier string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("client_id", clientID)
	form.Set("code_verifier", verifier)
	return e.request(ctx, form)
}

// Refresh obtains a new access token. Spotify may omit the refresh token in
// the response; the previous one is kept in that case.
func (e *TokenEndpoint) Refresh(ctx context.Context, clientID, refreshToken string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", clientID)

	tok, err := e.request(ctx, form)
	if err != nil {
		return nil, err
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = refreshToken
	}
	return tok, nil
}

func (e *TokenEndpoint) request(ctx context.Context, form url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	hc := e.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &OAuthError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("parse token response: %w", err)
	}
	if tr.Error != "" {
		return nil, &OAuthError{Status: resp.StatusCode, Code: tr.Error, Description: tr.ErrorDesc}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &OAuthError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
	}

	return &Token{
		AccessToken:  tr.AccessToken,
		TokenType:    tr.TokenType,
		Scope:        tr.Scope,
		ExpiresIn:    tr.ExpiresIn,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}
