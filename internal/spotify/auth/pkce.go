package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	// CodeVerifierLength is within RFC 7636's 43-128 character range.
	CodeVerifierLength = 64

	// StateLength is the length of the anti-CSRF state parameter.
	StateLength = 32

	// ChallengeMethod is the only method Spotify accepts.
	ChallengeMethod = "S256"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// PKCE holds one login attempt's verifier, challenge and state.
type PKCE struct {
	Verifier  string
	Challenge string
	State     string
}

// NewPKCE generates a fresh verifier, its S256 challenge and a state value.
func NewPKCE() (*PKCE, error) {
	verifier, err := randomString(CodeVerifierLength)
	if err != nil {
		return nil, fmt.Errorf("generate code verifier: %w", err)
	}
	state, err := randomString(StateLength)
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}
	return &PKCE{
		Verifier:  verifier,
		Challenge: Challenge(verifier),
		State:     state,
	}, nil
}

// Challenge returns base64url(sha256(verifier)) without padding.
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// randomString returns n alphanumeric characters. Bytes past the largest
// multiple of the alphabet size are redrawn so every character is equally
// likely.
func randomString(n int) (string, error) {
	const limit = 256 - 256%len(alphabet)

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
