package auth

import (
	"context"
	"fmt"
	"time"
)

// Login runs the interactive PKCE flow: it starts the callback server, hands
// the authorization URL to open, waits for the redirect and exchanges the code.
// The token is saved to storage before it is returned.
func Login(ctx context.Context, cfg *Config, endpoint *TokenEndpoint, storage *TokenStorage, open func(string) error) (*Token, error) {
	pkce, err := NewPKCE()
	if err != nil {
		return nil, fmt.Errorf("generate pkce: %w", err)
	}

	port, path, err := cfg.CallbackAddr()
	if err != nil {
		return nil, err
	}
	server, err := NewCallbackServer(port, path)
	if err != nil {
		return nil, err
	}
	server.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := open(cfg.AuthURL(pkce)); err != nil {
		return nil, fmt.Errorf("open authorization url: %w", err)
	}

	result, err := server.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("waiting for callback: %w", err)
	}
	if err := result.Check(pkce.State); err != nil {
		return nil, err
	}

	token, err := endpoint.Exchange(ctx, cfg.ClientID, result.Code, cfg.RedirectURI, pkce.Verifier)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	if err := storage.Save(token); err != nil {
		return nil, err
	}
	return token, nil
}
