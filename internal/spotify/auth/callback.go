package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"time"
)

// ErrStateMismatch means the callback's state does not match the login attempt.
var ErrStateMismatch = errors.New("oauth state mismatch")

// CallbackResult is what Spotify passed back to the redirect URI.
type CallbackResult struct {
	Code  string
	State string
	Error string
}

// Check validates the result against the expected state.
func (r CallbackResult) Check(state string) error {
	if r.Error != "" {
		return fmt.Errorf("authorization denied: %s", r.Error)
	}
	if r.State != state {
		return ErrStateMismatch
	}
	if r.Code == "" {
		return errors.New("callback carried no authorization code")
	}
	return nil
}

// CallbackServer receives the OAuth redirect on the loopback interface.
type CallbackServer struct {
	server   *http.Server
	listener net.Listener
	result   chan CallbackResult
}

// NewCallbackServer listens on 127.0.0.1:port and serves path.
// Port 0 picks a free port.
func NewCallbackServer(port int, path string) (*CallbackServer, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", port, err)
	}

	cs := &CallbackServer{
		listener: listener,
		result:   make(chan CallbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, cs.handleCallback)

	cs.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return cs, nil
}

// Start serves requests in the background.
func (cs *CallbackServer) Start() {
	go func() {
		_ = cs.server.Serve(cs.listener)
	}()
}

// Wait blocks until the first callback arrives or ctx is done.
func (cs *CallbackServer) Wait(ctx context.Context) (CallbackResult, error) {
	select {
	case result := <-cs.result:
		return result, nil
	case <-ctx.Done():
		return CallbackResult{}, ctx.Err()
	}
}

// Shutdown stops the server.
func (cs *CallbackServer) Shutdown(ctx context.Context) error {
	return cs.server.Shutdown(ctx)
}

// Port returns the port the server is listening on.
func (cs *CallbackServer) Port() int {
	return cs.listener.Addr().(*net.TCPAddr).Port
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head><title>tempo</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em">
<h1>%s</h1>
<p>%s</p>
</body>
</html>`

func (cs *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result := CallbackResult{
		Code:  q.Get("code"),
		State: q.Get("state"),
		Error: q.Get("error"),
	}

	// only the first callback counts
	select {
	case cs.result <- result:
	default:
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if result.Error != "" {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, pageTemplate, "Login failed", "Error: "+html.EscapeString(result.Error))
		return
	}
	fmt.Fprintf(w, pageTemplate, "Logged in", "You can close this window and return to the terminal.")
}
