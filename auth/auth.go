// Package auth implements the browser-redirect OAuth2 authorization-code
// flow backing the catalog collaborator: /login hands the browser off to
// the provider, /callback exchanges the returned code for a token and
// stores it against an opaque per-session state value, the same
// state-as-user-id shape as the Flask session this is grounded on.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"

	"golang.org/x/oauth2"
)

// ErrUnknownState is returned when a callback arrives with a state value
// that was never issued by Login, or was already consumed.
var ErrUnknownState = errors.New("auth: unknown or expired state")

// Session holds a signed-in user's token, keyed by the state value
// generated for their login attempt.
type Session struct {
	Config *oauth2.Config

	mu      sync.Mutex
	pending map[string]struct{}       // states awaiting a callback
	tokens  map[string]*oauth2.Token // states -> issued token
}

// NewSession builds a Session around an OAuth2 config (client ID/secret,
// authorization/token endpoints, scopes, redirect URL).
func NewSession(config *oauth2.Config) *Session {
	return &Session{
		Config:  config,
		pending: make(map[string]struct{}),
		tokens:  make(map[string]*oauth2.Token),
	}
}

// newState generates a random, URL-safe state token, playing the role
// tk.UserAuth.state does in the source flow.
func newState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// LoginURL starts a new authorization attempt and returns the provider URL
// the caller should redirect the browser to, alongside the state value to
// round-trip (the caller is responsible for the actual HTTP redirect; this
// package only owns the OAuth2 bookkeeping).
func (s *Session) LoginURL() (redirectURL, state string, err error) {
	state, err = newState()
	if err != nil {
		return "", "", err
	}

	s.mu.Lock()
	s.pending[state] = struct{}{}
	s.mu.Unlock()

	return s.Config.AuthCodeURL(state), state, nil
}

// Callback completes a pending authorization attempt: state must match one
// issued by LoginURL, and code is exchanged for a token.
func (s *Session) Callback(ctx context.Context, state, code string) (*oauth2.Token, error) {
	s.mu.Lock()
	_, known := s.pending[state]
	if known {
		delete(s.pending, state)
	}
	s.mu.Unlock()

	if !known {
		return nil, ErrUnknownState
	}

	token, err := s.Config.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.tokens[state] = token
	s.mu.Unlock()

	return token, nil
}

// TokenFor returns the token previously issued for state, if any.
func (s *Session) TokenFor(state string) (*oauth2.Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[state]
	return token, ok
}

// Logout discards a session's stored token. No HTTP route calls it: main.go
// registers only /login and /callback.
func (s *Session) Logout(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, state)
}
