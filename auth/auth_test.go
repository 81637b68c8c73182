package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/callback",
		Scopes:       []string{"user-top-read"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://provider.example/authorize",
			TokenURL: "https://provider.example/token",
		},
	}
}

func TestLoginURLIssuesState(t *testing.T) {
	session := NewSession(testConfig())

	redirectURL, state, err := session.LoginURL()
	require.NoError(t, err)
	assert.NotEmpty(t, state)
	assert.Contains(t, redirectURL, "state="+state)
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	session := NewSession(testConfig())

	_, err := session.Callback(context.Background(), "never-issued", "some-code")
	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestCallbackConsumesStateOnce(t *testing.T) {
	session := NewSession(testConfig())
	_, state, err := session.LoginURL()
	require.NoError(t, err)

	// The token exchange itself will fail (no real provider listening), but
	// the state bookkeeping must still be consumed on first use.
	_, _ = session.Callback(context.Background(), state, "some-code")

	_, err = session.Callback(context.Background(), state, "some-code")
	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestLogoutDiscardsToken(t *testing.T) {
	session := NewSession(testConfig())
	session.tokens["state-1"] = &oauth2.Token{AccessToken: "abc"}

	session.Logout("state-1")

	_, ok := session.TokenFor("state-1")
	assert.False(t, ok)
}
