package api

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// SignInURL returns the GitHub authorize URL the sign-in page links to. The
// backend's /token endpoint completes the exchange; an empty clientID yields "".
func SignInURL(clientID, redirectURL, state string) string {
	if clientID == "" {
		return ""
	}
	cfg := oauth2.Config{
		ClientID:    clientID,
		Endpoint:    github.Endpoint,
		RedirectURL: redirectURL,
		Scopes:      []string{"read:user"},
	}
	return cfg.AuthCodeURL(state)
}
