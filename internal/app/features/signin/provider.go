// internal/app/features/signin/provider.go
package signin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/devcollab/devcollab/internal/app/collab"
	"github.com/devcollab/devcollab/internal/app/integrations/github"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// Provider is one OAuth identity provider. Identify turns an authorized
// HTTP client into identity claims; the uid is prefixed with Name so ids
// from different providers never collide.
type Provider struct {
	Name     string
	OAuth    *oauth2.Config
	Identify func(ctx context.Context, hc *http.Client) (collab.Identity, error)
}

// IsConfigured returns true if the provider has client credentials.
func (p *Provider) IsConfigured() bool {
	return p.OAuth.ClientID != "" && p.OAuth.ClientSecret != ""
}

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Google builds the Google provider. baseURL is the public site root.
func Google(clientID, clientSecret, baseURL string) *Provider {
	return &Provider{
		Name: "google",
		OAuth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		Identify: googleIdentity(googleUserinfoURL),
	}
}

// GitHub builds the GitHub provider. baseURL is the public site root.
func GitHub(clientID, clientSecret, baseURL string) *Provider {
	return &Provider{
		Name: "github",
		OAuth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/github/callback",
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     githuboauth.Endpoint,
		},
		Identify: githubIdentity(""),
	}
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func googleIdentity(userinfoURL string) func(context.Context, *http.Client) (collab.Identity, error) {
	return func(ctx context.Context, hc *http.Client) (collab.Identity, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
		if err != nil {
			return collab.Identity{}, err
		}
		resp, err := hc.Do(req)
		if err != nil {
			return collab.Identity{}, fmt.Errorf("fetch google user info: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return collab.Identity{}, fmt.Errorf("google user info: unexpected status %d", resp.StatusCode)
		}

		var info googleUserInfo
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return collab.Identity{}, fmt.Errorf("decode google user info: %w", err)
		}
		email := info.Email
		if !info.EmailVerified {
			email = ""
		}
		return collab.Identity{
			UID:         "google:" + info.ID,
			Email:       email,
			DisplayName: info.Name,
			PhotoURL:    info.Picture,
		}, nil
	}
}

func githubIdentity(apiBase string) func(context.Context, *http.Client) (collab.Identity, error) {
	return func(ctx context.Context, hc *http.Client) (collab.Identity, error) {
		acct, err := github.FetchAccount(ctx, hc, apiBase)
		if err != nil {
			return collab.Identity{}, err
		}
		name := acct.Name
		if name == "" {
			name = acct.Login
		}
		return collab.Identity{
			UID:         "github:" + strconv.FormatInt(acct.ID, 10),
			Email:       acct.Email,
			DisplayName: name,
			PhotoURL:    acct.AvatarURL,
		}, nil
	}
}
