package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	gh "github.com/google/go-github/v66/github"
)

// Account is the signed-in GitHub user as seen through their own OAuth
// token.
type Account struct {
	ID        int64
	Login     string
	Name      string
	Email     string // primary verified address; may be empty
	AvatarURL string
}

// FetchAccount reads the user behind httpClient's token. When the public
// profile hides the email, the primary verified address from /user/emails
// is used (needs the user:email scope). apiBase overrides the API root and
// may be empty.
func FetchAccount(ctx context.Context, httpClient *http.Client, apiBase string) (Account, error) {
	c := gh.NewClient(httpClient)
	c.UserAgent = "DevCollab-App"
	if apiBase != "" {
		u, err := url.Parse(apiBase)
		if err != nil {
			return Account{}, fmt.Errorf("parse github base url: %w", err)
		}
		c.BaseURL = u
	}

	u, _, err := c.Users.Get(ctx, "")
	if err != nil {
		return Account{}, fmt.Errorf("get github user: %w", err)
	}
	acct := Account{
		ID:        u.GetID(),
		Login:     u.GetLogin(),
		Name:      u.GetName(),
		Email:     u.GetEmail(),
		AvatarURL: u.GetAvatarURL(),
	}
	if acct.Email != "" {
		return acct, nil
	}

	emails, _, err := c.Users.ListEmails(ctx, nil)
	if err != nil {
		return Account{}, fmt.Errorf("list github emails: %w", err)
	}
	for _, e := range emails {
		if e.GetPrimary() && e.GetVerified() {
			acct.Email = e.GetEmail()
			break
		}
	}
	return acct, nil
}
