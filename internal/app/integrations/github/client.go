// internal/app/integrations/github/client.go
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/devcollab/devcollab/internal/app/system/apperr"
	gh "github.com/google/go-github/v66/github"
	"go.uber.org/zap"
)

const service = "github"

// RepoRequest describes a repository to create under the token's account.
type RepoRequest struct {
	Name        string // already sanitized, see RepoName
	Description string
	Private     bool
}

// Repo is the subset of the created repository that callers keep.
type Repo struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	HTMLURL     string    `json:"html_url"`
	Description string    `json:"description"`
	Private     bool      `json:"private"`
	CreatedAt   time.Time `json:"created_at"`
}

// Client creates repositories through the GitHub REST API.
//
// It is constructed once at startup and shared by every handler. A Client
// built without a token is valid; each call then fails with a configuration
// error instead of reaching GitHub.
type Client struct {
	gh    *gh.Client
	token string
	log   *zap.Logger
}

// NewClient builds a Client authenticated with token. httpClient may be nil.
func NewClient(token string, httpClient *http.Client, logger *zap.Logger) *Client {
	c := gh.NewClient(httpClient)
	if token != "" {
		c = c.WithAuthToken(token)
	}
	c.UserAgent = "DevCollab-App"
	return &Client{gh: c, token: token, log: logger}
}

// WithBaseURL points the client at another API root (GitHub Enterprise or a
// test server). baseURL must end with "/".
func (c *Client) WithBaseURL(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse github base url: %w", err)
	}
	c.gh.BaseURL = u
	return c, nil
}

// IsConfigured reports whether a token is available.
func (c *Client) IsConfigured() bool {
	return c.token != ""
}

// CreateRepository creates a repository initialised with a README, a Node
// .gitignore and an MIT license.
//
// Upstream rejections come back as *apperr.UpstreamError carrying GitHub's
// status code and message so handlers can pass them through.
func (c *Client) CreateRepository(ctx context.Context, req RepoRequest) (Repo, error) {
	if !c.IsConfigured() {
		return Repo{}, apperr.NotConfigured(service, "GitHub token not configured")
	}
	if req.Name == "" {
		return Repo{}, apperr.Invalid("repository name is required")
	}

	repo, _, err := c.gh.Repositories.Create(ctx, "", &gh.Repository{
		Name:              gh.String(req.Name),
		Description:       gh.String(req.Description),
		Private:           gh.Bool(req.Private),
		AutoInit:          gh.Bool(true),
		GitignoreTemplate: gh.String("Node"),
		LicenseTemplate:   gh.String("mit"),
	})
	if err != nil {
		return Repo{}, c.upstreamError(err)
	}

	c.log.Info("github repository created",
		zap.Int64("repo_id", repo.GetID()),
		zap.String("full_name", repo.GetFullName()))

	return Repo{
		ID:          repo.GetID(),
		Name:        repo.GetName(),
		FullName:    repo.GetFullName(),
		HTMLURL:     repo.GetHTMLURL(),
		Description: repo.GetDescription(),
		Private:     repo.GetPrivate(),
		CreatedAt:   repo.GetCreatedAt().Time,
	}, nil
}

func (c *Client) upstreamError(err error) error {
	up := &apperr.UpstreamError{Service: service, Err: err}

	var ge *gh.ErrorResponse
	if errors.As(err, &ge) {
		up.Message = ge.Message
		if ge.Response != nil {
			up.Status = ge.Response.StatusCode
			if up.Status == http.StatusUnauthorized {
				// A revoked or malformed token is a deployment problem.
				up.Err = fmt.Errorf("%w: %v", apperr.ErrNotConfigured, err)
			}
		}
	}
	if up.Message == "" {
		up.Message = "Failed to create repository"
	}
	return up
}
