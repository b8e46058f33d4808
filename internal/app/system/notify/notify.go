// Package notify summarizes pushed changes and emails every collaborator.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/devcollab/devcollab/internal/app/integrations/gemini"
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/app/system/mailer"
	"github.com/devcollab/devcollab/internal/app/system/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Update is one change notification request.
type Update struct {
	ProjectName   string   `json:"projectName"`
	Collaborators []string `json:"collaborators"`
	Changes       string   `json:"changes"`
	GitHubRepo    string   `json:"githubRepo"`
}

// Sender delivers an update and returns the summary that was sent.
// Service and HTTPClient both implement it.
type Sender interface {
	SendUpdate(ctx context.Context, u Update) (string, error)
}

// Summarizer produces the collaborator-facing change summary.
type Summarizer interface {
	Summarize(ctx context.Context, req gemini.SummaryRequest) (string, error)
}

// Mailer delivers one email.
type Mailer interface {
	Send(ctx context.Context, e mailer.Email) error
}

// Service summarizes and fans the update out, one email per collaborator.
type Service struct {
	Summarizer Summarizer
	Mailer     Mailer
	Metrics    metrics.Recorder
	Log        *zap.Logger
	SiteName   string
}

// SendUpdate summarizes u.Changes and emails each collaborator.
//
// Sends run concurrently. The first failure cancels the sends still in
// flight and is returned; messages already handed to the SMTP server stay
// sent.
func (s *Service) SendUpdate(ctx context.Context, u Update) (string, error) {
	if u.ProjectName == "" {
		return "", apperr.Invalid("projectName is required")
	}

	start := time.Now()
	summary, err := s.Summarizer.Summarize(ctx, gemini.SummaryRequest{
		ProjectName: u.ProjectName,
		GitHubRepo:  u.GitHubRepo,
		Changes:     u.Changes,
	})
	s.Metrics.UpstreamCall("gemini", err, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("summarize changes: %w", err)
	}

	tmpl := mailer.BuildProjectUpdateEmail(mailer.ProjectUpdateEmailData{
		SiteName:    s.SiteName,
		ProjectName: u.ProjectName,
		Summary:     summary,
		RepoURL:     u.GitHubRepo,
	})

	g, gctx := errgroup.WithContext(ctx)
	for _, to := range u.Collaborators {
		msg := tmpl
		msg.To = to
		g.Go(func() error {
			err := s.Mailer.Send(gctx, msg)
			s.Metrics.NotificationSent(err == nil)
			if err != nil {
				return fmt.Errorf("notify %s: %w", to, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	s.Log.Info("project update sent",
		zap.String("project", u.ProjectName),
		zap.Int("recipients", len(u.Collaborators)))
	return summary, nil
}
