package collab

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devcollab/devcollab/internal/app/integrations/github"
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/app/system/metrics"
	"github.com/devcollab/devcollab/internal/app/system/notify"
	"go.uber.org/zap"
)

// RelayResult says what the relay did with one push.
type RelayResult struct {
	Outcome string // one of the metrics.Webhook* values
	Message string // shown to the webhook sender for no-op outcomes
}

// Relayed reports whether collaborators were notified.
func (r RelayResult) Relayed() bool { return r.Outcome == metrics.WebhookRelayed }

// Relay turns primary-branch pushes into collaborator notifications. It
// never writes to the project.
type Relay struct {
	Projects ProjectStore
	Notifier notify.Sender
	Metrics  metrics.Recorder
	Log      *zap.Logger
}

// HandlePush runs one push through the relay. Pushes to other branches and
// pushes to repositories no project links are discarded without error.
func (r *Relay) HandlePush(ctx context.Context, ev github.PushEvent) (RelayResult, error) {
	res, err := r.handle(ctx, ev)
	if err != nil {
		res.Outcome = metrics.WebhookFailed
	}
	r.Metrics.WebhookDelivery(res.Outcome)
	return res, err
}

func (r *Relay) handle(ctx context.Context, ev github.PushEvent) (RelayResult, error) {
	if !ev.IsPrimaryBranch() {
		return RelayResult{Outcome: metrics.WebhookIgnoredBranch, Message: "Not a main branch push"}, nil
	}

	p, err := r.Projects.FindByRepository(ctx, ev.RepoURL)
	if errors.Is(err, apperr.ErrNotFound) {
		return RelayResult{Outcome: metrics.WebhookUnknownRepo, Message: "Project not found"}, nil
	}
	if err != nil {
		return RelayResult{}, fmt.Errorf("find project for %s: %w", ev.RepoURL, err)
	}

	_, err = r.Notifier.SendUpdate(ctx, notify.Update{
		ProjectName:   p.Name,
		Collaborators: p.Collaborators,
		Changes:       FormatChanges(ev.Commits),
		GitHubRepo:    ev.RepoURL,
	})
	if err != nil {
		return RelayResult{}, fmt.Errorf("notify collaborators of %s: %w", p.ID.Hex(), err)
	}

	r.Log.Info("push relayed",
		zap.String("project_id", p.ID.Hex()),
		zap.String("ref", ev.Ref),
		zap.Int("commits", len(ev.Commits)),
		zap.Int("recipients", len(p.Collaborators)))
	return RelayResult{Outcome: metrics.WebhookRelayed}, nil
}

// FormatChanges renders commits as "<author>: <message>" lines.
func FormatChanges(commits []github.Commit) string {
	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		lines = append(lines, c.Author+": "+c.Message)
	}
	return strings.Join(lines, "\n")
}
