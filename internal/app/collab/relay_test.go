package collab

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/devcollab/devcollab/internal/app/integrations/github"
	"github.com/devcollab/devcollab/internal/app/system/metrics"
	"go.uber.org/zap"
)

type countingRecorder struct {
	metrics.Nop
	deliveries []string
}

func (c *countingRecorder) WebhookDelivery(outcome string) {
	c.deliveries = append(c.deliveries, outcome)
}

func newRelayEnv(t *testing.T) (*testEnv, *Relay, *fakeNotifier, *countingRecorder, string) {
	t.Helper()
	env := newTestEnv()
	ctx := context.Background()
	p, err := env.svc.CreateProject(ctx, owner, NewProject{Name: "Demo"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.svc.AddCollaborator(ctx, p.ID.Hex(), owner, "bob@z.com"); err != nil {
		t.Fatal(err)
	}
	linked, err := env.svc.ConnectRepository(ctx, p.ID.Hex(), owner)
	if err != nil {
		t.Fatal(err)
	}

	n := &fakeNotifier{}
	rec := &countingRecorder{}
	r := &Relay{Projects: env.projects, Notifier: n, Metrics: rec, Log: zap.NewNop()}
	return env, r, n, rec, linked.GitHubRepo
}

func TestRelay_PrimaryBranchNotifiesCollaborators(t *testing.T) {
	env, r, n, rec, repoURL := newRelayEnv(t)
	before := env.projects.writeCount()

	res, err := r.HandlePush(context.Background(), github.PushEvent{
		Ref:     "refs/heads/main",
		RepoURL: repoURL,
		Commits: []github.Commit{
			{Author: "Jane", Message: "Add login"},
			{Author: "Bob", Message: "Fix typo"},
		},
	})
	if err != nil {
		t.Fatalf("HandlePush: %v", err)
	}
	if !res.Relayed() {
		t.Fatalf("outcome = %q", res.Outcome)
	}
	if len(n.updates) != 1 {
		t.Fatalf("updates = %d", len(n.updates))
	}
	u := n.updates[0]
	if u.ProjectName != "Demo" || u.GitHubRepo != repoURL {
		t.Errorf("update = %+v", u)
	}
	if !slices.Equal(u.Collaborators, []string{"jane@x.com", "bob@z.com"}) {
		t.Errorf("Collaborators = %v", u.Collaborators)
	}
	if u.Changes != "Jane: Add login\nBob: Fix typo" {
		t.Errorf("Changes = %q", u.Changes)
	}
	if env.projects.writeCount() != before {
		t.Error("relay must not write to the project")
	}
	if !slices.Equal(rec.deliveries, []string{metrics.WebhookRelayed}) {
		t.Errorf("deliveries = %v", rec.deliveries)
	}
}

func TestRelay_Discards(t *testing.T) {
	tests := []struct {
		name    string
		ev      func(repoURL string) github.PushEvent
		outcome string
		message string
	}{
		{
			name:    "feature branch",
			ev:      func(u string) github.PushEvent { return github.PushEvent{Ref: "refs/heads/feature", RepoURL: u} },
			outcome: metrics.WebhookIgnoredBranch,
			message: "Not a main branch push",
		},
		{
			name: "non-default branch named main",
			ev: func(u string) github.PushEvent {
				return github.PushEvent{Ref: "refs/heads/main", RepoURL: u, DefaultBranch: "trunk"}
			},
			outcome: metrics.WebhookIgnoredBranch,
			message: "Not a main branch push",
		},
		{
			name: "unknown repository",
			ev: func(string) github.PushEvent {
				return github.PushEvent{Ref: "refs/heads/main", RepoURL: "https://github.com/x/y"}
			},
			outcome: metrics.WebhookUnknownRepo,
			message: "Project not found",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, r, n, rec, repoURL := newRelayEnv(t)
			res, err := r.HandlePush(context.Background(), tc.ev(repoURL))
			if err != nil {
				t.Fatalf("HandlePush: %v", err)
			}
			if res.Outcome != tc.outcome || res.Message != tc.message {
				t.Errorf("result = %+v", res)
			}
			if len(n.updates) != 0 {
				t.Error("no notification expected")
			}
			if !slices.Equal(rec.deliveries, []string{tc.outcome}) {
				t.Errorf("deliveries = %v", rec.deliveries)
			}
		})
	}
}

func TestRelay_NotifierFailure(t *testing.T) {
	_, r, n, rec, repoURL := newRelayEnv(t)
	n.err = errors.New("smtp down")

	_, err := r.HandlePush(context.Background(), github.PushEvent{Ref: "refs/heads/master", RepoURL: repoURL})
	if err == nil {
		t.Fatal("expected error")
	}
	if !slices.Equal(rec.deliveries, []string{metrics.WebhookFailed}) {
		t.Errorf("deliveries = %v", rec.deliveries)
	}
}

func TestFormatChanges_Empty(t *testing.T) {
	if got := FormatChanges(nil); got != "" {
		t.Errorf("FormatChanges(nil) = %q", got)
	}
}
