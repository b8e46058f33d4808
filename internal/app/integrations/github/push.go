// internal/app/integrations/github/push.go
package github

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/devcollab/devcollab/internal/app/system/apperr"
	gh "github.com/google/go-github/v66/github"
)

// EventPush is the X-GitHub-Event value of push deliveries.
const EventPush = "push"

// Commit is one commit of a push delivery.
type Commit struct {
	ID        string
	Author    string
	Message   string
	URL       string
	Timestamp time.Time
}

// PushEvent is the part of a push delivery the relay needs.
type PushEvent struct {
	Ref           string // e.g. "refs/heads/main"
	RepoURL       string // repository html_url
	DefaultBranch string // may be empty for hand-built payloads
	Commits       []Commit
}

// IsPrimaryBranch reports whether the push targets the repository's main
// line: its declared default branch, or main/master when none is declared.
func (e PushEvent) IsPrimaryBranch() bool {
	if e.DefaultBranch != "" {
		return e.Ref == "refs/heads/"+e.DefaultBranch
	}
	return e.Ref == "refs/heads/main" || e.Ref == "refs/heads/master"
}

// Delivery is a verified webhook delivery.
type Delivery struct {
	Event string     // X-GitHub-Event; empty when the sender omitted it
	Push  *PushEvent // set for push deliveries
}

// ReadDelivery reads and, when secret is non-empty, verifies the
// X-Hub-Signature-256 of a webhook request. Deliveries without an event
// header are treated as push deliveries.
func ReadDelivery(r *http.Request, secret string) (Delivery, error) {
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	payload, err := gh.ValidatePayload(r, key)
	if err != nil {
		if secret != "" {
			return Delivery{}, fmt.Errorf("%w: webhook signature: %v", apperr.ErrForbidden, err)
		}
		return Delivery{}, apperr.Invalid("read webhook payload: %v", err)
	}

	d := Delivery{Event: gh.WebHookType(r)}
	if d.Event != "" && d.Event != EventPush {
		return d, nil
	}

	parsed, err := gh.ParseWebHook(EventPush, payload)
	if err != nil {
		return Delivery{}, apperr.Invalid("decode push payload: %v", err)
	}
	ev, ok := parsed.(*gh.PushEvent)
	if !ok {
		return Delivery{}, apperr.Invalid("unexpected push payload %T", parsed)
	}
	push := fromGitHub(ev)
	d.Push = &push
	return d, nil
}

func fromGitHub(ev *gh.PushEvent) PushEvent {
	out := PushEvent{Ref: ev.GetRef()}
	if repo := ev.GetRepo(); repo != nil {
		out.RepoURL = repo.GetHTMLURL()
		out.DefaultBranch = repo.GetDefaultBranch()
		if out.DefaultBranch == "" {
			out.DefaultBranch = repo.GetMasterBranch()
		}
	}
	for _, c := range ev.Commits {
		if c == nil {
			continue
		}
		commit := Commit{
			ID:      c.GetID(),
			Message: strings.TrimSpace(c.GetMessage()),
			URL:     c.GetURL(),
		}
		if a := c.GetAuthor(); a != nil {
			commit.Author = a.GetName()
			if commit.Author == "" {
				commit.Author = a.GetLogin()
			}
		}
		if ts := c.GetTimestamp(); !ts.IsZero() {
			commit.Timestamp = ts.Time
		}
		out.Commits = append(out.Commits, commit)
	}
	return out
}
