package notify

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/devcollab/devcollab/internal/app/integrations/gemini"
	"github.com/devcollab/devcollab/internal/app/system/mailer"
	"github.com/devcollab/devcollab/internal/app/system/metrics"
	"go.uber.org/zap"
)

type fakeSummarizer struct {
	got gemini.SummaryRequest
	out string
	err error
}

func (f *fakeSummarizer) Summarize(_ context.Context, req gemini.SummaryRequest) (string, error) {
	f.got = req
	return f.out, f.err
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Email
	fail map[string]error
}

func (f *fakeMailer) Send(_ context.Context, e mailer.Email) error {
	if err := f.fail[e.To]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, e)
	return nil
}

func newService(sum *fakeSummarizer, m *fakeMailer) *Service {
	return &Service{Summarizer: sum, Mailer: m, Metrics: metrics.Nop{}, Log: zap.NewNop()}
}

func TestSendUpdate_OneEmailPerCollaborator(t *testing.T) {
	sum := &fakeSummarizer{out: "Login was fixed."}
	m := &fakeMailer{}

	got, err := newService(sum, m).SendUpdate(context.Background(), Update{
		ProjectName:   "Demo",
		Collaborators: []string{"jane@x.com", "bob@x.com"},
		Changes:       "jane: Fix login",
		GitHubRepo:    "https://github.com/jane/demo",
	})
	if err != nil {
		t.Fatalf("SendUpdate: %v", err)
	}
	if got != "Login was fixed." {
		t.Errorf("summary = %q", got)
	}
	if sum.got.Changes != "jane: Fix login" || sum.got.ProjectName != "Demo" {
		t.Errorf("summarizer got %+v", sum.got)
	}

	var to []string
	for _, e := range m.sent {
		to = append(to, e.To)
		if e.Subject != "Demo - New Updates Available" || !strings.Contains(e.HTMLBody, "Login was fixed.") {
			t.Errorf("unexpected email %+v", e)
		}
	}
	sort.Strings(to)
	if strings.Join(to, ",") != "bob@x.com,jane@x.com" {
		t.Errorf("recipients = %v", to)
	}
}

func TestSendUpdate_SummaryFailureSendsNothing(t *testing.T) {
	m := &fakeMailer{}
	_, err := newService(&fakeSummarizer{err: errors.New("quota")}, m).SendUpdate(context.Background(), Update{
		ProjectName:   "Demo",
		Collaborators: []string{"jane@x.com"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(m.sent) != 0 {
		t.Errorf("sent %d emails after summary failure", len(m.sent))
	}
}

func TestSendUpdate_FirstSendFailurePropagates(t *testing.T) {
	boom := errors.New("mailbox unavailable")
	m := &fakeMailer{fail: map[string]error{"bad@x.com": boom}}

	_, err := newService(&fakeSummarizer{out: "s"}, m).SendUpdate(context.Background(), Update{
		ProjectName:   "Demo",
		Collaborators: []string{"ok@x.com", "bad@x.com"},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected send failure, got %v", err)
	}
}
