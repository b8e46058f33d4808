package adapters

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/devcollab/devcollab/internal/app/integrations/gemini"
	"github.com/devcollab/devcollab/internal/app/integrations/github"
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"github.com/devcollab/devcollab/internal/app/system/notify"
	"github.com/devcollab/devcollab/internal/testutil"
	"go.uber.org/zap"
)

type stubReadmes struct {
	got gemini.ReadmeRequest
	out string
	err error
}

func (s *stubReadmes) GenerateReadme(_ context.Context, req gemini.ReadmeRequest) (string, error) {
	s.got = req
	if s.err != nil {
		return "", s.err
	}
	if req.ProjectName == "" {
		return "", apperr.Invalid("Project name is required")
	}
	return s.out, nil
}

type stubRepos struct {
	got github.RepoRequest
	err error
}

func (s *stubRepos) CreateRepository(_ context.Context, req github.RepoRequest) (github.Repo, error) {
	s.got = req
	if s.err != nil {
		return github.Repo{}, s.err
	}
	return github.Repo{
		ID:       7,
		Name:     req.Name,
		FullName: "jane/" + req.Name,
		HTMLURL:  "https://github.com/jane/" + req.Name,
		Private:  req.Private,
	}, nil
}

type stubSender struct {
	got   notify.Update
	calls int
	err   error
}

func (s *stubSender) SendUpdate(_ context.Context, u notify.Update) (string, error) {
	s.calls++
	s.got = u
	if s.err != nil {
		return "", s.err
	}
	return "summary of " + u.ProjectName, nil
}

func newHandler() (*Handler, *stubReadmes, *stubRepos, *stubSender) {
	rd := &stubReadmes{out: "# Demo"}
	rp := &stubRepos{}
	sn := &stubSender{}
	return NewHandler(rd, rp, sn, zap.NewNop()), rd, rp, sn
}

func TestGenerateReadme(t *testing.T) {
	h, rd, _, _ := newHandler()

	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/api/ai/generate-readme",
		map[string]string{"projectName": "Demo", "description": "d", "projectType": "cli"}, testutil.Owner())
	rec := testutil.NewRecorder()
	h.HandleGenerateReadme(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var body generateReadmeResponse
	rec.DecodeJSON(t, &body)
	if body.Readme != "# Demo" {
		t.Errorf("readme = %q", body.Readme)
	}
	if body.GeneratedAt.IsZero() {
		t.Error("generatedAt not set")
	}
	if rd.got.ProjectType != "cli" || rd.got.Description != "d" {
		t.Errorf("request not forwarded: %+v", rd.got)
	}
}

func TestGenerateReadme_MissingName(t *testing.T) {
	h, _, _, _ := newHandler()

	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/api/ai/generate-readme",
		map[string]string{"description": "d"}, testutil.Owner())
	rec := testutil.NewRecorder()
	h.HandleGenerateReadme(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestGenerateReadme_UpstreamFailuresAre500(t *testing.T) {
	cases := map[string]error{
		"not configured": apperr.NotConfigured("gemini", "AI service not configured"),
		"quota":          &apperr.UpstreamError{Service: "gemini", Status: http.StatusTooManyRequests, Err: errors.New("quota")},
	}
	for name, upErr := range cases {
		t.Run(name, func(t *testing.T) {
			h, rd, _, _ := newHandler()
			rd.err = upErr

			req := testutil.NewAuthenticatedRequest(http.MethodPost, "/api/ai/generate-readme",
				map[string]string{"projectName": "Demo"}, testutil.Owner())
			rec := testutil.NewRecorder()
			h.HandleGenerateReadme(rec, req)

			rec.AssertStatus(t, http.StatusInternalServerError)
		})
	}
}

func TestCreateRepo_DefaultsToPrivate(t *testing.T) {
	h, _, rp, _ := newHandler()

	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/api/github/create-repo",
		map[string]string{"name": "My Cool App!!"}, testutil.Owner())
	rec := testutil.NewRecorder()
	h.HandleCreateRepo(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if rp.got.Name != "my-cool-app" {
		t.Errorf("name = %q, want my-cool-app", rp.got.Name)
	}
	if !rp.got.Private {
		t.Error("repository should default to private")
	}
	if rp.got.Description != "DevCollab project: My Cool App!!" {
		t.Errorf("description = %q", rp.got.Description)
	}
	var repo github.Repo
	rec.DecodeJSON(t, &repo)
	if repo.HTMLURL != "https://github.com/jane/my-cool-app" {
		t.Errorf("html_url = %q", repo.HTMLURL)
	}
}

func TestCreateRepo_Public(t *testing.T) {
	h, _, rp, _ := newHandler()

	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/api/github/create-repo",
		map[string]any{"name": "demo", "description": "mine", "private": false}, testutil.Owner())
	rec := testutil.NewRecorder()
	h.HandleCreateRepo(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if rp.got.Private {
		t.Error("explicit private=false was ignored")
	}
	if rp.got.Description != "mine" {
		t.Errorf("description = %q", rp.got.Description)
	}
}

func TestCreateRepo_BadNames(t *testing.T) {
	for _, name := range []string{"", "   ", "!!!"} {
		h, _, rp, _ := newHandler()
		req := testutil.NewAuthenticatedRequest(http.MethodPost, "/api/github/create-repo",
			map[string]string{"name": name}, testutil.Owner())
		rec := testutil.NewRecorder()
		h.HandleCreateRepo(rec, req)

		rec.AssertStatus(t, http.StatusBadRequest)
		if rp.got.Name != "" {
			t.Errorf("name %q reached GitHub", name)
		}
	}
}

func TestCreateRepo_UpstreamStatus(t *testing.T) {
	h, _, rp, _ := newHandler()
	rp.err = &apperr.UpstreamError{Service: "github", Status: http.StatusUnprocessableEntity, Message: "name already exists on this account", Err: errors.New("422")}

	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/api/github/create-repo",
		map[string]string{"name": "demo"}, testutil.Owner())
	rec := testutil.NewRecorder()
	h.HandleCreateRepo(rec, req)

	rec.AssertStatus(t, http.StatusUnprocessableEntity)
}

func TestCreateRepo_NotConfigured(t *testing.T) {
	h, _, rp, _ := newHandler()
	rp.err = apperr.NotConfigured("github", "GitHub token not configured")

	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/api/github/create-repo",
		map[string]string{"name": "demo"}, testutil.Owner())
	rec := testutil.NewRecorder()
	h.HandleCreateRepo(rec, req)

	rec.AssertStatus(t, http.StatusInternalServerError)
	rec.AssertContains(t, "upstream_config")
}

func TestSendUpdate(t *testing.T) {
	h, _, _, sn := newHandler()

	update := notify.Update{ProjectName: "Demo", Collaborators: []string{"a@x.com"}, Changes: "jane: fix"}
	rec := testutil.NewRecorder()
	h.HandleSendUpdate(rec, testutil.NewJSONRequest(http.MethodPost, notify.SendUpdatePath, update))

	rec.AssertStatus(t, http.StatusOK)
	var body sendUpdateResponse
	rec.DecodeJSON(t, &body)
	if !body.Success || body.Summary != "summary of Demo" {
		t.Errorf("body = %+v", body)
	}
	if len(sn.got.Collaborators) != 1 || sn.got.Changes != "jane: fix" {
		t.Errorf("update not forwarded: %+v", sn.got)
	}
}

func TestSendUpdate_Failures(t *testing.T) {
	h, _, _, sn := newHandler()
	sn.err = errors.New("smtp down")

	rec := testutil.NewRecorder()
	h.HandleSendUpdate(rec, testutil.NewJSONRequest(http.MethodPost, notify.SendUpdatePath, notify.Update{ProjectName: "Demo"}))
	rec.AssertStatus(t, http.StatusInternalServerError)
	var body jsonio.ErrorBody
	rec.DecodeJSON(t, &body)
	if body.Error != "Failed to send notifications" {
		t.Errorf("error = %q", body.Error)
	}

	h2, _, _, sn2 := newHandler()
	rec = testutil.NewRecorder()
	h2.HandleSendUpdate(rec, testutil.NewJSONRequest(http.MethodPost, notify.SendUpdatePath, "{not json"))
	rec.AssertStatus(t, http.StatusInternalServerError)
	if sn2.calls != 0 {
		t.Error("malformed body reached the sender")
	}
}
