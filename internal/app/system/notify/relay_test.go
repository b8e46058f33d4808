package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devcollab/devcollab/internal/app/system/apperr"
)

func TestHTTPClient_SendUpdate(t *testing.T) {
	var got Update
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != SendUpdatePath {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"success":true,"summary":"all good"}`))
	}))
	defer srv.Close()

	summary, err := NewHTTPClient(srv.URL+"/", srv.Client()).SendUpdate(context.Background(), Update{
		ProjectName:   "Demo",
		Collaborators: []string{"jane@x.com"},
		Changes:       "jane: Fix login",
		GitHubRepo:    "https://github.com/jane/demo",
	})
	if err != nil {
		t.Fatalf("SendUpdate: %v", err)
	}
	if summary != "all good" {
		t.Errorf("summary = %q", summary)
	}
	if got.ProjectName != "Demo" || len(got.Collaborators) != 1 || got.GitHubRepo != "https://github.com/jane/demo" {
		t.Errorf("endpoint received %+v", got)
	}
}

func TestHTTPClient_Non2xxIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to send notifications"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, srv.Client()).SendUpdate(context.Background(), Update{ProjectName: "Demo"})

	var up *apperr.UpstreamError
	if !errors.As(err, &up) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if up.Message != "Failed to send notifications" {
		t.Errorf("Message = %q", up.Message)
	}
}
