package errors_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "github.com/devcollab/devcollab/internal/app/features/errors"
	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func TestRouterFallbacks(t *testing.T) {
	h := apierrors.NewHandler(zap.NewNop())
	r := chi.NewRouter()
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)
	r.Get("/thing", func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		method, path string
		status       int
		code         string
	}{
		{http.MethodGet, "/missing", http.StatusNotFound, "not_found"},
		{http.MethodPost, "/thing", http.StatusMethodNotAllowed, "method_not_allowed"},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.status {
			t.Errorf("%s %s: status %d, want %d", tc.method, tc.path, rec.Code, tc.status)
		}
		var body jsonio.ErrorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Code != tc.code {
			t.Errorf("%s %s: code %q, want %q", tc.method, tc.path, body.Code, tc.code)
		}
	}
}
