// Package adapters serves the stateless AI, repository and notification
// endpoints. None of them reads or writes projects.
package adapters

import (
	"errors"
	"net/http"

	"github.com/devcollab/devcollab/internal/app/collab"
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"github.com/devcollab/devcollab/internal/app/system/notify"
	"go.uber.org/zap"
)

// Handler owns the adapter endpoints.
type Handler struct {
	Readmes  collab.ReadmeGenerator
	Repos    collab.RepoCreator
	Notifier notify.Sender
	Log      *zap.Logger
}

// NewHandler constructs an adapters Handler.
func NewHandler(readmes collab.ReadmeGenerator, repos collab.RepoCreator, notifier notify.Sender, logger *zap.Logger) *Handler {
	return &Handler{Readmes: readmes, Repos: repos, Notifier: notifier, Log: logger}
}

// failAs500 reports err like jsonio.Error but keeps input errors at 400
// and answers every other failure with 500 and fallback, or with the
// upstream message when there is one.
func (h *Handler) failAs500(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errors.Is(err, apperr.ErrInvalidInput) {
		jsonio.Error(w, r, h.Log, err)
		return
	}
	h.Log.Error("adapter request failed",
		zap.String("path", r.URL.Path),
		zap.String("code", apperr.Code(err)),
		zap.Error(err))

	msg := fallback
	var up *apperr.UpstreamError
	if errors.As(err, &up) && up.Message != "" {
		msg = up.Message
	}
	jsonio.Write(w, http.StatusInternalServerError, jsonio.ErrorBody{Error: msg, Code: apperr.Code(err)})
}
