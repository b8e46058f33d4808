// internal/app/features/webhooks/handler.go
package webhooks

import (
	"context"
	"errors"
	"net/http"

	"github.com/devcollab/devcollab/internal/app/collab"
	"github.com/devcollab/devcollab/internal/app/integrations/github"
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"github.com/devcollab/devcollab/internal/app/system/metrics"
	"go.uber.org/zap"
)

// PushRelay is implemented by *collab.Relay.
type PushRelay interface {
	HandlePush(ctx context.Context, ev github.PushEvent) (collab.RelayResult, error)
}

// Handler receives GitHub webhook deliveries.
type Handler struct {
	Relay   PushRelay
	Secret  string // empty accepts unsigned deliveries
	Metrics metrics.Recorder
	Log     *zap.Logger
}

func NewHandler(relay PushRelay, secret string, rec metrics.Recorder, logger *zap.Logger) *Handler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Handler{Relay: relay, Secret: secret, Metrics: rec, Log: logger}
}

type messageResponse struct {
	Message string `json:"message"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// ServeGitHub handles POST /api/webhooks/github.
func (h *Handler) ServeGitHub(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, jsonio.MaxBody)

	d, err := github.ReadDelivery(r, h.Secret)
	if err != nil {
		h.Metrics.WebhookDelivery(metrics.WebhookFailed)
		if errors.Is(err, apperr.ErrForbidden) {
			h.Log.Warn("webhook signature rejected", zap.Error(err))
			jsonio.Write(w, http.StatusForbidden, jsonio.ErrorBody{Error: "Invalid signature", Code: "forbidden"})
			return
		}
		h.fail(w, err)
		return
	}

	if d.Push == nil {
		h.Metrics.WebhookDelivery(metrics.WebhookIgnoredEvent)
		h.Log.Debug("webhook event ignored", zap.String("event", d.Event))
		jsonio.Write(w, http.StatusOK, messageResponse{Message: "Event ignored"})
		return
	}

	res, err := h.Relay.HandlePush(r.Context(), *d.Push)
	if err != nil {
		h.fail(w, err)
		return
	}
	if !res.Relayed() {
		h.Log.Debug("push not relayed",
			zap.String("outcome", res.Outcome),
			zap.String("ref", d.Push.Ref),
			zap.String("repo", d.Push.RepoURL))
		jsonio.Write(w, http.StatusOK, messageResponse{Message: res.Message})
		return
	}
	jsonio.Write(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.Log.Error("webhook processing failed", zap.Error(err))
	jsonio.Write(w, http.StatusInternalServerError, jsonio.ErrorBody{Error: "Webhook processing failed", Code: apperr.Code(err)})
}
