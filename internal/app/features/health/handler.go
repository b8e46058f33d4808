package health

import (
	"context"
	"net/http"

	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"github.com/devcollab/devcollab/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Integration is an outbound adapter that may be running without
// credentials.
type Integration interface {
	IsConfigured() bool
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client       *mongo.Client
	Integrations map[string]Integration
	Log          *zap.Logger
}

// NewHandler constructs a health Handler. integrations may be nil.
func NewHandler(client *mongo.Client, integrations map[string]Integration, logger *zap.Logger) *Handler {
	return &Handler{
		Client:       client,
		Integrations: integrations,
		Log:          logger,
	}
}

type healthResponse struct {
	Status       string          `json:"status"`
	Database     string          `json:"database"`
	Message      string          `json:"message,omitempty"`
	Error        string          `json:"error,omitempty"`
	Integrations map[string]bool `json:"integrations,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "integrations":{"github":true,"gemini":false,"smtp":true} }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…" }
//
// An unconfigured integration is reported but does not fail the check.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}
	if len(h.Integrations) > 0 {
		resp.Integrations = make(map[string]bool, len(h.Integrations))
		for name, in := range h.Integrations {
			resp.Integrations[name] = in.IsConfigured()
		}
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		jsonio.Write(w, http.StatusServiceUnavailable, resp)
		return
	}

	jsonio.Write(w, http.StatusOK, resp)
}
