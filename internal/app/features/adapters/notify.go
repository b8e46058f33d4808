// internal/app/features/adapters/notify.go
package adapters

import (
	"net/http"

	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"github.com/devcollab/devcollab/internal/app/system/notify"
	"github.com/devcollab/devcollab/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type sendUpdateResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
}

// HandleSendUpdate handles POST /api/notifications/send-update. Every
// failure, input errors included, is a 500.
func (h *Handler) HandleSendUpdate(w http.ResponseWriter, r *http.Request) {
	var u notify.Update
	if err := jsonio.Decode(w, r, &u); err != nil {
		h.failSend(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "send update")
	defer cancel()

	summary, err := h.Notifier.SendUpdate(ctx, u)
	if err != nil {
		h.failSend(w, r, err)
		return
	}

	h.Log.Info("update sent",
		zap.String("project", u.ProjectName),
		zap.Int("recipients", len(u.Collaborators)))
	jsonio.Write(w, http.StatusOK, sendUpdateResponse{Success: true, Summary: summary})
}

func (h *Handler) failSend(w http.ResponseWriter, r *http.Request, err error) {
	h.Log.Error("send-update failed", zap.Error(err))
	jsonio.Write(w, http.StatusInternalServerError, jsonio.ErrorBody{Error: "Failed to send notifications", Code: "notification_failed"})
}
