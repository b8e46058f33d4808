// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/devcollab/devcollab/internal/app/system/auth"
	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout handles POST /logout. The cookie is expired even when the
// session could not be decoded.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	uid := ""
	if u, ok := auth.CurrentUser(r); ok {
		uid = u.ID
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
		jsonio.Error(w, r, h.Log, err)
		return
	}
	h.Log.Info("signed out", zap.String("uid", uid))
	jsonio.Write(w, http.StatusOK, map[string]bool{"success": true})
}
