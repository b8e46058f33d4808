// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/app/system/auth"
	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"github.com/devcollab/devcollab/internal/app/system/timeouts"
	"github.com/devcollab/devcollab/internal/domain/models"
	"go.uber.org/zap"
)

// Service is the part of the collaboration service profiles need.
type Service interface {
	GetProfile(ctx context.Context, uid string) (models.Profile, error)
	SetRole(ctx context.Context, uid, role string) (models.Profile, error)
	SetDisplayName(ctx context.Context, uid, name string) (models.Profile, error)
}

// SignInHistory lists a user's recent sign-ins.
type SignInHistory interface {
	Recent(ctx context.Context, uid string, limit int) ([]models.SignInRecord, error)
}

// Handler owns the caller's own profile endpoints.
type Handler struct {
	Svc     Service
	SignIns SignInHistory
	Log     *zap.Logger
}

// NewHandler constructs a profile Handler.
func NewHandler(svc Service, signIns SignInHistory, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, SignIns: signIns, Log: logger}
}

// ServeProfile handles GET /api/profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Svc.GetProfile(ctx, u.ID)
	if err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}
	jsonio.Write(w, http.StatusOK, p)
}

type roleRequest struct {
	Role *string `json:"role"`
}

// HandleSetRole handles PUT /api/profile/role. Any string is accepted.
func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req roleRequest
	if err := jsonio.Decode(w, r, &req); err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}
	if req.Role == nil {
		jsonio.Error(w, r, h.Log, apperr.Invalid("role is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Svc.SetRole(ctx, u.ID, *req.Role)
	if err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}
	if !models.IsKnownProfileRole(p.Role) {
		h.Log.Debug("custom role stored", zap.String("uid", u.ID), zap.String("role", p.Role))
	}
	jsonio.Write(w, http.StatusOK, p)
}

type rolesResponse struct {
	Roles []models.ProfileRole `json:"roles"`
}

// ServeRoles handles GET /api/profile/roles, the options a role picker
// offers. SetRole accepts values outside this list.
func (h *Handler) ServeRoles(w http.ResponseWriter, r *http.Request) {
	jsonio.Write(w, http.StatusOK, rolesResponse{Roles: models.AllProfileRoles})
}

type displayNameRequest struct {
	DisplayName string `json:"displayName"`
}

// HandleSetDisplayName handles PUT /api/profile/display-name.
func (h *Handler) HandleSetDisplayName(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req displayNameRequest
	if err := jsonio.Decode(w, r, &req); err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Svc.SetDisplayName(ctx, u.ID, req.DisplayName)
	if err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}
	jsonio.Write(w, http.StatusOK, p)
}

type signInsResponse struct {
	SignIns []models.SignInRecord `json:"signIns"`
}

// ServeSignIns handles GET /api/profile/sign-ins?limit=N.
func (h *Handler) ServeSignIns(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	limit := 10
	if raw := query.Get(r, "limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			jsonio.Error(w, r, h.Log, apperr.Invalid("limit must be a positive integer"))
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	recs, err := h.SignIns.Recent(ctx, u.ID, limit)
	if err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}
	jsonio.Write(w, http.StatusOK, signInsResponse{SignIns: recs})
}
