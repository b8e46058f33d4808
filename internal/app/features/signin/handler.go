// internal/app/features/signin/handler.go
package signin

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"

	"github.com/devcollab/devcollab/internal/app/collab"
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/app/system/auth"
	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"github.com/devcollab/devcollab/internal/app/system/timeouts"
	"github.com/devcollab/devcollab/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// ProfileResolver creates or loads the profile of a signed-in identity.
type ProfileResolver interface {
	GetOrCreateProfile(ctx context.Context, id collab.Identity) (models.Profile, bool, error)
}

// SignInRecorder keeps the sign-in history.
type SignInRecorder interface {
	CreateFrom(ctx context.Context, r *http.Request, uid, provider string, newProfile bool) error
}

// Handler runs the OAuth sign-in flows.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Profiles   ProfileResolver
	Providers  map[string]*Provider
	History    SignInRecorder // optional

	// AfterSignIn is where browsers land when a flow ends. Failures add
	// ?auth_error=<code>.
	AfterSignIn string
}

// NewHandler creates a sign-in handler for the given providers.
func NewHandler(sessionMgr *auth.SessionManager, profiles ProfileResolver, logger *zap.Logger, providers ...*Provider) *Handler {
	h := &Handler{
		Log:         logger,
		SessionMgr:  sessionMgr,
		Profiles:    profiles,
		Providers:   make(map[string]*Provider, len(providers)),
		AfterSignIn: "/",
	}
	for _, p := range providers {
		h.Providers[p.Name] = p
	}
	return h
}

func (h *Handler) provider(w http.ResponseWriter, r *http.Request) (*Provider, bool) {
	p, ok := h.Providers[chi.URLParam(r, "provider")]
	if !ok {
		jsonio.Error(w, r, h.Log, apperr.NotFound("Unknown sign-in provider"))
		return nil, false
	}
	return p, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, code string) {
	dest := h.AfterSignIn + "?auth_error=" + url.QueryEscape(code)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// generateState returns a random URL-safe anti-forgery token.
func generateState() string {
	return base64.RawURLEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/{provider}                                                         |
| Redirects to the provider's consent screen.                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	if !p.IsConfigured() {
		h.Log.Warn("OAuth provider not configured", zap.String("provider", p.Name))
		h.fail(w, r, p.Name+"_not_configured")
		return
	}

	state := generateState()
	if state == "" {
		h.Log.Error("failed to generate OAuth state")
		h.fail(w, r, "internal")
		return
	}
	if err := h.SessionMgr.SetOAuthState(w, r, state); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		h.fail(w, r, "internal")
		return
	}

	dest := p.OAuth.AuthCodeURL(state)
	h.Log.Debug("initiating OAuth flow", zap.String("provider", p.Name))
	http.Redirect(w, r, dest, http.StatusFound)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/{provider}/callback                                                |
| Exchanges the code, resolves the identity, gets or creates the profile and   |
| starts the session.                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		h.Log.Warn("OAuth error from provider",
			zap.String("provider", p.Name),
			zap.String("error", errParam),
			zap.String("description", q.Get("error_description")))
		h.fail(w, r, "denied")
		return
	}

	want := h.SessionMgr.TakeOAuthState(w, r)
	got := q.Get("state")
	if want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		h.Log.Warn("invalid or missing OAuth state", zap.String("provider", p.Name))
		h.fail(w, r, "invalid_state")
		return
	}

	code := q.Get("code")
	if code == "" {
		h.fail(w, r, "invalid_code")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "oauth callback")
	defer cancel()

	token, err := p.OAuth.Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.String("provider", p.Name), zap.Error(err))
		h.fail(w, r, "token_exchange")
		return
	}

	id, err := p.Identify(ctx, p.OAuth.Client(ctx, token))
	if err != nil {
		h.Log.Error("failed to fetch identity", zap.String("provider", p.Name), zap.Error(err))
		h.fail(w, r, "user_info")
		return
	}

	prof, created, err := h.Profiles.GetOrCreateProfile(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			h.Log.Info("sign-in rejected", zap.String("uid", id.UID), zap.Error(err))
			h.fail(w, r, "no_email")
			return
		}
		h.Log.Error("failed to load profile", zap.String("uid", id.UID), zap.Error(err))
		h.fail(w, r, "internal")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:       prof.ID,
		Name:     prof.DisplayName,
		Email:    prof.Email,
		PhotoURL: prof.PhotoURL,
	}); err != nil {
		h.Log.Error("failed to save session", zap.Error(err))
		h.fail(w, r, "internal")
		return
	}

	if h.History != nil {
		if err := h.History.CreateFrom(ctx, r, prof.ID, p.Name, created); err != nil {
			h.Log.Warn("failed to record sign-in", zap.String("uid", prof.ID), zap.Error(err))
		}
	}

	h.Log.Info("signed in",
		zap.String("provider", p.Name),
		zap.String("uid", prof.ID),
		zap.Bool("new_profile", created))
	http.Redirect(w, r, h.AfterSignIn, http.StatusSeeOther)
}
