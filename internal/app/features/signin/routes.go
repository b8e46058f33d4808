// internal/app/features/signin/routes.go
package signin

import "github.com/go-chi/chi/v5"

// Routes returns the router for the OAuth endpoints, mounted under /auth.
// These routes are public.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// GET /auth/{provider} - start the flow
	r.Get("/{provider}", h.ServeLogin)

	// GET /auth/{provider}/callback - finish it
	r.Get("/{provider}/callback", h.ServeCallback)

	return r
}
