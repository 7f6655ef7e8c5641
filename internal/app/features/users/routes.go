// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Routes returns the authenticated user endpoints (mounted under /api/user).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.Me)
	return r
}
