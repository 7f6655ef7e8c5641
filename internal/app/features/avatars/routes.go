// internal/app/features/avatars/routes.go
package avatars

import "github.com/go-chi/chi/v5"

// Routes returns the avatar endpoints (mounted under /api/avatars).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	return r
}
