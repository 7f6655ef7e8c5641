// internal/app/features/projects/routes.go
package projects

import "github.com/go-chi/chi/v5"

// Routes returns the project endpoints (mounted under /api/projects).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{projectID}", h.Get)
	r.Get("/{projectID}/available_users", h.AvailableUsers)
	r.Get("/{projectID}/credentials", h.Credentials)
	return r
}
