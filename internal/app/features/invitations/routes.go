// internal/app/features/invitations/routes.go
package invitations

import "github.com/go-chi/chi/v5"

// Routes returns the invitation endpoints (mounted under /api/invitation).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Invite)
	r.Get("/", h.List)
	r.Post("/{projectID}/accept", h.Accept)
	r.Post("/{projectID}/deny", h.Deny)
	return r
}
