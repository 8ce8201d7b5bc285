// internal/app/features/news/routes.go
package news

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the news routes. Callers wrap them in RequireSignedIn.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
}
