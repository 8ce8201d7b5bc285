// internal/app/features/events/routes.go
package events

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the progress stream.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.ServeEvents)
}
