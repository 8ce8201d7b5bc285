// internal/app/features/newsreport/routes.go
package newsreport

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the report under the news router. Mount it before the
// news detail route so "grouped" is never read as an id.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/grouped", h.ServeGrouped)
}
