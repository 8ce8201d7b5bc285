// internal/app/features/userinfo/routes.go
package userinfo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes mounts the /api/data lookups. signedIn guards /user.
func (h *Handler) MountRoutes(r chi.Router, signedIn func(http.Handler) http.Handler) {
	r.Get("/dept", h.ServeDepartments)
	r.With(signedIn).Get("/user", h.ServeUser)
}
