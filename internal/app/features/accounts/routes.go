// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/dalemusser/deptnews/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the admin-only account router.
func Routes(h *Handler, sm *auth.Manager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireAdmin)
	r.Get("/users", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Patch("/{id}/password", h.HandleSetPassword)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
