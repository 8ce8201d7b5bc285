// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/deptnews/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log API, typically at "/api/audit". Admins only.
func Routes(h *Handler, sm *auth.Manager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireAdmin)
	r.Get("/", h.ServeList)
	return r
}
