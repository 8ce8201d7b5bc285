// internal/app/features/upload/routes.go
package upload

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the upload router. Callers wrap it in RequireSignedIn.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeUpload)
	return r
}
