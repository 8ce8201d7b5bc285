// internal/app/features/login/routes.go
package login

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// Routes returns the login router. perMinute caps login requests per client
// IP; zero or less disables the throttle.
func Routes(h *Handler, perMinute int) chi.Router {
	r := chi.NewRouter()
	if perMinute > 0 {
		r.Use(httprate.Limit(perMinute, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(h.RateLimited),
		))
	}
	r.Post("/", h.HandleLogin)
	return r
}
