// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	accountsfeature "github.com/dalemusser/deptnews/internal/app/features/accounts"
	auditlogfeature "github.com/dalemusser/deptnews/internal/app/features/auditlog"
	eventsfeature "github.com/dalemusser/deptnews/internal/app/features/events"
	healthfeature "github.com/dalemusser/deptnews/internal/app/features/health"
	loginfeature "github.com/dalemusser/deptnews/internal/app/features/login"
	newsfeature "github.com/dalemusser/deptnews/internal/app/features/news"
	newsreportfeature "github.com/dalemusser/deptnews/internal/app/features/newsreport"
	uploadfeature "github.com/dalemusser/deptnews/internal/app/features/upload"
	userinfofeature "github.com/dalemusser/deptnews/internal/app/features/userinfo"
	announcementstore "github.com/dalemusser/deptnews/internal/app/store/announcements"
	"github.com/dalemusser/deptnews/internal/app/store/audit"
	"github.com/dalemusser/deptnews/internal/app/system/attachments"
	"github.com/dalemusser/deptnews/internal/app/system/auditlog"
	"github.com/dalemusser/deptnews/internal/app/system/auth"
	"github.com/dalemusser/deptnews/internal/app/system/daterange"
	"github.com/dalemusser/deptnews/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Failed logins allowed per username before it is locked for the window.
const (
	loginAttempts       = 5
	loginAttemptsWindow = 5 * time.Minute
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Every JSON endpoint lives under /api;
// /health and /metrics sit at the root for probes and scrapers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	zone := daterange.IST

	tokens, err := auth.NewTokens(appCfg.JWTSecret, appCfg.JWTTTL)
	if err != nil {
		logger.Error("token issuer init failed", zap.Error(err))
		return nil, err
	}
	sm := auth.NewManager(tokens, logger)

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	r := chi.NewRouter()

	r.Use(deps.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Loads the bearer identity (if any) for every request.
	r.Use(sm.LoadIdentity)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Progress, appCfg.StorageType, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", deps.Metrics.Handler())

	// Locally stored attachments; Drive links point straight at Google.
	if appCfg.StorageType == attachments.TypeLocal && appCfg.StorageLocalURL != "" {
		prefix := appCfg.StorageLocalURL
		r.Handle(prefix+"/*", fileserver.Handler(prefix, appCfg.StorageLocalPath))
	}

	newsHandler := newsfeature.NewHandler(db, zone, appCfg.ListPageSize, logger)
	reportHandler := newsreportfeature.NewHandler(
		db.Collection(announcementstore.CollectionName), zone, appCfg.ReportDefaultDays, deps.Metrics, logger)

	attempts := ratelimit.New(loginAttempts, loginAttemptsWindow)
	loginHandler := loginfeature.NewHandler(db, tokens, auditLog, attempts, logger)

	uploadHandler := uploadfeature.NewHandler(db, deps.Files, deps.Progress, auditLog, deps.Metrics,
		appCfg.UploadDir, appCfg.UploadMaxBytes, logger)

	eventsHandler := eventsfeature.NewHandler(deps.Progress, logger)
	userinfoHandler := userinfofeature.NewHandler(db, logger)
	accountsHandler := accountsfeature.NewHandler(db, auditLog, logger)
	auditHandler := auditlogfeature.NewHandler(db, zone, logger)

	r.Route("/api", func(api chi.Router) {
		api.Mount("/login", loginfeature.Routes(loginHandler, appCfg.LoginRateLimit))

		api.Route("/news", func(nr chi.Router) {
			nr.Use(sm.RequireSignedIn)
			reportHandler.MountRoutes(nr)
			newsHandler.MountRoutes(nr)
		})

		api.Route("/data", func(dr chi.Router) {
			userinfoHandler.MountRoutes(dr, sm.RequireSignedIn)
			dr.With(sm.RequireSignedIn).Get("/news/{id}", newsHandler.Show)
		})

		api.With(sm.RequireSignedIn).Mount("/upload", uploadfeature.Routes(uploadHandler))

		// EventSource cannot send headers, so the token may ride in the query.
		api.Route("/events", func(er chi.Router) {
			er.Use(sm.LoadQueryToken, sm.RequireSignedIn)
			eventsHandler.MountRoutes(er)
		})

		api.Mount("/account", accountsfeature.Routes(accountsHandler, sm))
		api.Mount("/audit", auditlogfeature.Routes(auditHandler, sm))
	})

	return r, nil
}
