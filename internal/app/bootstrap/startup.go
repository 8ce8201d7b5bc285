// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"os"

	accountstore "github.com/dalemusser/deptnews/internal/app/store/accounts"
	"github.com/dalemusser/deptnews/internal/app/system/timeouts"
	"github.com/dalemusser/deptnews/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n))
	}

	if err := os.MkdirAll(appCfg.UploadDir, 0o755); err != nil {
		return err
	}

	if deps.Spool != nil {
		deps.Spool.Start()
	}

	if appCfg.SeedAdminUsername != "" {
		if err := ensureAdmin(ctx, deps, appCfg.SeedAdminUsername, appCfg.SeedAdminPassword, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureAdmin creates an admin account when none exists yet. An existing
// admin (under any username) leaves the collection untouched.
func ensureAdmin(ctx context.Context, deps DBDeps, username, password string, logger *zap.Logger) error {
	store := accountstore.New(deps.MongoDatabase)

	n, err := store.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Debug("admin account present; skipping seed", zap.Int64("admins", n))
		return nil
	}

	a, err := store.Create(ctx, accountstore.NewInput{
		Username: username,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if errors.Is(err, accountstore.ErrDuplicateUsername) {
		logger.Warn("seed admin username is taken by a department account", zap.String("username", username))
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("seeded admin account", zap.String("username", a.Username), zap.String("id", a.ID.Hex()))
	return nil
}
