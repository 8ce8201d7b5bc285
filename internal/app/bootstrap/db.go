// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/deptnews/internal/app/system/attachments"
	"github.com/dalemusser/deptnews/internal/app/system/indexes"
	"github.com/dalemusser/deptnews/internal/app/system/metrics"
	"github.com/dalemusser/deptnews/internal/app/system/progress"
	"github.com/dalemusser/deptnews/internal/app/system/timeouts"
	"github.com/dalemusser/deptnews/internal/app/system/validators"
	"github.com/dalemusser/deptnews/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Spool files older than spoolMaxAge belong to no live request.
const (
	spoolSweepInterval = 10 * time.Minute
	spoolMaxAge        = 2 * time.Hour
)

// ConnectDB connects to MongoDB and builds the other back-ends the
// handlers share (progress bus, metrics recorder, attachment store).
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Ping(), logger, "mongo ping")
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", appCfg.MongoMaxPoolSize),
		zap.Uint64("min_pool", appCfg.MongoMinPoolSize))

	files, err := openStorage(ctx, appCfg)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, err
	}
	logger.Info("attachment storage ready", zap.String("type", appCfg.StorageType))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Progress:      progress.NewBus(progress.DefaultBuffer),
		Metrics:       metrics.New(),
		Files:         files,
		Spool:         workers.NewSpoolCleanup(appCfg.UploadDir, logger, spoolSweepInterval, spoolMaxAge),
	}, nil
}

func openStorage(ctx context.Context, appCfg AppConfig) (attachments.Store, error) {
	switch appCfg.StorageType {
	case attachments.TypeDrive:
		d, err := attachments.NewDrive(ctx, appCfg.driveConfig())
		if err != nil {
			return nil, fmt.Errorf("google drive storage: %w", err)
		}
		return d, nil
	default:
		l, err := attachments.NewLocal(appCfg.StorageLocalPath, appCfg.StorageLocalURL)
		if err != nil {
			return nil, fmt.Errorf("local storage: %w", err)
		}
		return l, nil
	}
}

// EnsureSchema creates the collections with their validators, then the
// indexes each collection relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		return fmt.Errorf("collection validators: %w", err)
	}
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}
