// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/deptnews/internal/app/system/attachments"
	"github.com/dalemusser/deptnews/internal/app/system/metrics"
	"github.com/dalemusser/deptnews/internal/app/system/progress"
	"github.com/dalemusser/deptnews/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Progress fans upload progress out to /api/events subscribers.
	Progress *progress.Bus
	Metrics  *metrics.Recorder
	Files    attachments.Store

	// Spool removes upload temp files abandoned in upload_dir.
	Spool *workers.SpoolCleanup
}
