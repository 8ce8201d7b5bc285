// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/dalemusser/deptnews/internal/app/store/audit"
	"github.com/dalemusser/deptnews/internal/app/system/daterange"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// PageSize is the number of events per page.
const PageSize = 50

type Handler struct {
	Store *audit.Store
	Zone  daterange.Zone
	Log   *zap.Logger
}

// NewHandler constructs an Audit Log feature handler bound to
// the given Mongo database and logger.
func NewHandler(db *mongo.Database, zone daterange.Zone, logger *zap.Logger) *Handler {
	return &Handler{
		Store: audit.New(db),
		Zone:  zone,
		Log:   logger,
	}
}
