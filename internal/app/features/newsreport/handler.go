// internal/app/features/newsreport/handler.go
package newsreport

import (
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/deptnews/internal/app/policy/newspolicy"
	"github.com/dalemusser/deptnews/internal/app/store/queries/reportqueries"
	"github.com/dalemusser/deptnews/internal/app/system/auth"
	"github.com/dalemusser/deptnews/internal/app/system/daterange"
	"github.com/dalemusser/deptnews/internal/app/system/metrics"
	"github.com/dalemusser/deptnews/internal/app/system/respond"
	"github.com/dalemusser/deptnews/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// Handler serves announcements grouped by civil day.
type Handler struct {
	Agg         reportqueries.Aggregator
	Zone        daterange.Zone
	DefaultDays int
	Metrics     *metrics.Recorder
	Log         *zap.Logger

	now func() time.Time
}

// NewHandler constructs a report Handler. agg is normally the announcements
// collection.
func NewHandler(agg reportqueries.Aggregator, zone daterange.Zone, defaultDays int, m *metrics.Recorder, logger *zap.Logger) *Handler {
	return &Handler{
		Agg:         agg,
		Zone:        zone,
		DefaultDays: defaultDays,
		Metrics:     m,
		Log:         logger,
		now:         time.Now,
	}
}

// SetClock replaces the handler's clock. Used by tests that depend on "today".
func (h *Handler) SetClock(now func() time.Time) { h.now = now }

// ServeGrouped handles GET /api/news/grouped?dept=&date=&from=&to=.
//
// Admins asking for every department get per-department counts; any narrower
// scope gets the announcements themselves. The response is the bare bucket
// array, newest day first.
func (h *Handler) ServeGrouped(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, _ := auth.CurrentIdentity(r)
	scope := newspolicy.ResolveScope(id, query.Get(r, "dept"))
	rng := h.Zone.Resolve(daterange.ParamsFromQuery(r.URL.Query()), h.DefaultDays, h.now())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "grouped news report")
	defer cancel()

	buckets, err := reportqueries.NewsByDay(ctx, h.Agg, scope, rng, h.Zone)
	if errors.Is(err, daterange.ErrInvalidRange) {
		respond.Error(w, http.StatusBadRequest, "from must not be after to")
		return
	}
	if err != nil {
		h.Log.Error("grouped news report failed",
			zap.Error(err),
			zap.String("scope", scope.String()),
			zap.Time("start", rng.Start),
			zap.Time("end", rng.End),
		)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.Metrics.ObserveReport(string(reportqueries.ShapeFor(scope)), time.Since(start))
	respond.JSON(w, http.StatusOK, buckets)
}
