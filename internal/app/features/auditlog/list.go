// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"

	"github.com/dalemusser/deptnews/internal/app/store/audit"
	"github.com/dalemusser/deptnews/internal/app/system/daterange"
	"github.com/dalemusser/deptnews/internal/app/system/paging"
	"github.com/dalemusser/deptnews/internal/app/system/respond"
	"github.com/dalemusser/deptnews/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList handles GET /api/audit?category=&type=&dept=&user=&from=&to=&page=.
//
// from and to are civil days in the service zone, both inclusive; either may
// be omitted. Unknown categories or event types are a 400.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	category := query.Get(r, "category")
	eventType := query.Get(r, "type")

	if category != "" && category != audit.CategoryAuth && category != audit.CategoryAdmin {
		respond.Error(w, http.StatusBadRequest, "Unknown category")
		return
	}
	if eventType != "" && !validEventType(category, eventType) {
		respond.Error(w, http.StatusBadRequest, "Unknown event type")
		return
	}

	page := paging.ParsePage(r)
	filter := audit.QueryFilter{
		Department: query.Get(r, "dept"),
		Category:   category,
		EventType:  eventType,
		Limit:      PageSize,
		Offset:     int64((page - 1) * PageSize),
	}
	if u := query.Get(r, "user"); u != "" {
		oid, err := primitive.ObjectIDFromHex(u)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid user id")
			return
		}
		filter.UserID = &oid
	}
	if d, ok := daterange.ParseCivilDay(query.Get(r, "from")); ok {
		start := h.Zone.DayStart(d)
		filter.StartTime = &start
	}
	if d, ok := daterange.ParseCivilDay(query.Get(r, "to")); ok {
		end := daterange.AddDays(h.Zone.DayStart(d), 1)
		filter.EndTime = &end
	}
	if filter.StartTime != nil && filter.EndTime != nil && !filter.StartTime.Before(*filter.EndTime) {
		respond.Error(w, http.StatusBadRequest, "from must not be after to")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit list")
	defer cancel()

	total, err := h.Store.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("audit count failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		h.Log.Error("audit query failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, paging.NewPage(events, page, PageSize, total))
}
