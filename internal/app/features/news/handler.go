// internal/app/features/news/handler.go
package news

import (
	"errors"
	"net/http"

	"github.com/dalemusser/deptnews/internal/app/policy/newspolicy"
	announcementstore "github.com/dalemusser/deptnews/internal/app/store/announcements"
	"github.com/dalemusser/deptnews/internal/app/system/auth"
	"github.com/dalemusser/deptnews/internal/app/system/daterange"
	"github.com/dalemusser/deptnews/internal/app/system/paging"
	"github.com/dalemusser/deptnews/internal/app/system/respond"
	"github.com/dalemusser/deptnews/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the paginated announcement list and single announcements.
type Handler struct {
	Store    *announcementstore.Store
	Zone     daterange.Zone
	PageSize int
	Log      *zap.Logger
}

// NewHandler constructs a news Handler.
func NewHandler(db *mongo.Database, zone daterange.Zone, pageSize int, logger *zap.Logger) *Handler {
	if pageSize < 1 {
		pageSize = paging.DefaultPageSize
	}
	return &Handler{
		Store:    announcementstore.New(db),
		Zone:     zone,
		PageSize: pageSize,
		Log:      logger,
	}
}

// List handles GET /api/news?page=&dept=&date=.
//
// dept only narrows the list for admins; department accounts always see
// their own department. date selects one civil day and is ignored when it
// is not a valid YYYY-MM-DD.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)
	scope := newspolicy.ResolveScope(id, query.Get(r, "dept"))
	page := paging.ParsePage(r)

	filter := announcementstore.Filter{AllDepartments: scope.All, Department: scope.Department}
	if d, ok := daterange.ParseCivilDay(query.Get(r, "date")); ok {
		rng := h.Zone.Day(d)
		filter.Range = &rng
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "news list")
	defer cancel()

	rows, total, err := h.Store.List(ctx, filter, page, h.PageSize)
	if err != nil {
		h.Log.Error("news list failed", zap.Error(err), zap.String("scope", scope.String()))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, paging.NewPage(rows, page, h.PageSize, total))
}

// Show handles GET /api/news/{id}.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid news id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "news detail")
	defer cancel()

	a, err := h.Store.GetByID(ctx, oid)
	if errors.Is(err, announcementstore.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "News not found")
		return
	}
	if err != nil {
		h.Log.Error("news lookup failed", zap.Error(err), zap.String("news_id", oid.Hex()))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	id, _ := auth.CurrentIdentity(r)
	if !newspolicy.CanView(id, a.Department) {
		respond.Error(w, http.StatusForbidden, "Forbidden")
		return
	}

	respond.JSON(w, http.StatusOK, a)
}
