// internal/app/features/userinfo/handler.go
package userinfo

import (
	"errors"
	"net/http"

	accountstore "github.com/dalemusser/deptnews/internal/app/store/accounts"
	"github.com/dalemusser/deptnews/internal/app/system/auth"
	"github.com/dalemusser/deptnews/internal/app/system/respond"
	"github.com/dalemusser/deptnews/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the /api/data lookups: the department directory and the
// signed-in account.
type Handler struct {
	Accounts *accountstore.Store
	Log      *zap.Logger
}

// NewHandler creates a new userinfo handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Accounts: accountstore.New(db), Log: logger}
}

// ServeDepartments returns every department that has an account:
//
//	[ { "deptShort": "CSE", "deptLong": "Computer Science" }, ... ]
//
// Public, so the login page can list departments.
func (h *Handler) ServeDepartments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list departments")
	defer cancel()

	depts, err := h.Accounts.ListDepartments(ctx)
	if err != nil {
		h.Log.Error("list departments failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, depts)
}

// ServeUser returns the current account. The password hash is never encoded.
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)
	oid, err := primitive.ObjectIDFromHex(id.UserID)
	if err != nil {
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "current user")
	defer cancel()

	acct, err := h.Accounts.GetByID(ctx, oid)
	if errors.Is(err, accountstore.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.Log.Error("current user lookup failed", zap.Error(err), zap.String("user_id", id.UserID))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, acct)
}
