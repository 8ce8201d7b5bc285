// internal/app/features/accounts/edit.go
package accounts

import (
	"errors"
	"net/http"

	accountstore "github.com/dalemusser/deptnews/internal/app/store/accounts"
	"github.com/dalemusser/deptnews/internal/app/system/auth"
	"github.com/dalemusser/deptnews/internal/app/system/respond"
	"github.com/dalemusser/deptnews/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type passwordRequest struct {
	Password string `json:"password"`
}

// HandleSetPassword handles PATCH /api/account/{id}/password. Any account,
// admins included, can be reset.
func (h *Handler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	oid, ok := accountID(w, r)
	if !ok {
		return
	}

	var req passwordRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Password required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "set password")
	defer cancel()

	err := h.Accounts.SetPassword(ctx, oid, req.Password)
	if errors.Is(err, accountstore.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.Log.Error("set password failed", zap.Error(err), zap.String("user_id", oid.Hex()))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	actor, _ := auth.CurrentIdentity(r)
	h.Audit.PasswordChanged(ctx, r, actor.UserID, oid)
	respond.JSON(w, http.StatusOK, messageResponse{Message: "Password updated"})
}

// HandleDelete handles DELETE /api/account/{id}. Admin accounts are refused.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, ok := accountID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete account")
	defer cancel()

	acct, err := h.Accounts.Delete(ctx, oid)
	switch {
	case errors.Is(err, accountstore.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, accountstore.ErrProtectedAccount):
		respond.Error(w, http.StatusBadRequest, "Cannot delete admin accounts")
		return
	case err != nil:
		h.Log.Error("delete account failed", zap.Error(err), zap.String("user_id", oid.Hex()))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	actor, _ := auth.CurrentIdentity(r)
	h.Audit.AccountDeleted(ctx, r, actor.UserID, acct.ID, acct.Username, acct.DeptShort)
	respond.JSON(w, http.StatusOK, messageResponse{Message: "User deleted"})
}

func accountID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid user id")
		return primitive.NilObjectID, false
	}
	return oid, true
}
