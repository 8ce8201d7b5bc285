// internal/app/features/accounts/new.go
package accounts

import (
	"errors"
	"net/http"
	"strings"

	accountstore "github.com/dalemusser/deptnews/internal/app/store/accounts"
	"github.com/dalemusser/deptnews/internal/app/system/auth"
	"github.com/dalemusser/deptnews/internal/app/system/respond"
	"github.com/dalemusser/deptnews/internal/app/system/timeouts"
	"github.com/dalemusser/deptnews/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	DeptShort string `json:"deptShort"`
	DeptLong  string `json:"deptLong"`
	Access    string `json:"access"` // accepted and ignored
}

// HandleCreate handles POST /api/account. Only department accounts are
// created here; the admin account comes from startup seeding.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" ||
		strings.TrimSpace(req.DeptShort) == "" || strings.TrimSpace(req.DeptLong) == "" {
		respond.Error(w, http.StatusBadRequest, "Missing fields")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create account")
	defer cancel()

	acct, err := h.Accounts.Create(ctx, accountstore.NewInput{
		Username:  req.Username,
		Password:  req.Password,
		Role:      models.RoleDepartment,
		DeptShort: req.DeptShort,
		DeptLong:  req.DeptLong,
	})
	if errors.Is(err, accountstore.ErrDuplicateUsername) {
		respond.Error(w, http.StatusConflict, "Username already exists")
		return
	}
	if err != nil {
		h.Log.Error("create account failed", zap.Error(err), zap.String("username", req.Username))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	actor, _ := auth.CurrentIdentity(r)
	h.Audit.AccountCreated(ctx, r, actor.UserID, acct.ID, acct.Username, acct.DeptShort)
	respond.JSON(w, http.StatusCreated, toView(acct))
}
