// internal/app/features/accounts/list.go
package accounts

import (
	"net/http"

	"github.com/dalemusser/deptnews/internal/app/system/respond"
	"github.com/dalemusser/deptnews/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeList handles GET /api/account/users: admins first, then by username.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list accounts")
	defer cancel()

	accts, err := h.Accounts.List(ctx)
	if err != nil {
		h.Log.Error("list accounts failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]accountView, 0, len(accts))
	for _, a := range accts {
		out = append(out, toView(a))
	}
	respond.JSON(w, http.StatusOK, out)
}
