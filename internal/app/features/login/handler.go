// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"

	accountstore "github.com/dalemusser/deptnews/internal/app/store/accounts"
	"github.com/dalemusser/deptnews/internal/app/system/auditlog"
	"github.com/dalemusser/deptnews/internal/app/system/auth"
	"github.com/dalemusser/deptnews/internal/app/system/ratelimit"
	"github.com/dalemusser/deptnews/internal/app/system/respond"
	"github.com/dalemusser/deptnews/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const msgInvalidCredentials = "Invalid credentials"

type Handler struct {
	Accounts *accountstore.Store
	Tokens   *auth.Tokens
	Audit    *auditlog.Logger
	Attempts *ratelimit.Limiter // failed attempts per username; nil disables
	Log      *zap.Logger
}

// NewHandler constructs a login Handler.
func NewHandler(db *mongo.Database, tokens *auth.Tokens, audit *auditlog.Logger, attempts *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{
		Accounts: accountstore.New(db),
		Tokens:   tokens,
		Audit:    audit,
		Attempts: attempts,
		Log:      logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// HandleLogin handles POST /api/login {username, password} -> {token}.
// Unknown usernames and wrong passwords get the same 401.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	if h.Attempts != nil && h.Attempts.Remaining(username) == 0 {
		h.Audit.LoginFailedRateLimit(ctx, r)
		respond.Error(w, http.StatusTooManyRequests, "Too many login attempts. Please wait a few minutes.")
		return
	}

	acct, err := h.Accounts.GetByUsername(ctx, username)
	if errors.Is(err, accountstore.ErrNotFound) {
		h.recordFailure(username)
		h.Audit.LoginFailedUserNotFound(ctx, r, username)
		respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		h.Log.Error("login lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !accountstore.CheckPassword(acct, req.Password) {
		h.recordFailure(username)
		h.Audit.LoginFailedWrongPassword(ctx, r, acct.ID, acct.Username)
		respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := h.Tokens.Issue(auth.Identity{
		UserID:     acct.ID.Hex(),
		Username:   acct.Username,
		Role:       acct.Role,
		Department: acct.DeptShort,
	})
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err), zap.String("user_id", acct.ID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if h.Attempts != nil {
		h.Attempts.Reset(username)
	}
	h.Audit.LoginSuccess(ctx, r, acct.ID, acct.Username, acct.DeptShort)
	respond.JSON(w, http.StatusOK, loginResponse{Token: token})
}

// RateLimited is the httprate limit handler for the per-IP login throttle.
func (h *Handler) RateLimited(w http.ResponseWriter, r *http.Request) {
	h.Audit.LoginFailedRateLimit(r.Context(), r)
	respond.Error(w, http.StatusTooManyRequests, "Too many login attempts. Please wait a minute before trying again.")
}

func (h *Handler) recordFailure(username string) {
	if h.Attempts != nil {
		h.Attempts.Allow(username)
	}
}
