// internal/app/features/accounts/handler.go
package accounts

import (
	accountstore "github.com/dalemusser/deptnews/internal/app/store/accounts"
	"github.com/dalemusser/deptnews/internal/app/system/auditlog"
	"github.com/dalemusser/deptnews/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the admin-only account management API.
type Handler struct {
	Accounts *accountstore.Store
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs an accounts Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Accounts: accountstore.New(db),
		Audit:    audit,
		Log:      logger,
	}
}

// Access levels as older clients know them.
const (
	accessFull    = "full"
	accessLimited = "limited"
)

// accountView is the public shape of an account.
type accountView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	DeptShort string `json:"deptShort"`
	DeptLong  string `json:"deptLong"`
	Role      string `json:"role"`
	Access    string `json:"access"`
}

func toView(a models.Account) accountView {
	access := accessLimited
	if a.Role == models.RoleAdmin {
		access = accessFull
	}
	return accountView{
		ID:        a.ID.Hex(),
		Username:  a.Username,
		DeptShort: a.DeptShort,
		DeptLong:  a.DeptLong,
		Role:      a.Role,
		Access:    access,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}
