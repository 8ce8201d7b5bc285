// internal/domain/models/account.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles.
const (
	RoleAdmin      = "admin"
	RoleDepartment = "department"
)

// Account is a login for either the administrator or one department.
type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	UsernameCI   string             `bson:"username_ci" json:"-"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"`                      // admin | department
	DeptShort    string             `bson:"dept_short,omitempty" json:"deptShort"` // "IT", "CSE", ...
	DeptLong     string             `bson:"dept_long,omitempty" json:"deptLong"`   // full department name
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}
