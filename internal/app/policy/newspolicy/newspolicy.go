// Package newspolicy decides which departments' announcements a caller may read.
//
// Authorization rules:
//   - Department accounts are always scoped to their own department. A
//     requested department is ignored, whatever it contains.
//   - Admins see every department unless they ask for a specific one, in
//     which case the scope narrows to that department.
//
// Scope resolution never fails: every identity maps to a defined scope.
package newspolicy

import (
	"strings"

	"github.com/dalemusser/deptnews/internal/app/system/auth"
	"github.com/dalemusser/deptnews/internal/domain/models"
)

// AllDepartments is the external spelling of an unrestricted scope.
const AllDepartments = "all"

// Scope is the effective department filter for a read.
type Scope struct {
	// All is true when the read may touch every department.
	All bool
	// Department is the single department the read is restricted to when All is false.
	Department string
}

// String returns the department code, or "all" for an unrestricted scope.
func (s Scope) String() string {
	if s.All {
		return AllDepartments
	}
	return s.Department
}

// Matches reports whether an announcement from dept is inside the scope.
func (s Scope) Matches(dept string) bool {
	return s.All || s.Department == dept
}

// ResolveScope maps an identity and an optional requested department to the
// effective scope.
//
// Any role other than admin is treated as a department account, so an
// unknown or malformed role can never widen access.
func ResolveScope(id auth.Identity, requestedDept string) Scope {
	if id.Role != models.RoleAdmin {
		return Scope{Department: id.Department}
	}
	if dept := strings.TrimSpace(requestedDept); dept != "" {
		return Scope{Department: dept}
	}
	return Scope{All: true}
}

// CanView reports whether id may read a single announcement from dept.
func CanView(id auth.Identity, dept string) bool {
	return ResolveScope(id, "").Matches(dept)
}
