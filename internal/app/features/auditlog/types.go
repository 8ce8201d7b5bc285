// internal/app/features/auditlog/types.go
package auditlog

import "github.com/dalemusser/deptnews/internal/app/store/audit"

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedRateLimit,
		audit.EventPasswordChanged,
	}
	adminEvents := []string{
		audit.EventAccountCreated,
		audit.EventAccountDeleted,
		audit.EventAnnouncementCreated,
		audit.EventFileAttached,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		return append(append([]string{}, authEvents...), adminEvents...)
	default:
		return nil
	}
}

func validEventType(category, eventType string) bool {
	for _, t := range eventTypesForCategory(category) {
		if t == eventType {
			return true
		}
	}
	return false
}
