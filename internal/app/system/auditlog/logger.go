// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dalemusser/deptnews/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination settings for a category.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off" // disabled
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, password changes).
	Auth string
	// Admin controls logging for admin actions (accounts, announcements, attachments).
	Admin string
}

// ValidMode reports whether s is one of the accepted destination settings.
func ValidMode(s string) bool {
	switch s {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Logger records audit events to MongoDB (via audit.Store) and to zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// ClientIP extracts the client IP: first X-Forwarded-For entry, then
// X-Real-IP, then the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		return strings.TrimSpace(xr)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.Department != "" {
		fields = append(fields, zap.String("department", event.Department))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event according to the category's setting.
// A nil Logger is a no-op so handlers under test can omit it.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = ModeAll
	}

	if setting == ModeOff {
		return
	}
	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}
	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// parseID turns an identity's hex id into an ObjectID pointer, or nil.
func parseID(hex string) *primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &id
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, username, department string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAuth,
		EventType:  audit.EventLoginSuccess,
		UserID:     &userID,
		Department: department,
		IP:         ClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details:    map[string]string{"username": username},
	})
}

// LoginFailedUserNotFound logs a failed login for an unknown username.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedUsername string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            ClientIP(r),
		UserAgent:     r.UserAgent(),
		FailureReason: "user not found",
		Details:       map[string]string{"attempted_username": attemptedUsername},
	})
}

// LoginFailedWrongPassword logs a failed login due to a wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, username string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		IP:            ClientIP(r),
		UserAgent:     r.UserAgent(),
		FailureReason: "wrong password",
		Details:       map[string]string{"username": username},
	})
}

// LoginFailedRateLimit logs a login attempt rejected by the rate limiter.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedRateLimit,
		IP:            ClientIP(r),
		UserAgent:     r.UserAgent(),
		FailureReason: "rate limited",
	})
}

// PasswordChanged logs an admin resetting an account's password.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, actorID string, targetID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordChanged,
		UserID:    &targetID,
		ActorID:   parseID(actorID),
		IP:        ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Admin Events ---

// AccountCreated logs creation of an account.
func (l *Logger) AccountCreated(ctx context.Context, r *http.Request, actorID string, targetID primitive.ObjectID, username, department string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventAccountCreated,
		UserID:     &targetID,
		ActorID:    parseID(actorID),
		Department: department,
		IP:         ClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details:    map[string]string{"username": username},
	})
}

// AccountDeleted logs deletion of an account.
func (l *Logger) AccountDeleted(ctx context.Context, r *http.Request, actorID string, targetID primitive.ObjectID, username, department string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventAccountDeleted,
		UserID:     &targetID,
		ActorID:    parseID(actorID),
		Department: department,
		IP:         ClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details:    map[string]string{"username": username},
	})
}

// AnnouncementCreated logs a new announcement.
func (l *Logger) AnnouncementCreated(ctx context.Context, r *http.Request, actorID string, newsID primitive.ObjectID, department, title string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventAnnouncementCreated,
		ActorID:    parseID(actorID),
		Department: department,
		IP:         ClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details:    map[string]string{"news_id": newsID.Hex(), "title": title},
	})
}

// FileAttached logs a file pushed onto an existing announcement.
func (l *Logger) FileAttached(ctx context.Context, r *http.Request, actorID string, newsID primitive.ObjectID, department, fileName string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventFileAttached,
		ActorID:    parseID(actorID),
		Department: department,
		IP:         ClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details:    map[string]string{"news_id": newsID.Hex(), "file": fileName},
	})
}
