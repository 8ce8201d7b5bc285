// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/deptnews/internal/app/system/attachments"
	"github.com/dalemusser/deptnews/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for deptnews.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: DEPTNEWS_MONGO_URI, DEPTNEWS_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "deptnews", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Identity tokens
	{Name: "jwt_secret", Default: "", Desc: "HS256 secret for identity tokens (required)"},
	{Name: "jwt_ttl", Default: "12h", Desc: "Identity token lifetime (e.g., 12h, 30m)"},

	// News reads
	{Name: "report_default_days", Default: 7, Desc: "Days covered by the grouped report when no dates are given"},
	{Name: "list_page_size", Default: 20, Desc: "Announcements per page in /api/news"},

	// HTTP
	{Name: "cors_origins", Default: "*", Desc: "Comma-separated allowed CORS origins"},
	{Name: "login_rate_limit", Default: 10, Desc: "Login requests per IP per minute (0 disables)"},

	// Uploads
	{Name: "upload_dir", Default: "./uploads/tmp", Desc: "Spool directory for incoming uploads"},
	{Name: "upload_max_bytes", Default: 500 << 20, Desc: "Maximum upload request size in bytes"},

	// Attachment storage
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 'gdrive'"},
	{Name: "storage_local_path", Default: "./uploads/files", Desc: "Local storage path for attachments"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local attachments"},

	// Google Drive
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "google_refresh_token", Default: "", Desc: "Google OAuth2 refresh token for the uploading account"},
	{Name: "google_redirect_uri", Default: "", Desc: "Google OAuth2 redirect URI used when the refresh token was issued"},
	{Name: "drive_root_id", Default: "", Desc: "Drive folder ID receiving uploads"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Admin bootstrap
	{Name: "seed_admin_username", Default: "", Desc: "Admin account created on startup when no admin exists"},
	{Name: "seed_admin_password", Default: "", Desc: "Password for seed_admin_username"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, DEPTNEWS_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DEPTNEWS", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTTTL:    appValues.Duration("jwt_ttl", 12*time.Hour),

		ReportDefaultDays: appValues.Int("report_default_days"),
		ListPageSize:      appValues.Int("list_page_size"),

		CORSOrigins:    splitList(appValues.String("cors_origins")),
		LoginRateLimit: appValues.Int("login_rate_limit"),

		UploadDir:      appValues.String("upload_dir"),
		UploadMaxBytes: int64(appValues.Int("upload_max_bytes")),

		StorageType:      strings.ToLower(strings.TrimSpace(appValues.String("storage_type"))),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),
		GoogleRefreshToken: appValues.String("google_refresh_token"),
		GoogleRedirectURI:  appValues.String("google_redirect_uri"),
		DriveRootID:        appValues.String("drive_root_id"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		SeedAdminUsername: appValues.String("seed_admin_username"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
	}

	return coreCfg, appCfg, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// driveConfig maps app config onto the Drive attachment store config.
func (c AppConfig) driveConfig() attachments.DriveConfig {
	return attachments.DriveConfig{
		ClientID:     c.GoogleClientID,
		ClientSecret: c.GoogleClientSecret,
		RefreshToken: c.GoogleRefreshToken,
		RedirectURL:  c.GoogleRedirectURI,
		FolderID:     c.DriveRootID,
	}
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Every problem found is reported, not just the first.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	var errs []error

	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		errs = append(errs, fmt.Errorf("invalid MongoDB URI: %w", err))
	}
	if strings.TrimSpace(appCfg.JWTSecret) == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	}
	if appCfg.JWTTTL <= 0 {
		errs = append(errs, errors.New("jwt_ttl must be positive"))
	}
	if appCfg.ListPageSize < 1 {
		errs = append(errs, errors.New("list_page_size must be at least 1"))
	}
	if appCfg.UploadMaxBytes <= 0 {
		errs = append(errs, errors.New("upload_max_bytes must be positive"))
	}

	switch appCfg.StorageType {
	case attachments.TypeLocal:
		if appCfg.StorageLocalPath == "" {
			errs = append(errs, errors.New("storage_local_path is required for local storage"))
		}
	case attachments.TypeDrive:
		if err := appCfg.driveConfig().Validate(); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("storage_type must be %q or %q, got %q",
			attachments.TypeLocal, attachments.TypeDrive, appCfg.StorageType))
	}

	for key, v := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		if !auditlog.ValidMode(v) {
			errs = append(errs, fmt.Errorf("%s must be all, db, log or off, got %q", key, v))
		}
	}

	if (appCfg.SeedAdminUsername == "") != (appCfg.SeedAdminPassword == "") {
		errs = append(errs, errors.New("seed_admin_username and seed_admin_password must be set together"))
	}

	return errors.Join(errs...)
}
