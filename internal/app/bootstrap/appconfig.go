// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; ports, TLS and log level
// belong to WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Identity tokens
	JWTSecret string        // HS256 signing secret (must be strong in production)
	JWTTTL    time.Duration // token lifetime

	// News reads
	ReportDefaultDays int // grouped report window when no dates are given
	ListPageSize      int // announcements per page

	// HTTP
	CORSOrigins    []string // allowed browser origins; "*" allows any
	LoginRateLimit int      // login requests per IP per minute; 0 disables

	// Uploads
	UploadDir      string // spool directory for incoming files
	UploadMaxBytes int64  // per-request size cap

	// Attachment storage
	StorageType      string // "local" or "gdrive"
	StorageLocalPath string // local storage path (e.g., "./uploads/files")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// Google Drive (only used if StorageType is "gdrive")
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	GoogleRedirectURI  string
	DriveRootID        string // folder receiving uploads; blank means My Drive root

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Admin bootstrap
	SeedAdminUsername string
	SeedAdminPassword string
}
