package bootstrap

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/deptnews/internal/app/system/attachments"
)

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "deptnews",
		JWTSecret:        "secret",
		JWTTTL:           time.Hour,
		ListPageSize:     20,
		UploadMaxBytes:   1 << 20,
		StorageType:      attachments.TypeLocal,
		StorageLocalPath: "./uploads/files",
		AuditLogAuth:     "all",
		AuditLogAdmin:    "db",
	}
}

func TestValidateConfig_Accepts(t *testing.T) {
	if err := ValidateConfig(nil, validConfig(), testLogger()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateConfig_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"missing secret", func(c *AppConfig) { c.JWTSecret = " " }, "jwt_secret"},
		{"bad uri", func(c *AppConfig) { c.MongoURI = "" }, "MongoDB URI"},
		{"bad storage", func(c *AppConfig) { c.StorageType = "s3" }, "storage_type"},
		{"drive without creds", func(c *AppConfig) { c.StorageType = attachments.TypeDrive }, "google_client_id"},
		{"bad audit mode", func(c *AppConfig) { c.AuditLogAuth = "verbose" }, "audit_log_auth"},
		{"half seed", func(c *AppConfig) { c.SeedAdminUsername = "root" }, "seed_admin"},
		{"zero page size", func(c *AppConfig) { c.ListPageSize = 0 }, "list_page_size"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := ValidateConfig(nil, cfg, testLogger())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("unexpected split: %q", got)
	}
	if splitList("") != nil {
		t.Error("expected nil for empty input")
	}
}
