// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody caps login and account JSON bodies.
	MaxJSONBody = 64 << 10 // 64 KB

	// MaxFormField caps each non-file field of an upload form.
	MaxFormField = 1 << 20 // 1 MB

	// DefaultUploadBytes is the upload request cap when none is configured.
	DefaultUploadBytes = 500 << 20 // 500 MB
)
