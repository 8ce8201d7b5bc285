// Package attachments stores uploaded announcement files and returns the
// metadata the announcement keeps (storage id, MIME type, embed link).
package attachments

import (
	"context"
	"errors"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Storage backends.
const (
	TypeLocal = "local"
	TypeDrive = "gdrive"
)

// ErrNoFile is returned when Put is given no readable file.
var ErrNoFile = errors.New("attachments: no file to store")

// Input describes one spooled file ready to be stored.
type Input struct {
	Path     string // local spool file
	Name     string // original filename from the client
	MimeType string
	Size     int64

	// Progress, when set, is called with the number of bytes sent so far.
	Progress func(sent int64)
}

// Object is what a store returns for a stored file.
type Object struct {
	StorageID string
	MimeType  string
	EmbedLink string
}

// Store puts a file somewhere readers can fetch it.
type Store interface {
	Put(ctx context.Context, in Input) (Object, error)
}

const octetStream = "application/octet-stream"

// DetectMIME sniffs the file content. When the content is not recognised it
// falls back to the extension of name.
func DetectMIME(path, name string) string {
	mt := octetStream
	if m, err := mimetype.DetectFile(path); err == nil {
		mt, _, _ = strings.Cut(m.String(), ";")
		mt = strings.TrimSpace(mt)
	}
	if mt == octetStream {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
			mt, _, _ = strings.Cut(byExt, ";")
		}
	}
	return mt
}

// IsImage reports whether mt is an image type.
func IsImage(mt string) bool {
	return strings.HasPrefix(mt, "image/")
}

// report calls fn when it is non-nil.
func report(fn func(int64), n int64) {
	if fn != nil {
		fn(n)
	}
}
