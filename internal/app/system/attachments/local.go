package attachments

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local copies files into a directory served under BaseURL.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates the directory if needed.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the storage directory.
func (l *Local) Dir() string { return l.dir }

// Put copies in.Path to <dir>/<uuid><ext>.
func (l *Local) Put(ctx context.Context, in Input) (Object, error) {
	src, err := os.Open(in.Path)
	if err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrNoFile, err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(in.Name))
	dst, err := os.OpenFile(filepath.Join(l.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Object{}, err
	}

	_, err = io.Copy(dst, &progressReader{ctx: ctx, r: src, fn: in.Progress})
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(l.dir, name))
		return Object{}, err
	}

	return Object{
		StorageID: name,
		MimeType:  in.MimeType,
		EmbedLink: l.baseURL + "/" + name,
	}, nil
}

// progressReader reports cumulative bytes and stops when ctx is done.
type progressReader struct {
	ctx  context.Context
	r    io.Reader
	fn   func(int64)
	sent int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		report(p.fn, p.sent)
	}
	return n, err
}
