// internal/app/features/upload/form.go
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dalemusser/deptnews/internal/app/system/limits"
	"github.com/google/uuid"
)

var errNotMultipart = errors.New("request is not multipart/form-data")

// spooled is a client file written to the spool directory.
type spooled struct {
	Path string
	Name string
	Size int64
}

// uploadForm holds the parsed multipart fields. Only the first "files" part
// is kept; later ones are drained and ignored.
type uploadForm struct {
	Title      string
	Body       string
	NewsID     string
	Department string
	File       *spooled
}

// cleanup removes the spooled file, if any.
func (f *uploadForm) cleanup() {
	if f.File != nil {
		_ = os.Remove(f.File.Path)
	}
}

// readForm streams the multipart body, spooling the file part into dir under
// a random name. On error any partially written file is removed.
func readForm(r *http.Request, dir string) (*uploadForm, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, errNotMultipart
	}

	form := &uploadForm{}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return form, nil
		}
		if err != nil {
			form.cleanup()
			return nil, err
		}

		switch name := part.FormName(); {
		case name == "files" && part.FileName() != "" && form.File == nil:
			f, err := spool(part, dir)
			if err != nil {
				part.Close()
				form.cleanup()
				return nil, err
			}
			form.File = f
		case part.FileName() != "":
			_, err = io.Copy(io.Discard, part)
		default:
			var v string
			v, err = readField(part)
			form.set(name, v)
		}
		part.Close()
		if err != nil {
			form.cleanup()
			return nil, err
		}
	}
}

func (f *uploadForm) set(name, v string) {
	switch name {
	case "title":
		f.Title = v
	case "body":
		f.Body = v
	case "newsId":
		f.NewsID = strings.TrimSpace(v)
	case "department":
		f.Department = strings.TrimSpace(v)
	}
}

func readField(p *multipart.Part) (string, error) {
	b, err := io.ReadAll(io.LimitReader(p, limits.MaxFormField+1))
	if err != nil {
		return "", err
	}
	if len(b) > limits.MaxFormField {
		return "", fmt.Errorf("form field %q too large", p.FormName())
	}
	return string(b), nil
}

func spool(p *multipart.Part, dir string) (*spooled, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	name := filepath.Base(p.FileName())
	path := filepath.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(name)))
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	n, err := io.Copy(dst, p)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return &spooled{Path: path, Name: name, Size: n}, nil
}
