// internal/app/features/upload/handler.go
package upload

import (
	"errors"
	"net/http"

	"github.com/dalemusser/deptnews/internal/app/policy/newspolicy"
	announcementstore "github.com/dalemusser/deptnews/internal/app/store/announcements"
	"github.com/dalemusser/deptnews/internal/app/system/attachments"
	"github.com/dalemusser/deptnews/internal/app/system/auditlog"
	"github.com/dalemusser/deptnews/internal/app/system/auth"
	"github.com/dalemusser/deptnews/internal/app/system/htmlsanitize"
	"github.com/dalemusser/deptnews/internal/app/system/limits"
	"github.com/dalemusser/deptnews/internal/app/system/metrics"
	"github.com/dalemusser/deptnews/internal/app/system/progress"
	"github.com/dalemusser/deptnews/internal/app/system/respond"
	"github.com/dalemusser/deptnews/internal/app/system/timeouts"
	"github.com/dalemusser/deptnews/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultMaxBytes is the request size cap when none is configured.
const DefaultMaxBytes int64 = limits.DefaultUploadBytes

// Handler accepts one file per request and attaches it to a new or
// existing announcement.
type Handler struct {
	Store    *announcementstore.Store
	Files    attachments.Store
	Bus      *progress.Bus
	Audit    *auditlog.Logger
	Metrics  *metrics.Recorder
	SpoolDir string
	MaxBytes int64
	Log      *zap.Logger
}

// NewHandler constructs an upload Handler.
func NewHandler(db *mongo.Database, files attachments.Store, bus *progress.Bus, audit *auditlog.Logger,
	m *metrics.Recorder, spoolDir string, maxBytes int64, logger *zap.Logger) *Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Handler{
		Store:    announcementstore.New(db),
		Files:    files,
		Bus:      bus,
		Audit:    audit,
		Metrics:  m,
		SpoolDir: spoolDir,
		MaxBytes: maxBytes,
		Log:      logger,
	}
}

type uploadResponse struct {
	NewsID string `json:"newsId"`
}

// ServeUpload handles POST /api/upload.
//
// Form fields: files (one file), title, body, optional newsId. A request
// without newsId creates the announcement; later files for the same post
// pass the returned newsId back.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	form, err := readForm(r, h.SpoolDir)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.reject(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		h.Log.Warn("upload form rejected", zap.Error(err))
		h.reject(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	defer form.cleanup()

	if form.File == nil {
		h.reject(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	// Resolve the target before sending anything to storage.
	var target primitive.ObjectID
	var dept string
	if form.NewsID != "" {
		existing, status, msg := h.lookupTarget(r, id, form.NewsID)
		if status != 0 {
			h.reject(w, status, msg)
			return
		}
		target, dept = existing.ID, existing.Department
	} else {
		dept = id.Department
		if id.IsAdmin() {
			dept = form.Department
		}
		if dept == "" {
			h.reject(w, http.StatusBadRequest, "Department required")
			return
		}
		if htmlsanitize.Text(form.Title) == "" {
			h.reject(w, http.StatusBadRequest, "Title required")
			return
		}
	}

	file := form.File
	mt := attachments.DetectMIME(file.Path, file.Name)
	h.Bus.Publish(progress.Event{File: file.Name, Phase: progress.PhaseUpload, Pct: 100})

	tracker := progress.NewTracker(h.Bus, file.Name, file.Size)
	putCtx, cancelPut := timeouts.WithTimeout(r.Context(), timeouts.Upload(), h.Log, "attachment upload")
	obj, err := h.Files.Put(putCtx, attachments.Input{
		Path:     file.Path,
		Name:     file.Name,
		MimeType: mt,
		Size:     file.Size,
		Progress: tracker.Update,
	})
	cancelPut()
	if err != nil {
		h.Log.Error("attachment upload failed", zap.Error(err), zap.String("file", file.Name))
		h.Metrics.ObserveUpload(metrics.UploadFailed, 0)
		respond.Error(w, http.StatusBadGateway, "File storage failed")
		return
	}

	meta := models.FileMeta{
		StorageID:    obj.StorageID,
		MimeType:     obj.MimeType,
		EmbedLink:    obj.EmbedLink,
		OriginalName: file.Name,
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "save announcement")
	defer cancel()

	if !target.IsZero() {
		if _, err := h.Store.AppendFile(ctx, target, meta); err != nil {
			if errors.Is(err, announcementstore.ErrNotFound) {
				h.reject(w, http.StatusBadRequest, "newsId invalid")
				return
			}
			h.fail(w, "append attachment failed", err)
			return
		}
		h.Audit.FileAttached(ctx, r, id.UserID, target, dept, file.Name)
	} else {
		a, err := h.Store.Create(ctx, announcementstore.NewInput{
			Department: dept,
			Title:      htmlsanitize.Text(form.Title),
			Body:       htmlsanitize.Body(form.Body),
			Files:      []models.FileMeta{meta},
		})
		if err != nil {
			h.fail(w, "create announcement failed", err)
			return
		}
		target = a.ID
		h.Audit.AnnouncementCreated(ctx, r, id.UserID, a.ID, a.Department, a.Title)
	}

	h.Metrics.ObserveUpload(metrics.UploadOK, file.Size)
	respond.JSON(w, http.StatusCreated, uploadResponse{NewsID: target.Hex()})
}

// lookupTarget loads the announcement a file is being appended to. A non-zero
// status means the request must be rejected with msg.
func (h *Handler) lookupTarget(r *http.Request, id auth.Identity, newsID string) (models.Announcement, int, string) {
	oid, err := primitive.ObjectIDFromHex(newsID)
	if err != nil {
		return models.Announcement{}, http.StatusBadRequest, "newsId invalid"
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "upload target lookup")
	defer cancel()

	a, err := h.Store.GetByID(ctx, oid)
	if errors.Is(err, announcementstore.ErrNotFound) {
		return models.Announcement{}, http.StatusBadRequest, "newsId invalid"
	}
	if err != nil {
		h.Log.Error("upload target lookup failed", zap.Error(err), zap.String("news_id", newsID))
		return models.Announcement{}, http.StatusInternalServerError, "Internal server error"
	}
	if !newspolicy.CanView(id, a.Department) {
		return models.Announcement{}, http.StatusForbidden, "Forbidden"
	}
	return a, 0, ""
}

func (h *Handler) reject(w http.ResponseWriter, status int, msg string) {
	h.Metrics.ObserveUpload(metrics.UploadRejected, 0)
	respond.Error(w, status, msg)
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	h.Log.Error(msg, zap.Error(err))
	h.Metrics.ObserveUpload(metrics.UploadFailed, 0)
	respond.Error(w, http.StatusInternalServerError, "Internal server error")
}
