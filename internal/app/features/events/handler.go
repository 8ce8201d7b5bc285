// internal/app/features/events/handler.go
package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/deptnews/internal/app/system/progress"
	"github.com/dalemusser/deptnews/internal/app/system/respond"
	"go.uber.org/zap"
)

// KeepaliveInterval is how often an idle stream gets a comment line so
// proxies do not close it.
const KeepaliveInterval = 30 * time.Second

// Handler streams upload progress as Server-Sent Events.
type Handler struct {
	Bus       *progress.Bus
	Keepalive time.Duration
	Log       *zap.Logger
}

// NewHandler constructs an events Handler.
func NewHandler(bus *progress.Bus, logger *zap.Logger) *Handler {
	return &Handler{Bus: bus, Keepalive: KeepaliveInterval, Log: logger}
}

// ServeEvents handles GET /api/events. Each progress event is written as
// "data: <json>\n\n" until the client goes away or the bus is closed.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respond.Error(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ch, cancel := h.Bus.Subscribe()
	defer cancel()

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	flusher.Flush()

	keepalive := h.Keepalive
	if keepalive <= 0 {
		keepalive = KeepaliveInterval
	}
	ticker := time.NewTicker(keepalive)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				h.Log.Warn("encode progress event", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
