package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/deptnews/internal/app/features/health"
	"github.com/dalemusser/deptnews/internal/app/system/progress"
	"github.com/dalemusser/deptnews/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context, rp *readpref.ReadPref) error { return f.err }

type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
	Streams  *int   `json:"streams"`
	Message  string `json:"message"`
}

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, healthBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	health.Routes(h).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, body
}

func TestServe_OK(t *testing.T) {
	bus := progress.NewBus(1)
	defer bus.Close()
	_, cancel := bus.Subscribe()
	defer cancel()

	rec, body := serve(t, health.NewHandler(fakePinger{}, bus, "gdrive", zap.NewNop()))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if body.Status != "ok" || body.Database != "connected" || body.Storage != "gdrive" {
		t.Errorf("body = %+v", body)
	}
	if body.Streams == nil || *body.Streams != 1 {
		t.Errorf("streams = %v, want 1", body.Streams)
	}
}

func TestServe_DatabaseDown(t *testing.T) {
	rec, body := serve(t, health.NewHandler(fakePinger{err: errors.New("no reachable servers")}, nil, "local", zap.NewNop()))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if body.Status != "error" || body.Database != "disconnected" || body.Message != "Database unavailable" {
		t.Errorf("body = %+v", body)
	}
}

func TestServe_RealDatabase(t *testing.T) {
	db := testutil.SetupTestDB(t)

	rec, body := serve(t, health.NewHandler(db.Client(), nil, "local", zap.NewNop()))
	if rec.Code != http.StatusOK || body.Database != "connected" {
		t.Errorf("got %d %+v", rec.Code, body)
	}
}
