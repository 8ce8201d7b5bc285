package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/deptnews/internal/app/system/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilRecorderIsNoop(t *testing.T) {
	var m *metrics.Recorder
	m.ObserveReport("summary", time.Second)
	m.ObserveUpload(metrics.UploadOK, 10)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestObserveReportAndUpload(t *testing.T) {
	m := metrics.New()
	m.ObserveReport("expanded", 20*time.Millisecond)
	m.ObserveReport("expanded", 30*time.Millisecond)
	m.ObserveUpload(metrics.UploadOK, 1024)
	m.ObserveUpload(metrics.UploadFailed, 4096)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		`deptnews_report_requests_total{shape="expanded"} 2`,
		`deptnews_uploads_total{result="ok"} 1`,
		`deptnews_uploads_total{result="failed"} 1`,
		`deptnews_upload_bytes_total 1024`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := metrics.New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/news/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/news/"+id, nil))
	}

	n, err := testutil.GatherAndCount(m.Registry(), "deptnews_http_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 1 {
		t.Errorf("series = %d, want 1 (ids must not become labels)", n)
	}
}
