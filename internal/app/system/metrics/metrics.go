// Package metrics holds the service's Prometheus collectors on a private
// registry exposed at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "deptnews"

// Upload outcomes for UploadsTotal.
const (
	UploadOK       = "ok"
	UploadRejected = "rejected"
	UploadFailed   = "failed"
)

// Recorder owns the registry and every collector. A nil *Recorder is valid
// and records nothing, which keeps handler tests free of metrics setup.
type Recorder struct {
	registry *prometheus.Registry
	handler  http.Handler

	reportRequests *prometheus.CounterVec
	reportDuration *prometheus.HistogramVec
	uploads        *prometheus.CounterVec
	uploadBytes    prometheus.Counter
	httpRequests   *prometheus.CounterVec
}

// New registers all collectors, plus Go runtime and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()

	m := &Recorder{
		registry: reg,
		reportRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_requests_total",
			Help:      "Grouped news report requests by shape.",
		}, []string{"shape"}),
		reportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Time spent building grouped news reports.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"shape"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Attachment uploads by outcome.",
		}, []string{"result"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Bytes of attachments stored.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.reportRequests,
		m.reportDuration,
		m.uploads,
		m.uploadBytes,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return m
}

// Registry returns the private registry.
func (m *Recorder) Registry() *prometheus.Registry { return m.registry }

// Handler serves the Prometheus exposition format.
func (m *Recorder) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveReport records one report of the given shape that took d.
func (m *Recorder) ObserveReport(shape string, d time.Duration) {
	if m == nil {
		return
	}
	m.reportRequests.WithLabelValues(shape).Inc()
	m.reportDuration.WithLabelValues(shape).Observe(d.Seconds())
}

// ObserveUpload records an upload outcome and, when stored, its size.
func (m *Recorder) ObserveUpload(result string, bytes int64) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
	if result == UploadOK && bytes > 0 {
		m.uploadBytes.Add(float64(bytes))
	}
}

// Middleware counts requests by chi route pattern so ids in paths do not
// explode label cardinality.
func (m *Recorder) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
