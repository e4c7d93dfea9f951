package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal        *prometheus.CounterVec
	uploadBytes         *prometheus.HistogramVec
	analysesTotal       *prometheus.CounterVec
	analysisDuration    *prometheus.HistogramVec
	analysisConfidence  *prometheus.HistogramVec
	deletesTotal        *prometheus.CounterVec
	deleteBatchOutcomes *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fds",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fds",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fds",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fds",
			Subsystem: "documents",
			Name:      "uploads_total",
			Help:      "Total document uploads by outcome.",
		},
		[]string{"service", "format", "outcome"},
	)
	uploadBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fds",
			Subsystem: "documents",
			Name:      "upload_bytes",
			Help:      "Distribution of accepted upload sizes in bytes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		},
		[]string{"service", "format"},
	)
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fds",
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total analysis runs by validation status.",
		},
		[]string{"service", "validation_status"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fds",
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Analysis execution duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service"},
	)
	analysisConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fds",
			Subsystem: "analysis",
			Name:      "confidence_score",
			Help:      "Distribution of confidence scores on completed analyses.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"service"},
	)
	deletesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fds",
			Subsystem: "documents",
			Name:      "delete_requests_total",
			Help:      "Total bulk delete requests.",
		},
		[]string{"service"},
	)
	deleteBatchOutcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fds",
			Subsystem: "documents",
			Name:      "delete_outcomes_total",
			Help:      "Per-document outcomes inside bulk delete batches.",
		},
		[]string{"service", "outcome"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsTotal,
		uploadBytes,
		analysesTotal,
		analysisDuration,
		analysisConfidence,
		deletesTotal,
		deleteBatchOutcomes,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		uploadsTotal:        uploadsTotal,
		uploadBytes:         uploadBytes,
		analysesTotal:       analysesTotal,
		analysisDuration:    analysisDuration,
		analysisConfidence:  analysisConfidence,
		deletesTotal:        deletesTotal,
		deleteBatchOutcomes: deleteBatchOutcomes,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	if rest, ok := strings.CutPrefix(path, "/v1/documents/"); ok && rest != "" && rest != "delete" {
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			return "/v1/documents/{document_id}/" + rest[idx+1:]
		}
		return "/v1/documents/{document_id}"
	}
	return path
}

func (m *HTTPServerMetrics) RecordUpload(service, format, outcome string, sizeBytes int64) {
	if format == "" {
		format = "unknown"
	}
	m.uploadsTotal.WithLabelValues(service, format, outcome).Inc()
	if outcome == "accepted" && sizeBytes > 0 {
		m.uploadBytes.WithLabelValues(service, format).Observe(float64(sizeBytes))
	}
}

func (m *HTTPServerMetrics) RecordAnalysis(service, validationStatus string, duration time.Duration, confidence float64) {
	if validationStatus == "" {
		validationStatus = "unknown"
	}
	m.analysesTotal.WithLabelValues(service, validationStatus).Inc()
	m.analysisDuration.WithLabelValues(service).Observe(duration.Seconds())
	m.analysisConfidence.WithLabelValues(service).Observe(confidence)
}

func (m *HTTPServerMetrics) RecordBulkDelete(service string, deleted, failed int) {
	m.deletesTotal.WithLabelValues(service).Inc()
	if deleted > 0 {
		m.deleteBatchOutcomes.WithLabelValues(service, "deleted").Add(float64(deleted))
	}
	if failed > 0 {
		m.deleteBatchOutcomes.WithLabelValues(service, "failed").Add(float64(failed))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
