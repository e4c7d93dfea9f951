package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dkoval/findoc-scanner/internal/core/ports"
	"github.com/dkoval/findoc-scanner/internal/observability/metrics"
)

const serviceName = "api"

// RouterConfig carries the request-facing knobs the handlers need.
type RouterConfig struct {
	DefaultQuery      string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	MaxInFlight       int
	BackpressureWait  time.Duration
}

type Router struct {
	uploader    ports.DocumentUploader
	analyzer    ports.DocumentAnalyzer
	deleter     ports.DocumentDeleter
	views       ports.DocumentViews
	selection   ports.SelectionTracker
	httpMetrics *metrics.HTTPServerMetrics
	cfg         RouterConfig
}

func NewRouter(
	uploader ports.DocumentUploader,
	analyzer ports.DocumentAnalyzer,
	deleter ports.DocumentDeleter,
	views ports.DocumentViews,
	selection ports.SelectionTracker,
	httpMetrics *metrics.HTTPServerMetrics,
	cfg RouterConfig,
) *Router {
	return &Router{
		uploader:    uploader,
		analyzer:    analyzer,
		deleter:     deleter,
		views:       views,
		selection:   selection,
		httpMetrics: httpMetrics,
		cfg:         cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.httpMetrics != nil {
		mux.Handle("GET /metrics", rt.httpMetrics.Handler())
	}

	api := http.NewServeMux()
	api.HandleFunc("POST /v1/documents", rt.uploadDocument)
	api.HandleFunc("GET /v1/documents", rt.listDocuments)
	api.HandleFunc("POST /v1/documents/delete", rt.deleteDocuments)
	api.HandleFunc("GET /v1/documents/{id}", rt.getDocument)
	api.HandleFunc("POST /v1/documents/{id}/analyses", rt.runAnalysis)
	api.HandleFunc("GET /v1/documents/{id}/analyses", rt.listAnalyses)
	api.HandleFunc("GET /v1/documents/{id}/aggregate", rt.aggregateDocument)
	api.HandleFunc("GET /v1/aggregate", rt.aggregateOwner)
	api.HandleFunc("GET /v1/stats", rt.ownerStats)
	api.HandleFunc("POST /v1/selection/toggle", rt.toggleSelection)
	api.HandleFunc("POST /v1/selection/all", rt.selectAll)
	api.HandleFunc("POST /v1/selection/clear", rt.clearSelection)
	api.HandleFunc("GET /v1/selection", rt.getSelection)

	var protected http.Handler = identityMiddleware(api)
	if rt.cfg.RateLimitRequests > 0 {
		protected = rateLimitMiddleware(protected, rt.cfg.RateLimitRequests, rt.cfg.RateLimitWindow)
	}
	if rt.cfg.MaxInFlight > 0 {
		protected = backpressureMiddleware(protected, rt.cfg.MaxInFlight, rt.cfg.BackpressureWait)
	}
	mux.Handle("/v1/", protected)

	handler := http.Handler(mux)
	if rt.httpMetrics != nil {
		handler = rt.httpMetrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
