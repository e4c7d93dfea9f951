package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

func (rt *Router) runAnalysis(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	start := time.Now()
	result, err := rt.analyzer.Analyze(r.Context(), actor, r.PathValue("id"), normalizeQuery(req.Query, rt.cfg.DefaultQuery))
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.httpMetrics != nil {
		rt.httpMetrics.RecordAnalysis(serviceName, string(result.ValidationStatus), time.Since(start), result.ConfidenceScore)
	}
	writeJSON(w, http.StatusCreated, result)
}

func (rt *Router) listAnalyses(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	results, err := rt.views.ResultsForDocument(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": results, "total": len(results)})
}

func (rt *Router) aggregateDocument(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	view, err := rt.views.AggregateForDocument(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (rt *Router) aggregateOwner(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	view, err := rt.views.AggregateForOwner(r.Context(), actor, ownerFromRequest(r, actor))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (rt *Router) ownerStats(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	stats, err := rt.views.StatsForOwner(r.Context(), actor, ownerFromRequest(r, actor))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
