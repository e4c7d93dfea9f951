package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")

	doc, err := rt.uploader.Upload(r.Context(), actor, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		if rt.httpMetrics != nil {
			rt.httpMetrics.RecordUpload(serviceName, format, "rejected", 0)
		}
		writeError(w, err)
		return
	}
	if rt.httpMetrics != nil {
		rt.httpMetrics.RecordUpload(serviceName, doc.FileFormat, "accepted", doc.SizeBytes)
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	docs, err := rt.views.ListForOwner(r.Context(), actor, ownerFromRequest(r, actor))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs, "total": len(docs)})
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	doc, err := rt.views.GetDocument(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) deleteDocuments(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	var req struct {
		DocumentIDs []string `json:"document_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ids := req.DocumentIDs
	if len(ids) == 0 {
		// Empty body falls back to the caller's tracked selection.
		ids = rt.selection.Selected(actor.UserID)
	}
	if len(ids) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no documents selected for deletion"})
		return
	}

	report, err := rt.deleter.Delete(r.Context(), actor, ids)
	if err != nil {
		writeError(w, err)
		return
	}
	rt.selection.Clear(actor.UserID)
	if rt.httpMetrics != nil {
		rt.httpMetrics.RecordBulkDelete(serviceName, len(report.Deleted), len(report.Failed))
	}

	writeJSON(w, http.StatusOK, report)
}

func normalizeQuery(raw, fallback string) string {
	if q := strings.TrimSpace(raw); q != "" {
		return q
	}
	return fallback
}
