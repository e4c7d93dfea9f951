package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (rt *Router) toggleSelection(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	var req struct {
		DocumentID string `json:"document_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.DocumentID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document_id is required"})
		return
	}

	selected := rt.selection.Toggle(actor.UserID, req.DocumentID)
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": req.DocumentID,
		"selected":    selected,
	})
}

func (rt *Router) selectAll(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	docs, err := rt.views.ListForOwner(r.Context(), actor, actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	rt.selection.SelectAll(actor.UserID, ids)

	writeJSON(w, http.StatusOK, map[string]any{"selected": ids, "total": len(ids)})
}

func (rt *Router) clearSelection(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	rt.selection.Clear(actor.UserID)
	writeJSON(w, http.StatusOK, map[string]any{"selected": []string{}, "total": 0})
}

func (rt *Router) getSelection(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	selected := rt.selection.Selected(actor.UserID)
	writeJSON(w, http.StatusOK, map[string]any{"selected": selected, "total": len(selected)})
}
