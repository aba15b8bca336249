package handlers

import (
	"net/http"

	"notebase/internal/rag"
	"notebase/internal/storage"
)

// NotebookHandler handles notebook CRUD, membership, and Q&A.
type NotebookHandler struct {
	notebooks storage.NotebookStore
	items     storage.ItemStore
	engine    *rag.Engine
}

// NewNotebookHandler creates a new NotebookHandler.
func NewNotebookHandler(notebooks storage.NotebookStore, items storage.ItemStore, engine *rag.Engine) *NotebookHandler {
	return &NotebookHandler{notebooks: notebooks, items: items, engine: engine}
}

// Create handles POST /api/notebooks.
func (h *NotebookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req NotebookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	notebook := &storage.Notebook{Title: req.Title, Notes: req.Notes}
	if err := h.notebooks.Create(r.Context(), notebook); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNotebookResponse(notebook))
}

// List handles GET /api/notebooks.
func (h *NotebookHandler) List(w http.ResponseWriter, r *http.Request) {
	notebooks, err := h.notebooks.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]NotebookResponse, 0, len(notebooks))
	for i := range notebooks {
		out = append(out, toNotebookResponse(&notebooks[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"notebooks": out, "total": len(out)})
}

// Get handles GET /api/notebooks/{id}: the notebook plus its member items.
func (h *NotebookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	notebook, err := h.notebooks.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	memberIDs, err := h.notebooks.MemberIDs(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var members []storage.Item
	if len(memberIDs) > 0 {
		members, err = h.items.ListByIDs(r.Context(), memberIDs)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, NotebookDetailResponse{
		NotebookResponse: toNotebookResponse(notebook),
		Items:            toItemSummaries(members),
	})
}

// Update handles PUT /api/notebooks/{id}.
func (h *NotebookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req NotebookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	notebook := &storage.Notebook{ID: id, Title: req.Title, Notes: req.Notes}
	if err := h.notebooks.Update(r.Context(), notebook); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNotebookResponse(notebook))
}

// Delete handles DELETE /api/notebooks/{id}. Items survive; only the
// container and its membership rows go away.
func (h *NotebookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.notebooks.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /api/notebooks/{id}/items/{itemID}.
func (h *NotebookHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	notebookID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	if err := h.notebooks.AddItem(r.Context(), notebookID, itemID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveItem handles DELETE /api/notebooks/{id}/items/{itemID}.
func (h *NotebookHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	notebookID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	if err := h.notebooks.RemoveItem(r.Context(), notebookID, itemID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Ask handles POST /api/notebooks/{id}/ask.
func (h *NotebookHandler) Ask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req AskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	answer, err := h.engine.Ask(r.Context(), id, req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sources := answer.Sources
	if sources == nil {
		sources = []rag.Source{}
	}
	writeJSON(w, http.StatusOK, AskResponse{Answer: answer.Text, Sources: sources})
}
