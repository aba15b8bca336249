package handlers

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"notebase/internal/ingest"
	"notebase/internal/storage"
)

// maxUploadBytes caps multipart uploads.
const maxUploadBytes = 20 << 20

const defaultListLimit = 100

// ItemHandler handles item ingestion, retrieval, and deletion.
type ItemHandler struct {
	svc   *ingest.Service
	items storage.ItemStore
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(svc *ingest.Service, items storage.ItemStore) *ItemHandler {
	return &ItemHandler{svc: svc, items: items}
}

// Create handles POST /api/items: ingest a raw text block.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.IngestText(r.Context(), req.Title, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

// Upload handles POST /api/items/upload: ingest a multipart file. The form
// carries the document under "file" and an optional "title" override.
func (h *ItemHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file field is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" || mediaType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(header.Filename)); byExt != "" {
			mediaType = byExt
		}
	}

	item, err := h.svc.IngestFile(r.Context(), header.Filename, mediaType, data, r.FormValue("title"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

// Scrape handles POST /api/items/scrape: fetch a web page and ingest its main
// content.
func (h *ItemHandler) Scrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.IngestURL(r.Context(), req.URL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

// List handles GET /api/items, newest first.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = defaultListLimit
	}
	items, err := h.items.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	summaries := toItemSummaries(items)
	writeJSON(w, http.StatusOK, ItemListResponse{Items: summaries, Total: len(summaries)})
}

// Get handles GET /api/items/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := h.items.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// Delete handles DELETE /api/items/{id}: removes the row, its vector, and any
// stored artifact.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a numeric chi URL parameter. A false return means the error
// response has already been written.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid "+name))
		return 0, false
	}
	return id, true
}
