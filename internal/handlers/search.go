package handlers

import (
	"net/http"

	"notebase/internal/search"
)

// SearchHandler handles hybrid search requests.
type SearchHandler struct {
	ranker *search.Ranker
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(ranker *search.Ranker) *SearchHandler {
	return &SearchHandler{ranker: ranker}
}

// Search handles POST /api/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	results, err := h.ranker.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	hits := make([]SearchHit, 0, len(results))
	for _, res := range results {
		hits = append(hits, SearchHit{
			ID:        res.Item.ID,
			Title:     res.Item.Title,
			Score:     res.Score,
			CreatedAt: res.Item.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: hits})
}
