package handlers

import (
	"net/http"
	"strconv"

	"notebase/internal/storage"
)

const defaultUsageLimit = 200

// UsageHandler reports the model-usage ledger.
type UsageHandler struct {
	store storage.UsageStore
}

// NewUsageHandler creates a new UsageHandler.
func NewUsageHandler(store storage.UsageStore) *UsageHandler {
	return &UsageHandler{store: store}
}

// Usage handles GET /api/usage: recent ledger rows plus running totals.
func (h *UsageHandler) Usage(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 1000 {
		limit = defaultUsageLimit
	}
	records, err := h.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	totals, err := h.store.Totals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	entries := make([]UsageEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, UsageEntry{
			ID:               rec.ID,
			Model:            rec.Model,
			PromptTokens:     rec.PromptTokens,
			CompletionTokens: rec.CompletionTokens,
			TotalTokens:      rec.TotalTokens,
			Cost:             rec.Cost,
			CreatedAt:        rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, UsageResponse{
		Records:     entries,
		TotalCost:   totals.TotalCost,
		TotalTokens: totals.TotalTokens,
		Calls:       totals.Calls,
	})
}
