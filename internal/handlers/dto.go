package handlers

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"notebase/internal/rag"
	"notebase/internal/storage"
)

// CreateItemRequest is the request body for ingesting raw text.
type CreateItemRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate validates the create item request.
func (r *CreateItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Content, validation.Required),
	)
}

// ScrapeRequest is the request body for ingesting a web page.
type ScrapeRequest struct {
	URL string `json:"url"`
}

// Validate validates the scrape request.
func (r *ScrapeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.URL, validation.Required, is.URL),
	)
}

// SearchRequest is the request body for hybrid search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// Validate validates the search request.
func (r *SearchRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Query, validation.Required),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(50)),
	)
}

// NotebookRequest is the request body for creating or updating a notebook.
type NotebookRequest struct {
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`
}

// Validate validates the notebook request.
func (r *NotebookRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
	)
}

// AskRequest is the request body for notebook Q&A.
type AskRequest struct {
	Question string `json:"question"`
}

// Validate validates the ask request.
func (r *AskRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Question, validation.Required),
	)
}

// ItemResponse is a full item, content included.
type ItemResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Origin    string    `json:"origin"`
	Source    string    `json:"source,omitempty"`
	MediaType string    `json:"media_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemSummary is a listing entry; content is omitted to keep list responses
// small.
type ItemSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Origin    string    `json:"origin"`
	Source    string    `json:"source,omitempty"`
	MediaType string    `json:"media_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemListResponse wraps an item listing.
type ItemListResponse struct {
	Items []ItemSummary `json:"items"`
	Total int           `json:"total"`
}

// SearchHit is one fused search result.
type SearchHit struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchHit `json:"results"`
}

// NotebookResponse is a notebook in API responses.
type NotebookResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotebookDetailResponse is a notebook plus its member items.
type NotebookDetailResponse struct {
	NotebookResponse
	Items []ItemSummary `json:"items"`
}

// AskResponse is the generated answer plus the sources that grounded it.
type AskResponse struct {
	Answer  string       `json:"answer"`
	Sources []rag.Source `json:"sources"`
}

// UsageEntry is one ledger row in API responses.
type UsageEntry struct {
	ID               int64     `json:"id"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	Cost             float64   `json:"cost"`
	CreatedAt        time.Time `json:"created_at"`
}

// UsageResponse wraps the usage ledger and its running totals.
type UsageResponse struct {
	Records     []UsageEntry `json:"records"`
	TotalCost   float64      `json:"total_cost"`
	TotalTokens int64        `json:"total_tokens"`
	Calls       int64        `json:"calls"`
}

func toItemResponse(item *storage.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		Title:     item.Title,
		Content:   item.Content,
		Origin:    item.Origin,
		Source:    item.Source,
		MediaType: item.MediaType,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func toItemSummaries(items []storage.Item) []ItemSummary {
	summaries := make([]ItemSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, ItemSummary{
			ID:        item.ID,
			Title:     item.Title,
			Origin:    item.Origin,
			Source:    item.Source,
			MediaType: item.MediaType,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		})
	}
	return summaries
}

func toNotebookResponse(notebook *storage.Notebook) NotebookResponse {
	return NotebookResponse{
		ID:        notebook.ID,
		Title:     notebook.Title,
		Notes:     notebook.Notes,
		CreatedAt: notebook.CreatedAt,
		UpdatedAt: notebook.UpdatedAt,
	}
}
