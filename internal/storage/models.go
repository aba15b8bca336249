package storage

import "time"

// Origin values recorded on items. File items store the artifact path,
// scraped items the source URL.
const (
	OriginInline = "inline"
	OriginFile   = "file"
	OriginWeb    = "web"
)

// Item represents one ingested unit of content (file, scraped page, or text
// block). The embedding vector itself lives in the vector store under PointID;
// the row and the point are written together during ingestion.
type Item struct {
	ID        int64
	Title     string
	Content   string
	Origin    string // OriginInline, OriginFile, or OriginWeb
	Source    string // file artifact name, source URL, or "" for inline text
	MediaType string
	PointID   string // vector store point id (UUID)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Notebook is a user-curated container of items plus free-text notes.
type Notebook struct {
	ID        int64
	Title     string
	Notes     string // markdown
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UsageRecord is one append-only ledger row for an external-model call.
type UsageRecord struct {
	ID               int64
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Cost             float64
	CreatedAt        time.Time
}

// UsageTotals aggregates the ledger for reporting.
type UsageTotals struct {
	TotalCost   float64
	TotalTokens int64
	Calls       int64
}
