// Package ingest turns raw content sources into persisted, embedded content
// items. Ingestion is atomic: content is extracted, embedded, and persisted
// together, or not at all.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"notebase/internal/apperr"
	"notebase/internal/contextutil"
	"notebase/internal/llm"
	"notebase/internal/normalizer"
	"notebase/internal/storage"
	"notebase/internal/usage"
	"notebase/internal/vectorstore"
)

// Embedder converts text into a vector and reports token usage.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, llm.Usage, error)
	Model() string
}

// PageFetcher retrieves a web page's raw HTML.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ArtifactStore persists uploaded file artifacts.
type ArtifactStore interface {
	Save(originalName string, data []byte) (string, error)
	Remove(name string) error
}

// Service is the ingestion pipeline.
type Service struct {
	items      storage.ItemStore
	vectors    vectorstore.VectorStore
	collection string
	embedder   Embedder
	meter      usage.Recorder
	files      ArtifactStore
	fetcher    PageFetcher
}

// NewService creates an ingestion service.
func NewService(
	items storage.ItemStore,
	vectors vectorstore.VectorStore,
	collection string,
	embedder Embedder,
	meter usage.Recorder,
	files ArtifactStore,
	fetcher PageFetcher,
) *Service {
	return &Service{
		items:      items,
		vectors:    vectors,
		collection: collection,
		embedder:   embedder,
		meter:      meter,
		files:      files,
		fetcher:    fetcher,
	}
}

// IngestText ingests an inline {title, content} text pair.
func (s *Service) IngestText(ctx context.Context, title, content string) (*storage.Item, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperr.ErrInvalidInput)
	}

	normalized, err := normalizer.NormalizeText(content)
	if err != nil {
		return nil, err
	}

	return s.ingest(ctx, title, normalized, storage.OriginInline, "", "text/plain")
}

// IngestFile ingests an uploaded file. The artifact is stored on disk only
// after extraction and embedding have both succeeded.
func (s *Service) IngestFile(ctx context.Context, filename, mediaType string, data []byte, title string) (*storage.Item, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", apperr.ErrInvalidInput)
	}
	if title = strings.TrimSpace(title); title == "" {
		base := filepath.Base(filename)
		title = strings.TrimSuffix(base, filepath.Ext(base))
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", apperr.ErrInvalidInput)
		}
	}

	normalized, err := normalizer.NormalizeBytes(data, mediaType)
	if err != nil {
		return nil, err
	}

	artifact, err := s.files.Save(filename, data)
	if err != nil {
		return nil, fmt.Errorf("store artifact: %w", err)
	}

	item, err := s.ingest(ctx, title, normalized, storage.OriginFile, artifact, mediaType)
	if err != nil {
		// The row never landed; don't leave an orphan artifact behind.
		if rmErr := s.files.Remove(artifact); rmErr != nil {
			contextutil.LoggerFromContext(ctx).Warn("failed to remove orphan artifact",
				"artifact", artifact, "error", rmErr)
		}
		return nil, err
	}
	return item, nil
}

// IngestURL fetches a web page, extracts its main content, and ingests it.
func (s *Service) IngestURL(ctx context.Context, url string) (*storage.Item, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: url is required", apperr.ErrInvalidInput)
	}

	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	title, text, err := normalizer.ExtractWebPage(html)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = url
	}

	return s.ingest(ctx, title, text, storage.OriginWeb, url, "text/html")
}

// Delete removes an item: the database row (membership cascades), its vector
// point, and, best-effort, its file artifact. A file-removal error is logged
// but never blocks removal of the record.
func (s *Service) Delete(ctx context.Context, id int64) error {
	logger := contextutil.LoggerFromContext(ctx)

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.vectors.Delete(ctx, s.collection, []string{item.PointID}); err != nil {
		logger.WarnContext(ctx, "failed to delete vector point", "item_id", id, "error", err)
	}

	if item.Origin == storage.OriginFile && item.Source != "" {
		if err := s.files.Remove(item.Source); err != nil {
			logger.WarnContext(ctx, "failed to remove file artifact", "item_id", id,
				"artifact", item.Source, "error", err)
		}
	}

	return nil
}

// ingest embeds normalized content and persists the row and the vector
// together. An embedding failure aborts before anything is written; a vector
// write failure rolls the row back so no item ever survives without its
// embedding.
func (s *Service) ingest(ctx context.Context, title, content, origin, source, mediaType string) (*storage.Item, error) {
	logger := contextutil.LoggerFromContext(ctx)

	vec, tokens, err := s.embedder.Embed(ctx, normalizer.EmbedText(content))
	if err != nil {
		return nil, err
	}
	if err := s.meter.Record(ctx, s.embedder.Model(), tokens.PromptTokens, tokens.CompletionTokens); err != nil {
		// The ledger is reporting-only; a metering failure must not lose the
		// ingested content.
		logger.WarnContext(ctx, "failed to record embedding usage", "error", err)
	}

	item := &storage.Item{
		Title:     title,
		Content:   content,
		Origin:    origin,
		Source:    source,
		MediaType: mediaType,
		PointID:   uuid.New().String(),
	}
	if err := s.items.Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("persist item: %w", err)
	}

	point := vectorstore.Point{ID: item.PointID, ItemID: item.ID, Vec: vec}
	if err := s.vectors.Upsert(ctx, s.collection, point); err != nil {
		if delErr := s.items.Delete(ctx, item.ID); delErr != nil {
			logger.ErrorContext(ctx, "failed to roll back item after vector write failure",
				"item_id", item.ID, "error", delErr)
		}
		return nil, fmt.Errorf("store embedding: %w", err)
	}

	logger.InfoContext(ctx, "item ingested", "item_id", item.ID, "origin", origin,
		"content_chars", len(content))
	return item, nil
}
