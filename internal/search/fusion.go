// Package search fuses semantic (vector) and lexical (full-text) retrieval
// into a single ranked result list using Reciprocal Rank Fusion. RRF needs
// only rank positions, so the two modalities' incomparable score scales
// (cosine similarity vs. text-rank weight) never have to be normalized
// against each other.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"notebase/internal/apperr"
	"notebase/internal/contextutil"
	"notebase/internal/llm"
	"notebase/internal/storage"
	"notebase/internal/usage"
	"notebase/internal/vectorstore"
)

const (
	// candidateDepth is how many candidates each modality contributes before
	// fusion.
	candidateDepth = 50

	// rrfK damps rank-1 dominance and keeps the 1/(K+rank) terms bounded.
	rrfK = 60

	defaultLimit = 10
)

// Embedder converts the query into a vector and reports token usage.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, llm.Usage, error)
	Model() string
}

// Result is one fused search hit.
type Result struct {
	Item  storage.Item
	Score float64
}

// Ranker runs hybrid search over the item corpus.
type Ranker struct {
	items      storage.ItemStore
	vectors    vectorstore.VectorStore
	collection string
	embedder   Embedder
	meter      usage.Recorder
}

// NewRanker creates a hybrid ranker.
func NewRanker(items storage.ItemStore, vectors vectorstore.VectorStore, collection string, embedder Embedder, meter usage.Recorder) *Ranker {
	return &Ranker{
		items:      items,
		vectors:    vectors,
		collection: collection,
		embedder:   embedder,
		meter:      meter,
	}
}

// Search embeds the query, issues the vector and lexical sub-queries
// concurrently, and fuses both candidate lists. Results are ordered by
// descending fused score; ties break toward the newer item so ordering is
// deterministic.
func (r *Ranker) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", apperr.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	queryVec, tokens, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := r.meter.Record(ctx, r.embedder.Model(), tokens.PromptTokens, tokens.CompletionTokens); err != nil {
		contextutil.LoggerFromContext(ctx).Warn("failed to record embedding usage", "error", err)
	}

	// The two sub-queries are independent; run them concurrently and fuse
	// once both complete.
	var vectorRanked, lexicalRanked []int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hits, err := r.vectors.Search(gctx, r.collection, queryVec, candidateDepth, nil)
		if err != nil {
			return fmt.Errorf("vector search: %w", err)
		}
		vectorRanked = make([]int64, 0, len(hits))
		for _, hit := range hits {
			vectorRanked = append(vectorRanked, hit.ItemID)
		}
		return nil
	})
	g.Go(func() error {
		items, err := r.items.SearchLexical(gctx, query, candidateDepth, 0)
		if err != nil {
			return fmt.Errorf("lexical search: %w", err)
		}
		lexicalRanked = make([]int64, 0, len(items))
		for _, item := range items {
			lexicalRanked = append(lexicalRanked, item.ID)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores := fuse(vectorRanked, lexicalRanked)
	if len(scores) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	items, err := r.items.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		results = append(results, Result{Item: item, Score: scores[item.ID]})
	}
	sortResults(results)

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// fuse computes RRF scores for the union of two ranked candidate lists. The
// union is a sparse outer join keyed by item id: an item absent from one list
// simply contributes nothing from that modality.
func fuse(vectorRanked, lexicalRanked []int64) map[int64]float64 {
	scores := make(map[int64]float64, len(vectorRanked)+len(lexicalRanked))
	for i, id := range vectorRanked {
		scores[id] += 1.0 / float64(rrfK+i+1)
	}
	for i, id := range lexicalRanked {
		scores[id] += 1.0 / float64(rrfK+i+1)
	}
	return scores
}

// sortResults orders by descending fused score, breaking ties by newer
// creation time, then by id.
func sortResults(results []Result) {
	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		if !results[a].Item.CreatedAt.Equal(results[b].Item.CreatedAt) {
			return results[a].Item.CreatedAt.After(results[b].Item.CreatedAt)
		}
		return results[a].Item.ID > results[b].Item.ID
	})
}
