//go:build !sqlite_fts5

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not compiled in; lexical search scores LIKE candidates in Go.
	return nil
}

func ftsUpsert(_ context.Context, _ *sql.Tx, _ int64, _, _ string) error {
	// Title and content already live in the items table.
	return nil
}

func ftsDelete(_ context.Context, _ *sql.Tx, _ int64) {}

// SearchLexical is the fallback lexical search used when FTS5 is not compiled
// in. Candidate rows are prefiltered with LIKE per query term, then ranked by
// a stemmed frequency-based score. Ties fall back to newest creation time so the
// ordering is deterministic.
func (r *ItemRepo) SearchLexical(ctx context.Context, query string, limit int, notebookID int64) ([]Item, error) {
	if limit <= 0 {
		limit = 20
	}

	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	var conds []string
	var args []any
	q := `SELECT ` + prefixedItemColumns + ` FROM items i`
	if notebookID > 0 {
		q += ` JOIN notebook_items ni ON ni.item_id = i.id AND ni.notebook_id = ?`
		args = append(args, notebookID)
	}
	for _, token := range tokens {
		conds = append(conds, "(i.title LIKE ? OR i.content LIKE ?)")
		like := "%" + likeTerm(token) + "%"
		args = append(args, like, like)
	}
	q += " WHERE " + strings.Join(conds, " OR ")

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	defer rows.Close()

	items, err := collectItems(rows)
	if err != nil {
		return nil, err
	}

	scores := make(map[int64]float64, len(items))
	for _, item := range items {
		scores[item.ID] = lexicalScore(tokens, item.Title, item.Content)
	}

	sort.SliceStable(items, func(a, b int) bool {
		sa, sb := scores[items[a].ID], scores[items[b].ID]
		if sa != sb {
			return sa > sb
		}
		if !items[a].CreatedAt.Equal(items[b].CreatedAt) {
			return items[a].CreatedAt.After(items[b].CreatedAt)
		}
		return items[a].ID > items[b].ID
	})

	// Drop zero-score candidates; a LIKE hit inside an unrelated word is not
	// a token match.
	filtered := items[:0]
	for _, item := range items {
		if scores[item.ID] > 0 {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}
