//go:build sqlite_fts5

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
			item_id UNINDEXED,
			title,
			content,
			tokenize = 'porter unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(ctx context.Context, tx *sql.Tx, itemID int64, title, content string) error {
	_, _ = tx.ExecContext(ctx, `DELETE FROM items_fts WHERE item_id = ?`, itemID)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO items_fts (item_id, title, content) VALUES (?, ?, ?)`,
		itemID, title, content)
	if err != nil {
		return fmt.Errorf("upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(ctx context.Context, tx *sql.Tx, itemID int64) {
	_, _ = tx.ExecContext(ctx, `DELETE FROM items_fts WHERE item_id = ?`, itemID)
}

// SearchLexical runs an FTS5 full-text query ranked by bm25 (the implicit
// "rank" ordering). The porter tokenizer stems indexed text and query terms
// alike, so inflected forms of a word match each other. Query terms are
// tokenized and quoted so raw user input cannot inject FTS5 match syntax.
func (r *ItemRepo) SearchLexical(ctx context.Context, query string, limit int, notebookID int64) ([]Item, error) {
	if limit <= 0 {
		limit = 20
	}

	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return nil, nil
	}
	quoted := make([]string, len(tokens))
	for i, token := range tokens {
		quoted[i] = `"` + token + `"`
	}
	match := strings.Join(quoted, " OR ")

	q := `SELECT ` + prefixedItemColumns + `
		FROM items_fts f
		JOIN items i ON i.id = f.item_id`
	args := []any{}
	if notebookID > 0 {
		q += ` JOIN notebook_items ni ON ni.item_id = i.id AND ni.notebook_id = ?`
		args = append(args, notebookID)
	}
	q += ` WHERE items_fts MATCH ? ORDER BY rank LIMIT ?`
	args = append(args, match, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}
