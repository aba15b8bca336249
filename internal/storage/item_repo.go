package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_item_store.go -package=mocks notebase/internal/storage ItemStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"notebase/internal/apperr"
)

// ItemStore defines the interface for content item storage operations.
type ItemStore interface {
	// Insert persists a new item and assigns its identifier.
	Insert(ctx context.Context, item *Item) error
	// GetByID returns an item or apperr.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*Item, error)
	// Delete removes an item; membership rows cascade.
	Delete(ctx context.Context, id int64) error
	// ListRecent returns up to limit items ordered by newest creation time.
	ListRecent(ctx context.Context, limit int) ([]Item, error)
	// ListByIDs returns the items whose ids are in the given set, in no
	// particular order. Missing ids are skipped.
	ListByIDs(ctx context.Context, ids []int64) ([]Item, error)
	// SearchLexical runs a ranked full-text query over item titles and
	// content. notebookID restricts results to members of that notebook;
	// zero means no restriction. Results are in descending relevance order.
	SearchLexical(ctx context.Context, query string, limit int, notebookID int64) ([]Item, error)
}

// ItemRepo provides SQLite-backed item operations. It implements ItemStore.
type ItemRepo struct {
	db *sql.DB
}

// NewItemRepo creates a new ItemRepo.
func NewItemRepo(db *sql.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

const (
	itemColumns         = "id, title, content, origin, source, media_type, point_id, created_at, updated_at"
	prefixedItemColumns = "i.id, i.title, i.content, i.origin, i.source, i.media_type, i.point_id, i.created_at, i.updated_at"
)

func scanItem(row interface{ Scan(...any) error }) (*Item, error) {
	var item Item
	var content sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&item.ID, &item.Title, &content, &item.Origin, &item.Source,
		&item.MediaType, &item.PointID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	item.Content = content.String

	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

// Insert persists a new item together with its full-text index entry.
func (r *ItemRepo) Insert(ctx context.Context, item *Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert item: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	res, err := tx.ExecContext(ctx,
		`INSERT INTO items (title, content, origin, source, media_type, point_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Title, item.Content, item.Origin, item.Source, item.MediaType,
		item.PointID, formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	item.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert item id: %w", err)
	}

	if err := ftsUpsert(ctx, tx, item.ID, item.Title, item.Content); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID returns an item by id, or apperr.ErrNotFound.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return item, nil
}

// Delete removes an item and its full-text index entry. Notebook membership
// rows cascade via the foreign key. Usage records are untouched.
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete item: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}

	ftsDelete(ctx, tx, id)

	return tx.Commit()
}

// ListRecent returns up to limit items, newest first.
func (r *ItemRepo) ListRecent(ctx context.Context, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM items ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// ListByIDs returns the items whose ids are in the given set.
func (r *ItemRepo) ListByIDs(ctx context.Context, ids []int64) ([]Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id IN ("+strings.Join(placeholders, ",")+")", args...)
	if err != nil {
		return nil, fmt.Errorf("list items by id: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]Item, error) {
	var out []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}
