package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_notebook_store.go -package=mocks notebase/internal/storage NotebookStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"notebase/internal/apperr"
)

// NotebookStore defines the interface for notebook storage operations.
type NotebookStore interface {
	Create(ctx context.Context, notebook *Notebook) error
	GetByID(ctx context.Context, id int64) (*Notebook, error)
	List(ctx context.Context) ([]Notebook, error)
	// Update renames a notebook and/or replaces its notes.
	Update(ctx context.Context, notebook *Notebook) error
	Delete(ctx context.Context, id int64) error
	// AddItem adds an item to a notebook and touches the notebook's
	// updated_at. Adding an existing member is a no-op for the membership row
	// but still touches the notebook.
	AddItem(ctx context.Context, notebookID, itemID int64) error
	// RemoveItem removes an item from a notebook and touches updated_at.
	RemoveItem(ctx context.Context, notebookID, itemID int64) error
	// MemberIDs returns the ids of all items in a notebook.
	MemberIDs(ctx context.Context, notebookID int64) ([]int64, error)
}

// NotebookRepo provides SQLite-backed notebook operations. It implements
// NotebookStore.
type NotebookRepo struct {
	db *sql.DB
}

// NewNotebookRepo creates a new NotebookRepo.
func NewNotebookRepo(db *sql.DB) *NotebookRepo {
	return &NotebookRepo{db: db}
}

const notebookColumns = "id, title, notes, created_at, updated_at"

func scanNotebook(row interface{ Scan(...any) error }) (*Notebook, error) {
	var nb Notebook
	var createdAt, updatedAt string

	err := row.Scan(&nb.ID, &nb.Title, &nb.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if nb.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if nb.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &nb, nil
}

// Create persists a new notebook and assigns its identifier.
func (r *NotebookRepo) Create(ctx context.Context, notebook *Notebook) error {
	now := time.Now()
	notebook.CreatedAt = now
	notebook.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notebooks (title, notes, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		notebook.Title, notebook.Notes, formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("insert notebook: %w", err)
	}
	notebook.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert notebook id: %w", err)
	}
	return nil
}

// GetByID returns a notebook by id, or apperr.ErrNotFound.
func (r *NotebookRepo) GetByID(ctx context.Context, id int64) (*Notebook, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+notebookColumns+" FROM notebooks WHERE id = ?", id)
	nb, err := scanNotebook(row)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query notebook: %w", err)
	}
	return nb, nil
}

// List returns all notebooks, most recently updated first.
func (r *NotebookRepo) List(ctx context.Context) ([]Notebook, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+notebookColumns+" FROM notebooks ORDER BY updated_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	defer rows.Close()

	var out []Notebook
	for rows.Next() {
		nb, err := scanNotebook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notebook: %w", err)
		}
		out = append(out, *nb)
	}
	return out, rows.Err()
}

// Update replaces a notebook's title and notes.
func (r *NotebookRepo) Update(ctx context.Context, notebook *Notebook) error {
	now := time.Now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE notebooks SET title = ?, notes = ?, updated_at = ? WHERE id = ?`,
		notebook.Title, notebook.Notes, formatTime(now), notebook.ID)
	if err != nil {
		return fmt.Errorf("update notebook: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update notebook: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	notebook.UpdatedAt = now
	return nil
}

// Delete removes a notebook; membership rows cascade.
func (r *NotebookRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notebooks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete notebook: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete notebook: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// AddItem adds an item to a notebook. The membership write and the
// updated_at touch run in one transaction.
func (r *NotebookRepo) AddItem(ctx context.Context, notebookID, itemID int64) error {
	return r.updateMembership(ctx, notebookID, itemID,
		`INSERT OR IGNORE INTO notebook_items (notebook_id, item_id) VALUES (?, ?)`, false)
}

// RemoveItem removes an item from a notebook. Removing a non-member returns
// apperr.ErrNotFound.
func (r *NotebookRepo) RemoveItem(ctx context.Context, notebookID, itemID int64) error {
	return r.updateMembership(ctx, notebookID, itemID,
		`DELETE FROM notebook_items WHERE notebook_id = ? AND item_id = ?`, true)
}

func (r *NotebookRepo) updateMembership(ctx context.Context, notebookID, itemID int64, stmt string, requireRow bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin membership update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, stmt, notebookID, itemID)
	if err != nil {
		// A foreign key violation means the notebook or item is gone.
		return fmt.Errorf("%w: update membership: %v", apperr.ErrNotFound, err)
	}
	if requireRow {
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update membership: %w", err)
		}
		if affected == 0 {
			return apperr.ErrNotFound
		}
	}

	touch, err := tx.ExecContext(ctx,
		`UPDATE notebooks SET updated_at = ? WHERE id = ?`,
		formatTime(time.Now()), notebookID)
	if err != nil {
		return fmt.Errorf("touch notebook: %w", err)
	}
	affected, err := touch.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch notebook: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}

	return tx.Commit()
}

// MemberIDs returns the ids of all items in a notebook.
func (r *NotebookRepo) MemberIDs(ctx context.Context, notebookID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id FROM notebook_items WHERE notebook_id = ?`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
