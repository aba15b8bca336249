package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// UsageStore defines the append-only ledger of external-model calls.
type UsageStore interface {
	Append(ctx context.Context, record *UsageRecord) error
	List(ctx context.Context, limit int) ([]UsageRecord, error)
	Totals(ctx context.Context) (*UsageTotals, error)
}

// UsageRepo provides SQLite-backed ledger operations. Records are never
// updated or deleted.
type UsageRepo struct {
	db *sql.DB
}

// NewUsageRepo creates a new UsageRepo.
func NewUsageRepo(db *sql.DB) *UsageRepo {
	return &UsageRepo{db: db}
}

// Append inserts one ledger row.
func (r *UsageRepo) Append(ctx context.Context, record *UsageRecord) error {
	now := time.Now()
	record.CreatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO usage_log (model, prompt_tokens, completion_tokens, total_tokens, cost, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.Model, record.PromptTokens, record.CompletionTokens,
		record.TotalTokens, record.Cost, formatTime(now))
	if err != nil {
		return fmt.Errorf("append usage: %w", err)
	}
	record.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("append usage id: %w", err)
	}
	return nil
}

// List returns up to limit ledger rows, newest first.
func (r *UsageRepo) List(ctx context.Context, limit int) ([]UsageRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, model, prompt_tokens, completion_tokens, total_tokens, cost, created_at
		 FROM usage_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	defer rows.Close()

	var out []UsageRecord
	for rows.Next() {
		var rec UsageRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Model, &rec.PromptTokens, &rec.CompletionTokens,
			&rec.TotalTokens, &rec.Cost, &createdAt); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		if rec.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Totals aggregates the whole ledger.
func (r *UsageRepo) Totals(ctx context.Context) (*UsageTotals, error) {
	var totals UsageTotals
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(cost), 0), COALESCE(SUM(total_tokens), 0), COUNT(*) FROM usage_log`,
	).Scan(&totals.TotalCost, &totals.TotalTokens, &totals.Calls)
	if err != nil {
		return nil, fmt.Errorf("usage totals: %w", err)
	}
	return &totals, nil
}
