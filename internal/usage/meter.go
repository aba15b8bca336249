// Package usage meters every call to an external model: token counts and a
// computed cost are appended to a persistent ledger.
package usage

import (
	"context"
	"fmt"

	"notebase/internal/contextutil"
	"notebase/internal/storage"
)

// Price holds per-1000-token rates for one model.
type Price struct {
	InputPer1K  float64
	OutputPer1K float64
}

// PriceTable maps model names to rates. It is treated as immutable after
// construction; inject a fake table in tests.
type PriceTable map[string]Price

// DefaultPrices covers the models the reference deployment uses.
func DefaultPrices() PriceTable {
	return PriceTable{
		"text-embedding-3-small": {InputPer1K: 0.00002},
		"text-embedding-3-large": {InputPer1K: 0.00013},
		"gpt-4o-mini":            {InputPer1K: 0.00015, OutputPer1K: 0.0006},
		"gpt-4o":                 {InputPer1K: 0.0025, OutputPer1K: 0.01},
	}
}

// Meter records external-model calls against a ledger.
type Meter struct {
	prices PriceTable
	store  storage.UsageStore
}

// NewMeter creates a meter over the given price table and ledger store.
func NewMeter(prices PriceTable, store storage.UsageStore) *Meter {
	return &Meter{prices: prices, store: store}
}

// Record appends one ledger row for a model call. A model missing from the
// price table costs zero; that is a pricing-table gap, so it is logged for
// operators rather than silently treated as free.
func (m *Meter) Record(ctx context.Context, model string, promptTokens, completionTokens int) error {
	price, known := m.prices[model]
	if !known {
		contextutil.LoggerFromContext(ctx).Warn("no price configured for model, recording zero cost",
			"model", model)
	}

	cost := float64(promptTokens)/1000*price.InputPer1K +
		float64(completionTokens)/1000*price.OutputPer1K

	record := &storage.UsageRecord{
		Model:            model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Cost:             cost,
	}
	if err := m.store.Append(ctx, record); err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// Cost computes the cost of a call without recording it.
func (m *Meter) Cost(model string, promptTokens, completionTokens int) float64 {
	price := m.prices[model]
	return float64(promptTokens)/1000*price.InputPer1K +
		float64(completionTokens)/1000*price.OutputPer1K
}

// Recorder is the write side consumed by the embedding and generation paths.
type Recorder interface {
	Record(ctx context.Context, model string, promptTokens, completionTokens int) error
}

var _ Recorder = (*Meter)(nil)
