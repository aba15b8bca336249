// Package rag answers questions about a notebook by retrieving its most
// relevant items and handing them to the chat model as grounding context.
package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"notebase/internal/apperr"
	"notebase/internal/contextutil"
	"notebase/internal/llm"
	"notebase/internal/storage"
	"notebase/internal/usage"
	"notebase/internal/vectorstore"
)

// contextDepth is how many notebook items are retrieved as grounding context.
const contextDepth = 5

const systemPrompt = `You are a helpful assistant that answers questions using only the provided context.
Base every statement on the context below. If the context does not contain the
information needed to answer, say so plainly instead of guessing.

Context:
%s`

// Embedder converts the question into a vector and reports token usage.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, llm.Usage, error)
	Model() string
}

// Chatter produces a completion from a system prompt and a user message.
type Chatter interface {
	Chat(ctx context.Context, systemPrompt, userMessage string) (string, llm.Usage, error)
	Model() string
}

// Answer is the generated response plus the sources that grounded it.
type Answer struct {
	Text    string
	Sources []Source
}

// Source identifies one item used as context.
type Source struct {
	ItemID     int64   `json:"item_id"`
	Title      string  `json:"title"`
	Similarity float32 `json:"similarity"`
}

// Engine wires retrieval and generation together for notebook Q&A.
type Engine struct {
	notebooks  storage.NotebookStore
	items      storage.ItemStore
	vectors    vectorstore.VectorStore
	collection string
	embedder   Embedder
	chat       Chatter
	meter      usage.Recorder
}

// NewEngine creates a Q&A engine.
func NewEngine(notebooks storage.NotebookStore, items storage.ItemStore, vectors vectorstore.VectorStore, collection string, embedder Embedder, chat Chatter, meter usage.Recorder) *Engine {
	return &Engine{
		notebooks:  notebooks,
		items:      items,
		vectors:    vectors,
		collection: collection,
		embedder:   embedder,
		chat:       chat,
		meter:      meter,
	}
}

// Ask answers a question scoped to one notebook. Retrieval is restricted to
// the notebook's items; a notebook with no items still gets an answer from
// its notes alone.
func (e *Engine) Ask(ctx context.Context, notebookID int64, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is required", apperr.ErrInvalidInput)
	}
	notebook, err := e.notebooks.GetByID(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	memberIDs, err := e.notebooks.MemberIDs(ctx, notebookID)
	if err != nil {
		return nil, err
	}

	var sources []Source
	var items map[int64]storage.Item
	if len(memberIDs) > 0 {
		queryVec, tokens, err := e.embedder.Embed(ctx, question)
		if err != nil {
			return nil, err
		}
		e.record(ctx, e.embedder.Model(), tokens)

		hits, err := e.vectors.Search(ctx, e.collection, queryVec, contextDepth, memberIDs)
		if err != nil {
			return nil, err
		}
		sources, items, err = e.resolveSources(ctx, hits)
		if err != nil {
			return nil, err
		}
	}

	prompt := fmt.Sprintf(systemPrompt, buildContext(notebook, sources, items))
	text, tokens, err := e.chat.Chat(ctx, prompt, question)
	if err != nil {
		return nil, err
	}
	e.record(ctx, e.chat.Model(), tokens)

	return &Answer{Text: text, Sources: sources}, nil
}

func (e *Engine) record(ctx context.Context, model string, tokens llm.Usage) {
	if err := e.meter.Record(ctx, model, tokens.PromptTokens, tokens.CompletionTokens); err != nil {
		contextutil.LoggerFromContext(ctx).Warn("failed to record usage", "model", model, "error", err)
	}
}

// resolveSources loads the items behind the vector hits, preserving the hits'
// relevance order.
func (e *Engine) resolveSources(ctx context.Context, hits []vectorstore.Hit) ([]Source, map[int64]storage.Item, error) {
	if len(hits) == 0 {
		return nil, nil, nil
	}
	ids := make([]int64, 0, len(hits))
	order := make(map[int64]int, len(hits))
	for i, hit := range hits {
		ids = append(ids, hit.ItemID)
		order[hit.ItemID] = i
	}
	loaded, err := e.items.ListByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	items := make(map[int64]storage.Item, len(loaded))
	sources := make([]Source, 0, len(hits))
	for _, item := range loaded {
		items[item.ID] = item
	}
	for _, hit := range hits {
		item, ok := items[hit.ItemID]
		if !ok {
			// Stale vector pointing at a deleted row; skip it.
			continue
		}
		sources = append(sources, Source{ItemID: item.ID, Title: item.Title, Similarity: hit.Similarity})
	}
	sort.SliceStable(sources, func(a, b int) bool {
		return order[sources[a].ItemID] < order[sources[b].ItemID]
	})
	return sources, items, nil
}

// buildContext assembles the grounding block: the notebook's own notes first,
// then each retrieved document with its title and similarity, separated by a
// visible delimiter.
func buildContext(notebook *storage.Notebook, sources []Source, items map[int64]storage.Item) string {
	var b strings.Builder
	if strings.TrimSpace(notebook.Notes) != "" {
		b.WriteString("Notebook notes:\n")
		b.WriteString(notebook.Notes)
	}
	for _, src := range sources {
		item := items[src.ItemID]
		if b.Len() > 0 {
			b.WriteString("\n\n---\n\n")
		}
		// Cosine scores can go negative; a negative percentage would only
		// confuse the model.
		similarity := src.Similarity
		if similarity < 0 {
			similarity = 0
		}
		fmt.Fprintf(&b, "Document: %s (Similarity: %.1f%%)\nContent:\n%s", item.Title, similarity*100, item.Content)
	}
	if b.Len() == 0 {
		return "(no documents in this notebook)"
	}
	return b.String()
}
