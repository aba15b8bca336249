package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"notebase/internal/apperr"
)

// EmbeddingsClient converts text into fixed-dimension vectors through an
// OpenAI-compatible embeddings API.
type EmbeddingsClient struct {
	client       *openai.Client
	model        string
	expectedSize int
}

// NewEmbeddingsClient creates a new embeddings client. expectedSize is the
// configured vector width; every returned vector is validated against it,
// since the vector store's collection is created with exactly this dimension.
func NewEmbeddingsClient(apiKey, baseURL, model string, expectedSize int) *EmbeddingsClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &EmbeddingsClient{
		client:       openai.NewClientWithConfig(cfg),
		model:        model,
		expectedSize: expectedSize,
	}
}

// Model returns the configured embedding model name.
func (c *EmbeddingsClient) Model() string {
	return c.model
}

// Embed generates an embedding for the given text and reports the call's
// token usage. Text must be non-empty; internal newlines are normalized to
// spaces before sending, as embedding models are sensitive to literal line
// breaks. Any transport or API failure surfaces as apperr.ErrEmbedding.
func (c *EmbeddingsClient) Embed(ctx context.Context, text string) ([]float32, Usage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, Usage{}, fmt.Errorf("%w: empty input", apperr.ErrEmbedding)
	}

	input := strings.ReplaceAll(text, "\n", " ")

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: []string{input},
	})
	if err != nil {
		return nil, Usage{}, fmt.Errorf("%w: %v", apperr.ErrEmbedding, err)
	}
	if len(resp.Data) == 0 {
		return nil, Usage{}, fmt.Errorf("%w: no embedding returned", apperr.ErrEmbedding)
	}

	vec := resp.Data[0].Embedding
	if len(vec) != c.expectedSize {
		return nil, Usage{}, fmt.Errorf("%w: vector size %d, expected %d",
			apperr.ErrEmbedding, len(vec), c.expectedSize)
	}

	usage := Usage{PromptTokens: resp.Usage.PromptTokens}
	return vec, usage, nil
}
