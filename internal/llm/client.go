// Package llm wraps the OpenAI-compatible chat and embeddings APIs. Both
// clients return token usage alongside the primary result so callers can
// meter every call deterministically.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"notebase/internal/apperr"
)

// Client is a chat completions client used for answer generation.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new chat client.
func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Model returns the configured chat model name.
func (c *Client) Model() string {
	return c.model
}

// Chat sends a system+user message pair and returns the completion text and
// its token usage. Failures surface as apperr.ErrGeneration.
func (c *Client) Chat(ctx context.Context, systemPrompt, userMessage string) (string, Usage, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", Usage{}, fmt.Errorf("%w: %v", apperr.ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return "", Usage{}, fmt.Errorf("%w: no choices returned", apperr.ErrGeneration)
	}

	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}
	return resp.Choices[0].Message.Content, usage, nil
}
