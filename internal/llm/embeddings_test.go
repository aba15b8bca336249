package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"notebase/internal/apperr"
)

func embeddingServer(t *testing.T, dim int, handler func(body map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if handler != nil {
			handler(body)
		}
		vec := make([]float32, dim)
		for i := range vec {
			vec[i] = 0.5
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": vec},
			},
			"model": "embed-test",
			"usage": map[string]any{"prompt_tokens": 9, "total_tokens": 9},
		})
	}))
}

func TestEmbeddingsClient_Embed(t *testing.T) {
	var gotInput any
	srv := embeddingServer(t, 4, func(body map[string]any) {
		gotInput = body["input"]
	})
	defer srv.Close()

	client := NewEmbeddingsClient("test-key", srv.URL, "embed-test", 4)
	vec, usage, err := client.Embed(context.Background(), "line one\nline two")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 4 {
		t.Errorf("Embed() vector size = %d, want 4", len(vec))
	}
	if usage.PromptTokens != 9 {
		t.Errorf("Embed() prompt tokens = %d, want 9", usage.PromptTokens)
	}

	// Newlines are flattened before sending.
	inputs, ok := gotInput.([]any)
	if !ok || len(inputs) != 1 {
		t.Fatalf("Embed() sent input = %v, want single string", gotInput)
	}
	if inputs[0] != "line one line two" {
		t.Errorf("Embed() sent %q, want newlines replaced", inputs[0])
	}
}

func TestEmbeddingsClient_EmbedEmptyInput(t *testing.T) {
	client := NewEmbeddingsClient("test-key", "http://unused", "embed-test", 4)

	if _, _, err := client.Embed(context.Background(), "  \n "); !errors.Is(err, apperr.ErrEmbedding) {
		t.Errorf("Embed() error = %v, want ErrEmbedding", err)
	}
}

func TestEmbeddingsClient_EmbedSizeMismatch(t *testing.T) {
	srv := embeddingServer(t, 3, nil)
	defer srv.Close()

	client := NewEmbeddingsClient("test-key", srv.URL, "embed-test", 1536)
	if _, _, err := client.Embed(context.Background(), "text"); !errors.Is(err, apperr.ErrEmbedding) {
		t.Errorf("Embed() error = %v, want ErrEmbedding on size mismatch", err)
	}
}

func TestEmbeddingsClient_EmbedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewEmbeddingsClient("test-key", srv.URL, "embed-test", 4)
	if _, _, err := client.Embed(context.Background(), "text"); !errors.Is(err, apperr.ErrEmbedding) {
		t.Errorf("Embed() error = %v, want ErrEmbedding", err)
	}
}

func TestUsage_Total(t *testing.T) {
	u := Usage{PromptTokens: 3, CompletionTokens: 4}
	if u.Total() != 7 {
		t.Errorf("Total() = %d, want 7", u.Total())
	}
}
