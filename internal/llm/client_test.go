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

func TestClient_Chat(t *testing.T) {
	var gotMessages []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body struct {
			Model    string           `json:"model"`
			Messages []map[string]any `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotMessages = body.Messages
		if body.Model != "chat-test" {
			t.Errorf("model = %q, want chat-test", body.Model)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": "the answer"}},
			},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL, "chat-test")
	text, usage, err := client.Chat(context.Background(), "system prompt", "user question")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if text != "the answer" {
		t.Errorf("Chat() = %q, want %q", text, "the answer")
	}
	if usage.PromptTokens != 40 || usage.CompletionTokens != 25 {
		t.Errorf("Chat() usage = %+v, want 40/25", usage)
	}

	if len(gotMessages) != 2 {
		t.Fatalf("Chat() sent %d messages, want 2", len(gotMessages))
	}
	if gotMessages[0]["role"] != "system" || gotMessages[0]["content"] != "system prompt" {
		t.Errorf("Chat() first message = %v, want the system prompt", gotMessages[0])
	}
	if gotMessages[1]["role"] != "user" || gotMessages[1]["content"] != "user question" {
		t.Errorf("Chat() second message = %v, want the user question", gotMessages[1])
	}
}

func TestClient_ChatServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL, "chat-test")
	if _, _, err := client.Chat(context.Background(), "s", "u"); !errors.Is(err, apperr.ErrGeneration) {
		t.Errorf("Chat() error = %v, want ErrGeneration", err)
	}
}
