package normalizer

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"notebase/internal/apperr"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{"plain text", "hello world", "hello world", nil},
		{"surrounding whitespace trimmed", "  \n hello \t\n", "hello", nil},
		{"empty", "", "", apperr.ErrEmptyContent},
		{"whitespace only", "   \n\t  ", "", apperr.ErrEmptyContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeText(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NormalizeText() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeText_StorageLimit(t *testing.T) {
	raw := strings.Repeat("é", StorageLimit+500)

	got, err := NormalizeText(raw)
	if err != nil {
		t.Fatalf("NormalizeText() error = %v", err)
	}
	if n := utf8.RuneCountInString(got); n != StorageLimit {
		t.Errorf("NormalizeText() rune count = %d, want %d", n, StorageLimit)
	}
	if !utf8.ValidString(got) {
		t.Error("NormalizeText() produced invalid UTF-8")
	}
}

func TestEmbedText(t *testing.T) {
	short := "short content"
	if got := EmbedText(short); got != short {
		t.Errorf("EmbedText() = %q, want unchanged", got)
	}

	long := strings.Repeat("x", StorageLimit)
	got := EmbedText(long)
	if n := utf8.RuneCountInString(got); n != EmbedLimit {
		t.Errorf("EmbedText() rune count = %d, want %d", n, EmbedLimit)
	}
}

func TestNormalizeBytes_Markdown(t *testing.T) {
	src := "# Title\n\nSome *emphasized* text with a [link](https://example.com).\n\n```go\nfunc main() {}\n```\n"

	got, err := NormalizeBytes([]byte(src), "text/markdown")
	if err != nil {
		t.Fatalf("NormalizeBytes() error = %v", err)
	}
	for _, want := range []string{"Title", "Some", "emphasized", "link", "func main() {}"} {
		if !strings.Contains(got, want) {
			t.Errorf("NormalizeBytes() missing %q in %q", want, got)
		}
	}
	for _, reject := range []string{"#", "*", "```", "]("} {
		if strings.Contains(got, reject) {
			t.Errorf("NormalizeBytes() kept markup %q in %q", reject, got)
		}
	}
}

func TestNormalizeBytes_MediaTypeDispatch(t *testing.T) {
	// Parameters on the media type must not break dispatch.
	got, err := NormalizeBytes([]byte("# Heading"), "text/markdown; charset=utf-8")
	if err != nil {
		t.Fatalf("NormalizeBytes() error = %v", err)
	}
	if strings.Contains(got, "#") {
		t.Errorf("NormalizeBytes() did not treat input as markdown: %q", got)
	}

	got, err = NormalizeBytes([]byte("plain body"), "")
	if err != nil {
		t.Fatalf("NormalizeBytes() error = %v", err)
	}
	if got != "plain body" {
		t.Errorf("NormalizeBytes() = %q, want %q", got, "plain body")
	}
}

func TestNormalizeBytes_Empty(t *testing.T) {
	if _, err := NormalizeBytes([]byte("   "), "text/plain"); !errors.Is(err, apperr.ErrEmptyContent) {
		t.Errorf("NormalizeBytes() error = %v, want ErrEmptyContent", err)
	}
}
