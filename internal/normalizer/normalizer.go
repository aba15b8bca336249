// Package normalizer extracts length-bounded plain text from raw content
// sources: inline text, uploaded files (plain, markdown, PDF), and fetched
// web pages. It is a pure transformation; persistence happens elsewhere.
package normalizer

import (
	"fmt"
	"mime"
	"strings"

	"notebase/internal/apperr"
)

const (
	// StorageLimit is the hard ceiling on persisted content length, in
	// characters. Extraction stops early once it is reached to bound memory
	// and downstream cost.
	StorageLimit = 25000

	// EmbedLimit bounds the text actually sent for embedding. Always at most
	// StorageLimit; the full stored text is what users see.
	EmbedLimit = 15000
)

// NormalizeText normalizes an inline text block.
func NormalizeText(raw string) (string, error) {
	return finish(raw)
}

// NormalizeBytes extracts text from an uploaded file according to its
// declared media type. Unknown types are treated as plain text.
func NormalizeBytes(data []byte, mediaType string) (string, error) {
	mt := mediaType
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mt = parsed
	}

	switch mt {
	case "application/pdf":
		text, err := pdfText(data)
		if err != nil {
			return "", fmt.Errorf("extract pdf: %w", err)
		}
		return finish(text)
	case "text/markdown", "text/x-markdown":
		return finish(markdownText(data))
	case "text/html":
		_, text, err := ExtractWebPage(string(data))
		return text, err
	default:
		return finish(string(data))
	}
}

// EmbedText returns the prefix of normalized content that is sent to the
// embedding API.
func EmbedText(content string) string {
	return truncateRunes(content, EmbedLimit)
}

// finish trims, enforces the storage ceiling, and rejects empty extractions
// before any external call can happen.
func finish(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.ErrEmptyContent
	}
	return truncateRunes(text, StorageLimit), nil
}

// truncateRunes cuts s to at most limit characters. Limits are specified in
// characters, not bytes, so multi-byte text is never split mid-rune.
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
