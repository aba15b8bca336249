package normalizer

import (
	"errors"
	"strings"
	"testing"

	"notebase/internal/apperr"
)

func TestExtractWebPage(t *testing.T) {
	html := `<html>
<head><title>Release Notes</title><style>body { color: red; }</style></head>
<body>
<nav>Home | About | Contact</nav>
<main>
  <h1>Version 2.0</h1>
  <p>The scheduler was rewritten.</p>
  <script>console.log("tracking");</script>
</main>
<footer>Copyright 2026</footer>
</body>
</html>`

	title, text, err := ExtractWebPage(html)
	if err != nil {
		t.Fatalf("ExtractWebPage() error = %v", err)
	}
	if title != "Release Notes" {
		t.Errorf("ExtractWebPage() title = %q, want %q", title, "Release Notes")
	}
	for _, want := range []string{"Version 2.0", "The scheduler was rewritten."} {
		if !strings.Contains(text, want) {
			t.Errorf("ExtractWebPage() missing %q in %q", want, text)
		}
	}
	for _, reject := range []string{"console.log", "color: red", "Home | About", "Copyright"} {
		if strings.Contains(text, reject) {
			t.Errorf("ExtractWebPage() kept non-content %q in %q", reject, text)
		}
	}
}

func TestExtractWebPage_FallsBackToBody(t *testing.T) {
	html := `<html><head><title>Bare</title></head><body><p>No main element here.</p></body></html>`

	_, text, err := ExtractWebPage(html)
	if err != nil {
		t.Fatalf("ExtractWebPage() error = %v", err)
	}
	if !strings.Contains(text, "No main element here.") {
		t.Errorf("ExtractWebPage() = %q, want body text", text)
	}
}

func TestExtractWebPage_PrefersArticleOverBody(t *testing.T) {
	html := `<html><body>
<div>sidebar junk everywhere</div>
<article><p>The actual story.</p></article>
</body></html>`

	_, text, err := ExtractWebPage(html)
	if err != nil {
		t.Fatalf("ExtractWebPage() error = %v", err)
	}
	if !strings.Contains(text, "The actual story.") {
		t.Errorf("ExtractWebPage() missing article text in %q", text)
	}
	if strings.Contains(text, "sidebar junk") {
		t.Errorf("ExtractWebPage() kept text outside the article: %q", text)
	}
}

func TestExtractWebPage_EmptyContent(t *testing.T) {
	html := `<html><head><title>Empty</title></head><body><script>var x = 1;</script></body></html>`

	_, _, err := ExtractWebPage(html)
	if !errors.Is(err, apperr.ErrEmptyContent) {
		t.Errorf("ExtractWebPage() error = %v, want ErrEmptyContent", err)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := collapseWhitespace("  a \n\n  b\tc  ")
	if got != "a\nb c" {
		t.Errorf("collapseWhitespace() = %q, want %q", got, "a\nb c")
	}
}
