package normalizer

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nonContentSelector matches markup that never carries article text. It is
// removed before extraction so navigation chrome does not pollute content.
const nonContentSelector = "script, style, noscript, iframe, svg, nav, header, footer, form, aside"

// ExtractWebPage extracts the page title and readable text from an HTML
// document. Extraction prefers a semantic main-content region (main, article,
// or an element with role=main) and falls back to the full body.
func ExtractWebPage(html string) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find(nonContentSelector).Remove()

	region := doc.Find("main").First()
	if region.Length() == 0 {
		region = doc.Find("article").First()
	}
	if region.Length() == 0 {
		region = doc.Find("[role=main]").First()
	}
	if region.Length() == 0 {
		region = doc.Find("body").First()
	}

	text, err = finish(collapseWhitespace(region.Text()))
	return title, text, err
}

// collapseWhitespace reduces runs of blank lines and intra-line whitespace
// left behind by removed markup.
func collapseWhitespace(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
