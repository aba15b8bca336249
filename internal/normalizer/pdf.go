package normalizer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// pageSeparator joins extracted PDF pages in the stored text.
const pageSeparator = "\n\n"

// pdfText extracts text page by page. Extraction stops as soon as the
// accumulated text reaches StorageLimit; remaining pages are never read.
func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var buf strings.Builder
	var runeCount int
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}

		runeCount = appendPageText(&buf, runeCount, pageText)
		if runeCount >= StorageLimit {
			break
		}
	}

	return buf.String(), nil
}

// appendPageText appends one page to the accumulated text and returns the new
// total length. Totals are counted in runes because the limit is a character
// budget; counting bytes would stop multibyte documents early.
func appendPageText(buf *strings.Builder, runeCount int, pageText string) int {
	if buf.Len() > 0 {
		buf.WriteString(pageSeparator)
		runeCount += len(pageSeparator)
	}
	buf.WriteString(pageText)
	return runeCount + utf8.RuneCountInString(pageText)
}
