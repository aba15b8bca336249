package storage

import (
	"strings"
	"unicode"
)

var lexicalStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {},
	"or": {}, "the": {}, "to": {}, "was": {}, "were": {}, "with": {},
}

// queryTokens lowercases, splits on non-alphanumerics, and drops stopwords.
// Both lexical search variants build their match terms from this. Stemming
// happens later: the FTS5 variant stems inside SQLite via the porter
// tokenizer, the fallback variant stems in Go with stemToken.
func queryTokens(query string) []string {
	return filterStopwords(tokenize(query))
}

// stemToken strips common English plural suffixes so an inflected query term
// matches its base form and vice versa. Much lighter than a full stemmer; it
// only has to agree between query tokens and document tokens.
func stemToken(token string) string {
	switch {
	case len(token) > 4 && strings.HasSuffix(token, "ies"):
		return token[:len(token)-3] + "y"
	case len(token) > 3 && strings.HasSuffix(token, "es") &&
		(strings.HasSuffix(token, "ses") || strings.HasSuffix(token, "xes") ||
			strings.HasSuffix(token, "zes") || strings.HasSuffix(token, "oes") ||
			strings.HasSuffix(token, "ches") || strings.HasSuffix(token, "shes")):
		return token[:len(token)-2]
	case len(token) > 3 && strings.HasSuffix(token, "s") &&
		!strings.HasSuffix(token, "ss") && !strings.HasSuffix(token, "us") &&
		!strings.HasSuffix(token, "is"):
		return token[:len(token)-1]
	}
	return token
}

// likeTerm returns the substring used to prefilter candidate rows for a
// query token. It is the prefix shared by the token and its inflected forms,
// so the LIKE stage never excludes a row the scorer would accept.
func likeTerm(token string) string {
	switch {
	case len(token) > 4 && strings.HasSuffix(token, "ies"):
		return token[:len(token)-3]
	case len(token) > 3 && strings.HasSuffix(token, "y"):
		return token[:len(token)-1]
	default:
		return stemToken(token)
	}
}

func stemTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, len(tokens))
	for i, token := range tokens {
		out[i] = stemToken(token)
	}
	return out
}

func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	tokens := strings.Fields(builder.String())
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

func filterStopwords(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}

	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, isStop := lexicalStopwords[token]; isStop {
			continue
		}
		result = append(result, token)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

const (
	lexicalLengthScale = 10.0
	titleMatchBonus    = 0.1
)

// lexicalScore computes a frequency-based relevance score for an item against
// pre-tokenized query terms. Query and document tokens are both stemmed so
// singular and plural forms count as the same term. Used by the fallback
// search path when FTS5 is not compiled in; the FTS5 path ranks in SQL
// instead.
func lexicalScore(tokens []string, title, content string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	tokens = stemTokens(tokens)

	contentTokens := stemTokens(tokenize(content))
	if len(contentTokens) == 0 && title == "" {
		return 0
	}

	freq := make(map[string]int, len(contentTokens))
	for _, token := range contentTokens {
		freq[token]++
	}

	var rawMatches int
	for _, token := range tokens {
		rawMatches += freq[token]
	}

	score := float64(rawMatches) / (1 + float64(len(contentTokens))) * lexicalLengthScale

	if title != "" {
		titleSet := make(map[string]struct{})
		for _, token := range stemTokens(tokenize(title)) {
			titleSet[token] = struct{}{}
		}
		for _, token := range tokens {
			if _, ok := titleSet[token]; ok {
				score += titleMatchBonus
			}
		}
	}

	return score
}
