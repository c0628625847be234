package rag

import (
	"strings"
)

// fallbackScore marks keyword-scan results so callers can tell them apart
// from real similarity scores.
const fallbackScore = 0.4

const fallbackWindow = 2

// keywordSearch scans raw documents line by line for query tokens and
// returns short windows around matching lines, capped at k.
func keywordSearch(docs []Document, query string, k int) []SearchResult {
	tokens := queryTokens(query)
	if len(tokens) == 0 || k <= 0 {
		return nil
	}

	var results []SearchResult
	for _, doc := range docs {
		lines := strings.Split(doc.Content, "\n")
		for i, line := range lines {
			if !containsAny(strings.ToLower(line), tokens) {
				continue
			}

			start := max(0, i-fallbackWindow)
			end := min(len(lines), i+fallbackWindow+1)
			snippet := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
			if snippet == "" {
				continue
			}

			results = append(results, SearchResult{
				Text:         snippet,
				Source:       doc.Source,
				DocumentType: doc.Type,
				Score:        fallbackScore,
				Fallback:     true,
			})
			if len(results) >= k {
				return results
			}
		}
	}
	return results
}

func queryTokens(query string) []string {
	var tokens []string
	for _, token := range strings.Fields(strings.ToLower(query)) {
		token = strings.Trim(token, ".,;:!?\"'()[]")
		if len(token) > 2 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func containsAny(line string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(line, token) {
			return true
		}
	}
	return false
}
