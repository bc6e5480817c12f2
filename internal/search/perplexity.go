package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agri-advisor/pkg/perplexity"
)

// PerplexitySearcher is the fallback snippet provider. Perplexity
// returns a synthesized answer rather than a result list, so each
// non-empty line of the answer becomes one snippet.
type PerplexitySearcher struct {
	client perplexity.Client
}

// NewPerplexitySearcher creates a Perplexity-backed searcher.
func NewPerplexitySearcher(client perplexity.Client) *PerplexitySearcher {
	return &PerplexitySearcher{client: client}
}

// Name returns the provider identifier.
func (s *PerplexitySearcher) Name() string { return "perplexity" }

// Search asks sonar for a short list of findings on the query.
func (s *PerplexitySearcher) Search(ctx context.Context, q Query) ([]Snippet, error) {
	prompt := fmt.Sprintf("List the most relevant published findings for: %s. One finding per line, plain text, no numbering.", q.Text)
	if q.Site != "" {
		prompt += fmt.Sprintf(" Restrict to sources from %s.", q.Site)
	}

	answer, err := s.client.Ask(ctx, prompt)
	if err != nil {
		return nil, eris.Wrap(err, "search: perplexity ask")
	}

	var snippets []Snippet
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		snippets = append(snippets, Snippet{Text: line})
		if q.MaxResults > 0 && len(snippets) >= q.MaxResults {
			break
		}
	}
	return snippets, nil
}
