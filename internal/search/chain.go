package search

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// SearchChain tries searchers in priority order, returning the first
// non-empty result set. Each provider is attempted exactly once.
type SearchChain struct {
	searchers []Searcher
}

// NewSearchChain creates a SearchChain. Searchers are tried in order.
func NewSearchChain(searchers ...Searcher) *SearchChain {
	return &SearchChain{searchers: searchers}
}

// Name returns the chain identifier.
func (c *SearchChain) Name() string { return "chain" }

// Search tries each searcher in order and returns the first non-empty
// snippet set, or an error if every provider fails or comes back empty.
func (c *SearchChain) Search(ctx context.Context, q Query) ([]Snippet, error) {
	var lastErr error
	for _, s := range c.searchers {
		snippets, err := s.Search(ctx, q)
		if err != nil {
			zap.L().Debug("search: provider failed, trying next",
				zap.String("provider", s.Name()),
				zap.String("query", q.Text),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		if len(snippets) > 0 {
			return snippets, nil
		}
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "search: all providers failed")
	}
	return nil, nil
}

// ReaderChain tries readers in priority order, returning the first
// non-empty page content.
type ReaderChain struct {
	readers []Reader
}

// NewReaderChain creates a ReaderChain. Readers are tried in order.
func NewReaderChain(readers ...Reader) *ReaderChain {
	return &ReaderChain{readers: readers}
}

// Name returns the chain identifier.
func (c *ReaderChain) Name() string { return "chain" }

// Read tries each reader in order for the URL.
func (c *ReaderChain) Read(ctx context.Context, url string) (string, error) {
	var lastErr error
	for _, r := range c.readers {
		content, err := r.Read(ctx, url)
		if err != nil {
			zap.L().Debug("search: reader failed, trying next",
				zap.String("reader", r.Name()),
				zap.String("url", url),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		if content != "" {
			return content, nil
		}
	}
	if lastErr != nil {
		return "", eris.Wrap(lastErr, "search: all readers failed")
	}
	return "", eris.Errorf("search: no reader produced content for %s", url)
}
