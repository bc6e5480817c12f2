// Package search provides chained web search and page reading for the
// evidence sources. Providers are tried in priority order; the first
// usable result wins.
package search

import "context"

// Snippet is one search result snippet.
type Snippet struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// Query describes a snippet search.
type Query struct {
	Text       string
	Site       string // optional site filter, e.g. "gov.in"
	MaxResults int
}

// Searcher returns candidate snippets for a query.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Snippet, error)
	Name() string
}

// Reader fetches a single URL and returns its markdown content.
type Reader interface {
	Read(ctx context.Context, url string) (string, error)
	Name() string
}
