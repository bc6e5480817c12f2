package search

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agri-advisor/pkg/firecrawl"
)

// FirecrawlReader is the fallback page reader.
type FirecrawlReader struct {
	client firecrawl.Client
}

// NewFirecrawlReader creates a Firecrawl-backed page reader.
func NewFirecrawlReader(client firecrawl.Client) *FirecrawlReader {
	return &FirecrawlReader{client: client}
}

// Name returns the provider identifier.
func (r *FirecrawlReader) Name() string { return "firecrawl" }

// Read scrapes the URL as markdown.
func (r *FirecrawlReader) Read(ctx context.Context, url string) (string, error) {
	resp, err := r.client.Scrape(ctx, firecrawl.ScrapeRequest{URL: url})
	if err != nil {
		return "", eris.Wrap(err, "search: firecrawl scrape")
	}
	if !resp.Success {
		return "", eris.Errorf("search: firecrawl scrape unsuccessful for %s", url)
	}
	return resp.Data.Markdown, nil
}
