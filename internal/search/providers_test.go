package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agri-advisor/pkg/firecrawl"
	"github.com/sells-group/agri-advisor/pkg/jina"
	"github.com/sells-group/agri-advisor/pkg/perplexity"
)

type fakeJina struct {
	readResp   *jina.ReadResponse
	searchResp *jina.SearchResponse
	err        error
}

func (f *fakeJina) Read(ctx context.Context, targetURL string) (*jina.ReadResponse, error) {
	return f.readResp, f.err
}

func (f *fakeJina) Search(ctx context.Context, query string, opts ...jina.SearchOption) (*jina.SearchResponse, error) {
	return f.searchResp, f.err
}

type fakePerplexity struct {
	answer string
	err    error
}

func (f *fakePerplexity) ChatCompletion(ctx context.Context, req perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	return nil, f.err
}

func (f *fakePerplexity) Ask(ctx context.Context, prompt string) (string, error) {
	return f.answer, f.err
}

type fakeFirecrawl struct {
	resp *firecrawl.ScrapeResponse
	err  error
}

func (f *fakeFirecrawl) Scrape(ctx context.Context, req firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
	return f.resp, f.err
}

func TestJinaSearcher_MapsResultsAndTrims(t *testing.T) {
	client := &fakeJina{searchResp: &jina.SearchResponse{
		Code: 200,
		Data: []jina.SearchResult{
			{Title: "ICAR advisory", URL: "https://icar.gov.in/a", Description: "desc one"},
			{Title: "Fallback content", URL: "https://icar.gov.in/b", Content: "body text"},
			{Title: "Trimmed", URL: "https://icar.gov.in/c", Description: "never seen"},
		},
	}}

	s := NewJinaSearcher(client)
	snippets, err := s.Search(context.Background(), Query{Text: "q", MaxResults: 2})

	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, "desc one", snippets[0].Text)
	// Description falls back to content when absent.
	assert.Equal(t, "body text", snippets[1].Text)
}

func TestJinaSearcher_Error(t *testing.T) {
	s := NewJinaSearcher(&fakeJina{err: fmt.Errorf("429")})
	_, err := s.Search(context.Background(), Query{Text: "q"})
	assert.Error(t, err)
}

func TestJinaReader(t *testing.T) {
	r := NewJinaReader(&fakeJina{readResp: &jina.ReadResponse{
		Code: 200,
		Data: jina.ReadData{Content: "# markdown body"},
	}})

	content, err := r.Read(context.Background(), "https://example.org")
	require.NoError(t, err)
	assert.Equal(t, "# markdown body", content)
}

func TestPerplexitySearcher_LinesBecomeSnippets(t *testing.T) {
	s := NewPerplexitySearcher(&fakePerplexity{answer: "finding one\n\n finding two \nfinding three"})

	snippets, err := s.Search(context.Background(), Query{Text: "q", MaxResults: 2})
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, "finding one", snippets[0].Text)
	assert.Equal(t, "finding two", snippets[1].Text)
}

func TestPerplexitySearcher_Error(t *testing.T) {
	s := NewPerplexitySearcher(&fakePerplexity{err: fmt.Errorf("401")})
	_, err := s.Search(context.Background(), Query{Text: "q"})
	assert.Error(t, err)
}

func TestFirecrawlReader(t *testing.T) {
	r := NewFirecrawlReader(&fakeFirecrawl{resp: &firecrawl.ScrapeResponse{
		Success: true,
		Data:    firecrawl.PageData{Markdown: "scraped page"},
	}})

	content, err := r.Read(context.Background(), "https://example.org")
	require.NoError(t, err)
	assert.Equal(t, "scraped page", content)
}

func TestFirecrawlReader_Unsuccessful(t *testing.T) {
	r := NewFirecrawlReader(&fakeFirecrawl{resp: &firecrawl.ScrapeResponse{Success: false}})
	_, err := r.Read(context.Background(), "https://example.org")
	assert.Error(t, err)
}
