package search

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agri-advisor/pkg/jina"
)

// JinaSearcher performs snippet search via Jina AI Search.
type JinaSearcher struct {
	client jina.Client
}

// NewJinaSearcher creates a Jina-backed searcher.
func NewJinaSearcher(client jina.Client) *JinaSearcher {
	return &JinaSearcher{client: client}
}

// Name returns the provider identifier.
func (s *JinaSearcher) Name() string { return "jina" }

// Search runs the query against s.jina.ai and trims to MaxResults.
func (s *JinaSearcher) Search(ctx context.Context, q Query) ([]Snippet, error) {
	var opts []jina.SearchOption
	if q.Site != "" {
		opts = append(opts, jina.WithSiteFilter(q.Site))
	}

	resp, err := s.client.Search(ctx, q.Text, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "search: jina search")
	}

	snippets := make([]Snippet, 0, len(resp.Data))
	for _, r := range resp.Data {
		text := r.Description
		if text == "" {
			text = r.Content
		}
		snippets = append(snippets, Snippet{
			Title: r.Title,
			URL:   r.URL,
			Text:  text,
		})
		if q.MaxResults > 0 && len(snippets) >= q.MaxResults {
			break
		}
	}
	return snippets, nil
}

// JinaReader fetches pages via Jina AI Reader.
type JinaReader struct {
	client jina.Client
}

// NewJinaReader creates a Jina-backed page reader.
func NewJinaReader(client jina.Client) *JinaReader {
	return &JinaReader{client: client}
}

// Name returns the provider identifier.
func (r *JinaReader) Name() string { return "jina" }

// Read fetches the URL as markdown.
func (r *JinaReader) Read(ctx context.Context, url string) (string, error) {
	resp, err := r.client.Read(ctx, url)
	if err != nil {
		return "", eris.Wrap(err, "search: jina read")
	}
	return resp.Data.Content, nil
}
