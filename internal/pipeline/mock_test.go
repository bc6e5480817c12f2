package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/agri-advisor/internal/model"
	"github.com/sells-group/agri-advisor/internal/search"
	"github.com/sells-group/agri-advisor/pkg/anthropic"
)

// --- Anthropic Mock ---

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// textResponse builds a single-block message response.
func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

// --- Searcher / Reader stubs ---

type stubSearcher struct {
	snippets []search.Snippet
	err      error
	lastQ    search.Query
}

func (s *stubSearcher) Name() string { return "stub" }

func (s *stubSearcher) Search(ctx context.Context, q search.Query) ([]search.Snippet, error) {
	s.lastQ = q
	return s.snippets, s.err
}

type stubReader struct {
	content string
	err     error
}

func (s *stubReader) Name() string { return "stub" }

func (s *stubReader) Read(ctx context.Context, url string) (string, error) {
	return s.content, s.err
}

// --- Source stub ---

type stubSource struct {
	name   string
	items  []model.EvidenceItem
	called bool
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, query string, domain model.Domain) []model.EvidenceItem {
	s.called = true
	return s.items
}
