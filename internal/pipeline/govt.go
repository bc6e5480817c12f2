package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/agri-advisor/internal/model"
	"github.com/sells-group/agri-advisor/internal/search"
	"github.com/sells-group/agri-advisor/pkg/anthropic"
)

const (
	govtMaxSnippets        = 5
	govtDefaultConfidence  = 0.9
	govtExtractInstruction = "Extract official government agricultural advisory data from the search snippets below."
)

// GovtSource fetches evidence from government advisory portals: a
// site-restricted snippet search followed by model extraction.
type GovtSource struct {
	searcher  search.Searcher
	extractor extractor
	site      string
}

// NewGovtSource creates the government advisory source. site restricts
// the search to a government domain suffix, e.g. "gov.in".
func NewGovtSource(searcher search.Searcher, ai anthropic.Client, modelID, site string) *GovtSource {
	return &GovtSource{
		searcher:  searcher,
		extractor: extractor{ai: ai, model: modelID},
		site:      site,
	}
}

// Name returns the source identifier.
func (s *GovtSource) Name() string { return "govt_advisory" }

// Fetch searches government advisories for the query and structures the
// snippets into evidence items. Any failure returns an empty slice.
func (s *GovtSource) Fetch(ctx context.Context, query string, domain model.Domain) []model.EvidenceItem {
	snippets, err := s.searcher.Search(ctx, search.Query{
		Text:       query + " agriculture advisory",
		Site:       s.site,
		MaxResults: govtMaxSnippets,
	})
	if err != nil {
		zap.L().Warn("govt source: search failed", zap.Error(err))
		return nil
	}
	if len(snippets) == 0 {
		return nil
	}

	var sb strings.Builder
	for _, sn := range snippets {
		if sn.Title != "" {
			sb.WriteString(sn.Title)
			sb.WriteString(": ")
		}
		sb.WriteString(sn.Text)
		sb.WriteString("\n")
	}

	items, err := s.extractor.Extract(ctx, govtExtractInstruction, sb.String(), model.SourceGovtAdvisory, govtDefaultConfidence)
	if err != nil {
		zap.L().Warn("govt source: extraction failed", zap.Error(err))
		return nil
	}
	return items
}
