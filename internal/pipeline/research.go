package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/agri-advisor/internal/model"
	"github.com/sells-group/agri-advisor/internal/search"
	"github.com/sells-group/agri-advisor/pkg/anthropic"
)

const researchDefaultConfidence = 0.7

// domainKeywords gives each domain its own literature search vocabulary
// so the research query lands on the right body of work.
var domainKeywords = map[model.Domain]string{
	model.DomainFishFarming:       "aquaculture pond management treatment",
	model.DomainCattleManagement:  "veterinary livestock cattle treatment",
	model.DomainCropManagement:    "agronomy crop protection treatment",
	model.DomainSoilManagement:    "soil science amendment remediation",
	model.DomainStorageManagement: "post-harvest storage preservation",
	model.DomainIrrigation:        "irrigation water management efficiency",
}

// ResearchSource fetches evidence from research literature: a keyword
// search, page scraping through the reader chain, and model extraction
// of domain-relevant technical interventions.
type ResearchSource struct {
	searcher  search.Searcher
	reader    search.Reader
	extractor extractor
	maxPages  int
	maxParas  int
}

// NewResearchSource creates the research literature source. maxPages
// bounds the result pages read, maxParas the paragraphs kept per page.
func NewResearchSource(searcher search.Searcher, reader search.Reader, ai anthropic.Client, modelID string, maxPages, maxParas int) *ResearchSource {
	return &ResearchSource{
		searcher:  searcher,
		reader:    reader,
		extractor: extractor{ai: ai, model: modelID},
		maxPages:  maxPages,
		maxParas:  maxParas,
	}
}

// Name returns the source identifier.
func (s *ResearchSource) Name() string { return "research" }

// Fetch searches the literature for the query, scrapes the top result
// pages, and extracts technical interventions. Any failure returns an
// empty slice.
func (s *ResearchSource) Fetch(ctx context.Context, query string, domain model.Domain) []model.EvidenceItem {
	keywords, ok := domainKeywords[domain]
	if !ok {
		keywords = "treatment best practices guidelines"
	}

	snippets, err := s.searcher.Search(ctx, search.Query{
		Text:       fmt.Sprintf("%s %s", query, keywords),
		MaxResults: s.maxPages,
	})
	if err != nil {
		zap.L().Warn("research source: search failed", zap.Error(err))
		return nil
	}
	if len(snippets) == 0 {
		return nil
	}

	var sb strings.Builder
	for _, sn := range snippets {
		// Snippet text is usable even when the page read fails.
		if sn.Text != "" {
			sb.WriteString(sn.Text)
			sb.WriteString("\n")
		}
		if sn.URL == "" {
			continue
		}
		content, readErr := s.reader.Read(ctx, sn.URL)
		if readErr != nil {
			zap.L().Debug("research source: page read failed",
				zap.String("url", sn.URL),
				zap.Error(readErr),
			)
			continue
		}
		for _, para := range topParagraphs(content, s.maxParas) {
			sb.WriteString(para)
			sb.WriteString("\n")
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return nil
	}

	items, err := s.extractor.Extract(ctx, researchInstruction(domain), sb.String(), model.SourceResearchPaper, researchDefaultConfidence)
	if err != nil {
		zap.L().Warn("research source: extraction failed", zap.Error(err))
		return nil
	}
	return items
}

// researchInstruction frames the extraction for the domain. Livestock
// domains explicitly discard fertilizer content, the most common
// crop-side contamination in scraped pages.
func researchInstruction(domain model.Domain) string {
	base := fmt.Sprintf("Extract only technical interventions relevant to %s from the research text below.", domain)
	if domain.IsLivestock() {
		base += " Discard anything about fertilizers or crop nutrition."
	}
	return base
}

// topParagraphs splits markdown content into paragraphs and keeps the
// first max non-trivial ones.
func topParagraphs(content string, max int) []string {
	var paras []string
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if len(block) < 40 {
			continue
		}
		paras = append(paras, block)
		if max > 0 && len(paras) >= max {
			break
		}
	}
	return paras
}
