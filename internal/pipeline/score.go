package pipeline

import (
	"sort"
	"strings"

	"github.com/sells-group/agri-advisor/internal/model"
)

// sourceBonus is the trust weight added to an item's confidence.
var sourceBonus = map[model.SourceKind]float64{
	model.SourceGovtAdvisory:  0.3,
	model.SourceResearchPaper: 0.2,
	model.SourceFarmerForum:   0.05,
}

// impactBonus further boosts high-authority sources for ranking.
var impactBonus = map[model.SourceKind]float64{
	model.SourceGovtAdvisory:  0.2,
	model.SourceResearchPaper: 0.1,
}

// EvidenceScore computes the item's confidence adjusted by source trust,
// capped at 1.0. Pure function; monotonically non-decreasing in the
// item's confidence.
func EvidenceScore(item model.EvidenceItem) float64 {
	score := item.Confidence + sourceBonus[item.Source]
	if score > 1.0 {
		return 1.0
	}
	return score
}

// ImpactScore boosts the evidence score for high-authority sources.
// Ranking key only; unlike EvidenceScore it may exceed 1.0.
func ImpactScore(item model.EvidenceItem) float64 {
	return item.EvidenceScore + impactBonus[item.Source]
}

// IsRelevant guards livestock domains against cross-domain
// contamination: an item mentioning the contamination term (by default
// "fertilizer") is irrelevant for fish and cattle questions. This is a
// coarse lexical check, kept as a named predicate so it can be swapped
// for embedding similarity without touching the orchestration.
func IsRelevant(item model.EvidenceItem, domain model.Domain, contaminationTerm string) bool {
	if !domain.IsLivestock() || contaminationTerm == "" {
		return true
	}
	return !strings.Contains(item.SerializedText(), strings.ToLower(contaminationTerm))
}

// ScoreEvidence annotates every item with its evidence score.
func ScoreEvidence(items []model.EvidenceItem) {
	for i := range items {
		items[i].EvidenceScore = EvidenceScore(items[i])
	}
}

// FilterEvidence keeps items at or above the safe threshold that pass
// the relevance check. Idempotent: filtering a filtered set is a no-op.
func FilterEvidence(items []model.EvidenceItem, domain model.Domain, safeThreshold float64, contaminationTerm string) []model.EvidenceItem {
	var kept []model.EvidenceItem
	for _, item := range items {
		if item.EvidenceScore < safeThreshold {
			continue
		}
		if !IsRelevant(item, domain, contaminationTerm) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// RankEvidence annotates impact scores, sorts descending by impact
// (stable, so ties keep source order), and truncates to max items to
// bound the synthesis prompt.
func RankEvidence(items []model.EvidenceItem, max int) []model.EvidenceItem {
	for i := range items {
		items[i].ImpactScore = ImpactScore(items[i])
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ImpactScore > items[j].ImpactScore
	})

	if max > 0 && len(items) > max {
		items = items[:max]
	}
	return items
}
