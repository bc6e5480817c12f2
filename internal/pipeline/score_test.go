package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/agri-advisor/internal/model"
)

func TestEvidenceScore_Bounds(t *testing.T) {
	for _, source := range []model.SourceKind{model.SourceGovtAdvisory, model.SourceResearchPaper, model.SourceFarmerForum} {
		for _, conf := range []float64{0.0, 0.3, 0.5, 0.9, 1.0} {
			score := EvidenceScore(model.EvidenceItem{Source: source, Confidence: conf})
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}

func TestEvidenceScore_MonotonicInConfidence(t *testing.T) {
	prev := -1.0
	for _, conf := range []float64{0.0, 0.2, 0.4, 0.6, 0.8, 1.0} {
		score := EvidenceScore(model.EvidenceItem{Source: model.SourceResearchPaper, Confidence: conf})
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}

func TestEvidenceScore_SourceBonuses(t *testing.T) {
	assert.InDelta(t, 0.55, EvidenceScore(model.EvidenceItem{Source: model.SourceFarmerForum, Confidence: 0.5}), 1e-9)
	assert.InDelta(t, 0.8, EvidenceScore(model.EvidenceItem{Source: model.SourceResearchPaper, Confidence: 0.6}), 1e-9)
	// Capped at 1.0: 0.9 + 0.3 would exceed.
	assert.InDelta(t, 1.0, EvidenceScore(model.EvidenceItem{Source: model.SourceGovtAdvisory, Confidence: 0.9}), 1e-9)
}

func TestFilterEvidence_ThresholdExample(t *testing.T) {
	items := []model.EvidenceItem{
		{Source: model.SourceFarmerForum, Recommendation: "a", Confidence: 0.5},
		{Source: model.SourceResearchPaper, Recommendation: "b", Confidence: 0.6},
		{Source: model.SourceGovtAdvisory, Recommendation: "c", Confidence: 0.9},
	}
	ScoreEvidence(items)

	filtered := FilterEvidence(items, model.DomainCropManagement, 0.65, "fertilizer")
	assert.Len(t, filtered, 2)
	assert.Equal(t, "b", filtered[0].Recommendation)
	assert.Equal(t, "c", filtered[1].Recommendation)
}

func TestFilterEvidence_Idempotent(t *testing.T) {
	items := []model.EvidenceItem{
		{Source: model.SourceGovtAdvisory, Recommendation: "lime application", Confidence: 0.9},
		{Source: model.SourceResearchPaper, Recommendation: "drainage upgrade", Confidence: 0.8},
	}
	ScoreEvidence(items)

	once := FilterEvidence(items, model.DomainSoilManagement, 0.75, "fertilizer")
	twice := FilterEvidence(once, model.DomainSoilManagement, 0.75, "fertilizer")
	assert.Equal(t, once, twice)
}

func TestIsRelevant_LivestockContamination(t *testing.T) {
	item := model.EvidenceItem{
		Source:         model.SourceResearchPaper,
		Recommendation: "Apply nitrogen fertilizer to the pasture",
		Confidence:     0.9,
	}

	assert.False(t, IsRelevant(item, model.DomainFishFarming, "fertilizer"))
	assert.False(t, IsRelevant(item, model.DomainCattleManagement, "fertilizer"))
	// Crop domains are not guarded.
	assert.True(t, IsRelevant(item, model.DomainCropManagement, "fertilizer"))
	// Empty term disables the guard.
	assert.True(t, IsRelevant(item, model.DomainFishFarming, ""))
}

func TestRankEvidence_ImpactOrder(t *testing.T) {
	items := []model.EvidenceItem{
		{Source: model.SourceFarmerForum, Recommendation: "forum", Confidence: 0.9},
		{Source: model.SourceResearchPaper, Recommendation: "research", Confidence: 0.7},
		{Source: model.SourceGovtAdvisory, Recommendation: "govt", Confidence: 0.7},
	}
	ScoreEvidence(items)
	// forum=0.95, research=0.9, govt=1.0 → impact: forum=0.95, research=1.0, govt=1.2

	ranked := RankEvidence(items, 10)
	assert.Equal(t, "govt", ranked[0].Recommendation)
	assert.Equal(t, "research", ranked[1].Recommendation)
	assert.Equal(t, "forum", ranked[2].Recommendation)
}

func TestRankEvidence_StableOnTies(t *testing.T) {
	items := []model.EvidenceItem{
		{Source: model.SourceFarmerForum, Recommendation: "first", Confidence: 0.5},
		{Source: model.SourceFarmerForum, Recommendation: "second", Confidence: 0.5},
		{Source: model.SourceFarmerForum, Recommendation: "third", Confidence: 0.5},
	}
	ScoreEvidence(items)

	ranked := RankEvidence(items, 10)
	assert.Equal(t, "first", ranked[0].Recommendation)
	assert.Equal(t, "second", ranked[1].Recommendation)
	assert.Equal(t, "third", ranked[2].Recommendation)
}

func TestRankEvidence_Truncates(t *testing.T) {
	var items []model.EvidenceItem
	for i := 0; i < 15; i++ {
		items = append(items, model.EvidenceItem{Source: model.SourceResearchPaper, Confidence: 0.7})
	}
	ScoreEvidence(items)

	ranked := RankEvidence(items, 10)
	assert.Len(t, ranked, 10)
}
