package model

import (
	"fmt"
	"strings"
)

// SourceKind identifies the provenance of an evidence item and drives
// its scoring weight.
type SourceKind string

const (
	SourceGovtAdvisory  SourceKind = "govt_advisory"
	SourceResearchPaper SourceKind = "research_paper"
	SourceFarmerForum   SourceKind = "farmer_forum"
)

// EvidenceItem is one candidate recommendation gathered from a single
// source. The recommendation fields are read-only once created;
// EvidenceScore and ImpactScore are annotated in place during pipeline
// execution.
type EvidenceItem struct {
	Source         SourceKind `json:"source"`
	Recommendation string     `json:"recommendation"`
	Dosage         string     `json:"dosage,omitempty"`
	Method         string     `json:"method,omitempty"`
	Confidence     float64    `json:"confidence"`

	// Derived during scoring and ranking.
	EvidenceScore float64 `json:"evidence_score"`
	ImpactScore   float64 `json:"impact_score"`
}

// SerializedText renders the item as a single lowercased string for
// substring-based relevance checks.
func (e EvidenceItem) SerializedText() string {
	return strings.ToLower(fmt.Sprintf("%s %s %s %s", e.Source, e.Recommendation, e.Dosage, e.Method))
}
