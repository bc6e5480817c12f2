package pipeline

import (
	"context"
	"time"

	"github.com/sells-group/agri-advisor/internal/model"
)

// ForumSource is a fixed-latency stand-in for a community knowledge
// source. It models a slower, less structured practitioner channel and
// always contributes one low-weight item.
type ForumSource struct {
	delay time.Duration
}

// NewForumSource creates the practitioner forum source.
func NewForumSource(delay time.Duration) *ForumSource {
	return &ForumSource{delay: delay}
}

// Name returns the source identifier.
func (s *ForumSource) Name() string { return "farmer_forum" }

// Fetch waits out the simulated latency and returns the canned item.
// A canceled context returns empty, same as an internal failure.
func (s *ForumSource) Fetch(ctx context.Context, query string, domain model.Domain) []model.EvidenceItem {
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(s.delay):
	}

	return []model.EvidenceItem{
		{
			Source:         model.SourceFarmerForum,
			Recommendation: "Improved field monitoring",
			Dosage:         "Regular observation",
			Confidence:     0.75,
		},
	}
}
