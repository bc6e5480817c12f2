package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/agri-advisor/internal/model"
)

// Source produces candidate evidence items for a query/domain pair.
// Implementations are best-effort and independently optional: any
// internal failure surfaces as an empty slice, never as an error.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string, domain model.Domain) []model.EvidenceItem
}

// gatherEvidence runs all sources concurrently and joins their results
// in registration order, so ranking ties later resolve by source order.
// Each source runs under its own timeout; expiry is equivalent to an
// internal failure and contributes an empty result.
func gatherEvidence(ctx context.Context, sources []Source, query string, domain model.Domain, timeout time.Duration) []model.EvidenceItem {
	results := make([][]model.EvidenceItem, len(sources))

	g, gCtx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			srcCtx := gCtx
			if timeout > 0 {
				var cancel context.CancelFunc
				srcCtx, cancel = context.WithTimeout(gCtx, timeout)
				defer cancel()
			}

			start := time.Now()
			items := src.Fetch(srcCtx, query, domain)
			results[i] = items
			zap.L().Debug("evidence: source finished",
				zap.String("source", src.Name()),
				zap.Int("items", len(items)),
				zap.Duration("elapsed", time.Since(start)),
			)
			return nil
		})
	}
	_ = g.Wait()

	var combined []model.EvidenceItem
	for _, items := range results {
		combined = append(combined, items...)
	}
	return combined
}
