// Package pipeline implements the evidence aggregation and ranking
// pipeline: domain classification, concurrent multi-source evidence
// fetch, scoring and filtering, impact ranking, synthesis through the
// advisory model, and validation of its structured output.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/agri-advisor/internal/config"
	"github.com/sells-group/agri-advisor/internal/model"
)

// State names one stage of the advisory state machine. Terminal states
// are the three advisory statuses.
type State string

const (
	StateClassifying  State = "classifying"
	StateFetching     State = "fetching_evidence"
	StateScoring      State = "scoring"
	StateFiltering    State = "filtering"
	StateRanking      State = "ranking"
	StateSynthesizing State = "synthesizing"
	StateValidating   State = "validating"
)

// Pipeline orchestrates one advisory request end to end.
type Pipeline struct {
	cfg        config.PipelineConfig
	classifier *Classifier
	synth      *Synthesizer
	sources    []Source
}

// New creates a Pipeline. Source order is the tie-break order for
// equally ranked evidence.
func New(cfg config.PipelineConfig, classifier *Classifier, synth *Synthesizer, sources ...Source) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		classifier: classifier,
		synth:      synth,
		sources:    sources,
	}
}

// HandleQuestion runs the full state machine for one question. Every
// code path returns a well-formed advisory; no error escapes.
func (p *Pipeline) HandleQuestion(ctx context.Context, question string) *model.Advisory {
	log := zap.L().With(zap.String("question", question))

	log.Debug("pipeline: state", zap.String("state", string(StateClassifying)))
	domain := p.classifier.Classify(ctx, question)
	if domain == model.DomainUnknown {
		log.Info("pipeline: domain unknown, short-circuiting")
		return model.Uncertain("Unable to classify agriculture domain.")
	}
	log = log.With(zap.String("domain", string(domain)))

	log.Debug("pipeline: state", zap.String("state", string(StateFetching)))
	timeout := time.Duration(p.cfg.SourceTimeoutSecs) * time.Second
	combined := gatherEvidence(ctx, p.sources, question, domain, timeout)
	if len(combined) == 0 {
		log.Info("pipeline: no evidence from any source")
		return model.Uncertain("No relevant data found.")
	}

	log.Debug("pipeline: state", zap.String("state", string(StateScoring)))
	ScoreEvidence(combined)

	log.Debug("pipeline: state", zap.String("state", string(StateFiltering)))
	filtered := FilterEvidence(combined, domain, p.cfg.SafeThreshold, p.cfg.ContaminationTerm)
	if len(filtered) == 0 {
		log.Info("pipeline: no evidence above threshold",
			zap.Int("combined", len(combined)),
			zap.Float64("threshold", p.cfg.SafeThreshold),
		)
		return model.Uncertain("No strong domain-relevant verified evidence found.")
	}

	log.Debug("pipeline: state", zap.String("state", string(StateRanking)))
	ranked := RankEvidence(filtered, p.cfg.MaxEvidence)
	log.Info("pipeline: evidence ranked",
		zap.Int("combined", len(combined)),
		zap.Int("filtered", len(filtered)),
		zap.Int("ranked", len(ranked)),
	)

	log.Debug("pipeline: state", zap.String("state", string(StateSynthesizing)))
	advisory := p.synth.Synthesize(ctx, domain, question, ranked)

	log.Info("pipeline: finished", zap.String("status", string(advisory.Status)))
	return advisory
}
