package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agri-advisor/internal/pipeline"
	"github.com/sells-group/agri-advisor/internal/search"
	"github.com/sells-group/agri-advisor/internal/store"
	anthropicpkg "github.com/sells-group/agri-advisor/pkg/anthropic"
	"github.com/sells-group/agri-advisor/pkg/firecrawl"
	"github.com/sells-group/agri-advisor/pkg/jina"
	"github.com/sells-group/agri-advisor/pkg/perplexity"
)

// advisorEnv holds the initialized store, clients, and pipeline needed
// by the ask/serve commands.
type advisorEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the advisor environment.
func (ae *advisorEnv) Close() {
	if ae.Store != nil {
		_ = ae.Store.Close()
	}
}

// initStore opens the configured database backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres", "":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initAdvisor sets up the store, API clients, search chains, and the
// advisory pipeline. Callers should defer env.Close().
func initAdvisor(ctx context.Context) (*advisorEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	aiClient := anthropicpkg.NewClient(cfg.Anthropic.Key)

	jinaOpts := []jina.Option{jina.WithBaseURL(cfg.Jina.BaseURL)}
	if cfg.Jina.SearchBaseURL != "" {
		jinaOpts = append(jinaOpts, jina.WithSearchBaseURL(cfg.Jina.SearchBaseURL))
	}
	if cfg.Jina.RateLimit > 0 {
		jinaOpts = append(jinaOpts, jina.WithRateLimit(cfg.Jina.RateLimit, cfg.Jina.RateBurst))
	}
	jinaClient := jina.NewClient(cfg.Jina.Key, jinaOpts...)

	// Search chain: Jina primary, Perplexity fallback when configured.
	searchers := []search.Searcher{search.NewJinaSearcher(jinaClient)}
	if cfg.Perplexity.Key != "" {
		pplxClient := perplexity.NewClient(cfg.Perplexity.Key,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model),
		)
		searchers = append(searchers, search.NewPerplexitySearcher(pplxClient))
	} else {
		zap.L().Debug("AGRI_PERPLEXITY_KEY not set, search fallback disabled")
	}
	searchChain := search.NewSearchChain(searchers...)

	// Reader chain: Jina primary, Firecrawl fallback when configured.
	readers := []search.Reader{search.NewJinaReader(jinaClient)}
	if cfg.Firecrawl.Key != "" {
		fcClient := firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
		readers = append(readers, search.NewFirecrawlReader(fcClient))
	} else {
		zap.L().Debug("AGRI_FIRECRAWL_KEY not set, reader fallback disabled")
	}
	readerChain := search.NewReaderChain(readers...)

	classifier := pipeline.NewClassifier(aiClient, cfg.Anthropic.HaikuModel)
	synth := pipeline.NewSynthesizer(aiClient, cfg.Anthropic.SonnetModel, cfg.Pipeline.DedupOverlap)

	pipe := pipeline.New(cfg.Pipeline, classifier, synth,
		pipeline.NewResearchSource(searchChain, readerChain, aiClient, cfg.Anthropic.HaikuModel, cfg.Pipeline.ResearchMaxPages, cfg.Pipeline.ResearchMaxParas),
		pipeline.NewGovtSource(searchChain, aiClient, cfg.Anthropic.HaikuModel, cfg.Pipeline.GovtSite),
		pipeline.NewForumSource(time.Duration(cfg.Pipeline.ForumDelayMs)*time.Millisecond),
	)

	return &advisorEnv{
		Store:    st,
		Pipeline: pipe,
	}, nil
}
