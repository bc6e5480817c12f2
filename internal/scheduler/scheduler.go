// Package scheduler re-analyzes polls once their response window has
// passed. A cron-driven sweep picks up due polls, re-runs the advisory
// pipeline on the stored question, and marks them analyzed.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agri-advisor/internal/model"
	"github.com/sells-group/agri-advisor/internal/store"
)

// Advisor runs one advisory request. Satisfied by pipeline.Pipeline.
type Advisor interface {
	HandleQuestion(ctx context.Context, question string) *model.Advisory
}

// Scheduler sweeps due polls on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	store   store.Store
	advisor Advisor
	spec    string
	limit   int
}

// New creates a Scheduler. spec is a cron expression (descriptors like
// "@every 10m" work); limit bounds polls handled per sweep.
func New(st store.Store, advisor Advisor, spec string, limit int) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		store:   st,
		advisor: advisor,
		spec:    spec,
		limit:   limit,
	}
}

// Start registers the sweep job and starts the cron runner.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.Sweep(context.Background())
	})
	if err != nil {
		return eris.Wrapf(err, "scheduler: add sweep job %q", s.spec)
	}
	s.cron.Start()
	zap.L().Info("scheduler: started", zap.String("spec", s.spec))
	return nil
}

// Stop halts the cron runner and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.L().Info("scheduler: stopped")
}

// Sweep processes due polls once. Each poll is handled independently:
// a failing poll is logged and skipped, never aborts the sweep.
func (s *Scheduler) Sweep(ctx context.Context) {
	polls, err := s.store.ListDuePolls(ctx, time.Now().UTC(), s.limit)
	if err != nil {
		zap.L().Error("scheduler: list due polls failed", zap.Error(err))
		return
	}
	if len(polls) == 0 {
		return
	}
	zap.L().Info("scheduler: sweeping due polls", zap.Int("count", len(polls)))

	for _, poll := range polls {
		if err := s.reanalyze(ctx, poll); err != nil {
			zap.L().Warn("scheduler: poll re-analysis failed",
				zap.String("poll_id", poll.ID),
				zap.Error(err),
			)
		}
	}
}

func (s *Scheduler) reanalyze(ctx context.Context, poll model.PollRecord) error {
	question, err := s.store.GetQuestion(ctx, poll.QuestionID)
	if err != nil {
		return err
	}
	if question == nil {
		// Orphaned poll: mark analyzed so it stops coming up.
		zap.L().Warn("scheduler: poll has no question", zap.String("poll_id", poll.ID))
		return s.store.MarkPollAnalyzed(ctx, poll.ID)
	}

	advisory := s.advisor.HandleQuestion(ctx, question.Text)
	zap.L().Info("scheduler: poll re-analyzed",
		zap.String("poll_id", poll.ID),
		zap.String("question_id", question.ID),
		zap.String("status", string(advisory.Status)),
	)

	return s.store.MarkPollAnalyzed(ctx, poll.ID)
}
