// Package store persists asked questions and the polls emitted by
// successful advisories. Evidence items are never persisted; they live
// only for the duration of one request.
package store

import (
	"context"
	"time"

	"github.com/sells-group/agri-advisor/internal/model"
)

// Store defines the persistence interface for the advisory service.
type Store interface {
	// Questions
	CreateQuestion(ctx context.Context, userID, text string, domain model.Domain) (*model.QuestionRecord, error)
	GetQuestion(ctx context.Context, id string) (*model.QuestionRecord, error)

	// Polls
	CreatePoll(ctx context.Context, questionID string, poll model.Poll, dueAt time.Time) (*model.PollRecord, error)
	ListDuePolls(ctx context.Context, now time.Time, limit int) ([]model.PollRecord, error)
	MarkPollAnalyzed(ctx context.Context, pollID string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
