package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/agri-advisor/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// fakeStore implements store.Store in memory for sweep tests.
type fakeStore struct {
	questions map[string]*model.QuestionRecord
	polls     []model.PollRecord
	analyzed  []string
	listErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{questions: map[string]*model.QuestionRecord{}}
}

func (f *fakeStore) CreateQuestion(ctx context.Context, userID, text string, domain model.Domain) (*model.QuestionRecord, error) {
	q := &model.QuestionRecord{ID: fmt.Sprintf("q-%d", len(f.questions)+1), UserID: userID, Text: text, Domain: domain}
	f.questions[q.ID] = q
	return q, nil
}

func (f *fakeStore) GetQuestion(ctx context.Context, id string) (*model.QuestionRecord, error) {
	return f.questions[id], nil
}

func (f *fakeStore) CreatePoll(ctx context.Context, questionID string, poll model.Poll, dueAt time.Time) (*model.PollRecord, error) {
	p := model.PollRecord{ID: fmt.Sprintf("p-%d", len(f.polls)+1), QuestionID: questionID, Poll: poll, DueAt: dueAt}
	f.polls = append(f.polls, p)
	return &p, nil
}

func (f *fakeStore) ListDuePolls(ctx context.Context, now time.Time, limit int) ([]model.PollRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var due []model.PollRecord
	for _, p := range f.polls {
		if !p.Analyzed && !p.DueAt.After(now) {
			due = append(due, p)
		}
		if len(due) >= limit {
			break
		}
	}
	return due, nil
}

func (f *fakeStore) MarkPollAnalyzed(ctx context.Context, pollID string) error {
	for i := range f.polls {
		if f.polls[i].ID == pollID {
			f.polls[i].Analyzed = true
			f.analyzed = append(f.analyzed, pollID)
			return nil
		}
	}
	return fmt.Errorf("poll %s not found", pollID)
}

func (f *fakeStore) Migrate(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                      { return nil }

// fakeAdvisor records the questions it was asked.
type fakeAdvisor struct {
	asked []string
}

func (f *fakeAdvisor) HandleQuestion(ctx context.Context, question string) *model.Advisory {
	f.asked = append(f.asked, question)
	return model.Uncertain("No relevant data found.")
}

func TestSweep_ReanalyzesDuePolls(t *testing.T) {
	st := newFakeStore()
	ctx := context.Background()

	q, err := st.CreateQuestion(ctx, "", "fish dying in pond", model.DomainFishFarming)
	require.NoError(t, err)
	due, err := st.CreatePoll(ctx, q.ID, model.Poll{Question: "poll"}, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = st.CreatePoll(ctx, q.ID, model.Poll{Question: "poll"}, time.Now().Add(time.Hour))
	require.NoError(t, err)

	advisor := &fakeAdvisor{}
	New(st, advisor, "@every 10m", 20).Sweep(ctx)

	assert.Equal(t, []string{"fish dying in pond"}, advisor.asked)
	assert.Equal(t, []string{due.ID}, st.analyzed)
}

func TestSweep_OrphanedPollMarkedAnalyzed(t *testing.T) {
	st := newFakeStore()
	st.polls = append(st.polls, model.PollRecord{
		ID:         "p-orphan",
		QuestionID: "gone",
		DueAt:      time.Now().Add(-time.Hour),
	})

	advisor := &fakeAdvisor{}
	New(st, advisor, "@every 10m", 20).Sweep(context.Background())

	assert.Empty(t, advisor.asked)
	assert.Equal(t, []string{"p-orphan"}, st.analyzed)
}

func TestSweep_ListFailureIsNonFatal(t *testing.T) {
	st := newFakeStore()
	st.listErr = fmt.Errorf("connection refused")

	advisor := &fakeAdvisor{}
	New(st, advisor, "@every 10m", 20).Sweep(context.Background())

	assert.Empty(t, advisor.asked)
}

func TestStartStop(t *testing.T) {
	st := newFakeStore()
	s := New(st, &fakeAdvisor{}, "@every 1h", 20)

	require.NoError(t, s.Start())
	s.Stop()
}

func TestStart_BadSpec(t *testing.T) {
	s := New(newFakeStore(), &fakeAdvisor{}, "not a cron spec", 20)
	assert.Error(t, s.Start())
}
