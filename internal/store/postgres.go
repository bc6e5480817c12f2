package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/agri-advisor/internal/db"
	"github.com/sells-group/agri-advisor/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS questions (
	id            UUID PRIMARY KEY,
	user_id       TEXT NOT NULL DEFAULT '',
	question_text TEXT NOT NULL,
	domain        TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS polls (
	id          UUID PRIMARY KEY,
	question_id UUID NOT NULL REFERENCES questions(id),
	poll_data   JSONB NOT NULL,
	analyzed    BOOLEAN NOT NULL DEFAULT false,
	due_at      TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_polls_due ON polls (due_at) WHERE NOT analyzed;
`

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// CreateQuestion stores an asked question with its resolved domain.
func (s *PostgresStore) CreateQuestion(ctx context.Context, userID, text string, domain model.Domain) (*model.QuestionRecord, error) {
	q := &model.QuestionRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Domain:    domain,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO questions (id, user_id, question_text, domain, created_at) VALUES ($1, $2, $3, $4, $5)`,
		q.ID, q.UserID, q.Text, string(q.Domain), q.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create question")
	}
	return q, nil
}

// GetQuestion fetches a question by ID. Returns nil when not found.
func (s *PostgresStore) GetQuestion(ctx context.Context, id string) (*model.QuestionRecord, error) {
	var q model.QuestionRecord
	var domain string
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, question_text, domain, created_at FROM questions WHERE id = $1`,
		id,
	).Scan(&q.ID, &q.UserID, &q.Text, &domain, &q.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get question")
	}
	q.Domain = model.Domain(domain)
	return &q, nil
}

// CreatePoll stores an emitted poll awaiting re-analysis at dueAt.
func (s *PostgresStore) CreatePoll(ctx context.Context, questionID string, poll model.Poll, dueAt time.Time) (*model.PollRecord, error) {
	data, err := json.Marshal(poll)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal poll")
	}

	p := &model.PollRecord{
		ID:         uuid.NewString(),
		QuestionID: questionID,
		Poll:       poll,
		DueAt:      dueAt,
		CreatedAt:  time.Now().UTC(),
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO polls (id, question_id, poll_data, analyzed, due_at, created_at) VALUES ($1, $2, $3, false, $4, $5)`,
		p.ID, p.QuestionID, data, p.DueAt, p.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create poll")
	}
	return p, nil
}

// ListDuePolls returns unanalyzed polls whose due time has passed,
// oldest first.
func (s *PostgresStore) ListDuePolls(ctx context.Context, now time.Time, limit int) ([]model.PollRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, question_id, poll_data, analyzed, due_at, created_at FROM polls WHERE NOT analyzed AND due_at <= $1 ORDER BY due_at ASC LIMIT $2`,
		now, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list due polls")
	}
	defer rows.Close()

	var polls []model.PollRecord
	for rows.Next() {
		var p model.PollRecord
		var data []byte
		if err := rows.Scan(&p.ID, &p.QuestionID, &data, &p.Analyzed, &p.DueAt, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan poll")
		}
		if err := json.Unmarshal(data, &p.Poll); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal poll data")
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate polls")
	}
	return polls, nil
}

// MarkPollAnalyzed flags a poll as re-analyzed.
func (s *PostgresStore) MarkPollAnalyzed(ctx context.Context, pollID string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE polls SET analyzed = true WHERE id = $1`, pollID)
	if err != nil {
		return eris.Wrap(err, "postgres: mark poll analyzed")
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: poll %s not found", pollID)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}
