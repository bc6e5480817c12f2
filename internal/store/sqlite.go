package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/agri-advisor/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS questions (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL DEFAULT '',
	question_text TEXT NOT NULL,
	domain        TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS polls (
	id          TEXT PRIMARY KEY,
	question_id TEXT NOT NULL REFERENCES questions(id),
	poll_data   TEXT NOT NULL,
	analyzed    INTEGER NOT NULL DEFAULT 0,
	due_at      DATETIME NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_polls_due ON polls (due_at);
`

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	return nil
}

// CreateQuestion stores an asked question with its resolved domain.
func (s *SQLiteStore) CreateQuestion(ctx context.Context, userID, text string, domain model.Domain) (*model.QuestionRecord, error) {
	q := &model.QuestionRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Domain:    domain,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO questions (id, user_id, question_text, domain, created_at) VALUES (?, ?, ?, ?, ?)`,
		q.ID, q.UserID, q.Text, string(q.Domain), q.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create question")
	}
	return q, nil
}

// GetQuestion fetches a question by ID. Returns nil when not found.
func (s *SQLiteStore) GetQuestion(ctx context.Context, id string) (*model.QuestionRecord, error) {
	var q model.QuestionRecord
	var domain string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, question_text, domain, created_at FROM questions WHERE id = ?`,
		id,
	).Scan(&q.ID, &q.UserID, &q.Text, &domain, &q.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: get question")
	}
	q.Domain = model.Domain(domain)
	return &q, nil
}

// CreatePoll stores an emitted poll awaiting re-analysis at dueAt.
func (s *SQLiteStore) CreatePoll(ctx context.Context, questionID string, poll model.Poll, dueAt time.Time) (*model.PollRecord, error) {
	data, err := json.Marshal(poll)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal poll")
	}

	p := &model.PollRecord{
		ID:         uuid.NewString(),
		QuestionID: questionID,
		Poll:       poll,
		DueAt:      dueAt,
		CreatedAt:  time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO polls (id, question_id, poll_data, analyzed, due_at, created_at) VALUES (?, ?, ?, 0, ?, ?)`,
		p.ID, p.QuestionID, string(data), p.DueAt, p.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create poll")
	}
	return p, nil
}

// ListDuePolls returns unanalyzed polls whose due time has passed,
// oldest first.
func (s *SQLiteStore) ListDuePolls(ctx context.Context, now time.Time, limit int) ([]model.PollRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_id, poll_data, analyzed, due_at, created_at FROM polls WHERE analyzed = 0 AND due_at <= ? ORDER BY due_at ASC LIMIT ?`,
		now, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list due polls")
	}
	defer rows.Close()

	var polls []model.PollRecord
	for rows.Next() {
		var p model.PollRecord
		var data string
		if err := rows.Scan(&p.ID, &p.QuestionID, &data, &p.Analyzed, &p.DueAt, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan poll")
		}
		if err := json.Unmarshal([]byte(data), &p.Poll); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal poll data")
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate polls")
	}
	return polls, nil
}

// MarkPollAnalyzed flags a poll as re-analyzed.
func (s *SQLiteStore) MarkPollAnalyzed(ctx context.Context, pollID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE polls SET analyzed = 1 WHERE id = ?`, pollID)
	if err != nil {
		return eris.Wrap(err, "sqlite: mark poll analyzed")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return eris.Errorf("sqlite: poll %s not found", pollID)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
