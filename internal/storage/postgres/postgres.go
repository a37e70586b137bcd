package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/letsssgooo/studyquiz/internal/domain/models"
	"github.com/letsssgooo/studyquiz/internal/storage"
)

const schema = `
	CREATE TABLE IF NOT EXISTS quiz_attempts (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		topic           TEXT NOT NULL,
		difficulty      TEXT NOT NULL,
		total_questions INTEGER NOT NULL,
		correct_answers INTEGER NOT NULL,
		questions       TEXT NOT NULL,
		answers         TEXT NOT NULL,
		completed_at    TIMESTAMPTZ NOT NULL
	)
`

type Storage struct {
	pool *pgxpool.Pool
}

var _ storage.Storage = (*Storage)(nil)

func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Storage{pool: pool}, nil
}

// Migrate создаёт таблицу попыток, если её нет.
func (s *Storage) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create quiz_attempts: %w", err)
	}

	return nil
}

func (s *Storage) SaveAttempt(ctx context.Context, attempt *models.AttemptModel) error {
	query := `
	INSERT INTO quiz_attempts
		(id, user_id, topic, difficulty, total_questions, correct_answers, questions, answers, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.Topic,
		attempt.Difficulty,
		attempt.TotalQuestions,
		attempt.CorrectAnswers,
		attempt.Questions,
		attempt.Answers,
		attempt.CompletedAt,
	)

	return err
}

func (s *Storage) GetAttempt(ctx context.Context, id string) (*models.AttemptModel, error) {
	query := `
	SELECT id, user_id, topic, difficulty, total_questions, correct_answers, questions, answers, completed_at
	FROM quiz_attempts WHERE id = $1
	`

	attempt, err := scanAttempt(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}

	return attempt, nil
}

func (s *Storage) ListAttempts(ctx context.Context, userID string) ([]*models.AttemptModel, error) {
	query := `
	SELECT id, user_id, topic, difficulty, total_questions, correct_answers, questions, answers, completed_at
	FROM quiz_attempts WHERE user_id = $1 ORDER BY completed_at DESC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := make([]*models.AttemptModel, 0)
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

func scanAttempt(row pgx.Row) (*models.AttemptModel, error) {
	var attempt models.AttemptModel
	err := row.Scan(
		&attempt.ID,
		&attempt.UserID,
		&attempt.Topic,
		&attempt.Difficulty,
		&attempt.TotalQuestions,
		&attempt.CorrectAnswers,
		&attempt.Questions,
		&attempt.Answers,
		&attempt.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	return &attempt, nil
}
