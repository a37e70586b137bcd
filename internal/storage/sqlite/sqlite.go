package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/letsssgooo/studyquiz/internal/domain/models"
	"github.com/letsssgooo/studyquiz/internal/storage"
	_ "github.com/mattn/go-sqlite3"
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
		completed_at    DATETIME NOT NULL
	)
`

// Storage хранит попытки в файле SQLite.
type Storage struct {
	db *sql.DB
}

var _ storage.Storage = (*Storage)(nil)

// Open открывает базу по пути path и создаёт таблицу попыток.
func Open(ctx context.Context, path string) (*Storage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create quiz_attempts: %w", err)
	}

	return &Storage{db: db}, nil
}

// SaveAttempt сохраняет попытку.
func (s *Storage) SaveAttempt(ctx context.Context, attempt *models.AttemptModel) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts
			(id, user_id, topic, difficulty, total_questions, correct_answers, questions, answers, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.ID,
		attempt.UserID,
		attempt.Topic,
		attempt.Difficulty,
		attempt.TotalQuestions,
		attempt.CorrectAnswers,
		attempt.Questions,
		attempt.Answers,
		attempt.CompletedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}

	return nil
}

// GetAttempt возвращает попытку по ID.
func (s *Storage) GetAttempt(ctx context.Context, id string) (*models.AttemptModel, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, topic, difficulty, total_questions, correct_answers, questions, answers, completed_at
		FROM quiz_attempts WHERE id = ?`,
		id,
	)

	attempt, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	return attempt, nil
}

// ListAttempts возвращает попытки пользователя, новые первыми.
func (s *Storage) ListAttempts(ctx context.Context, userID string) ([]*models.AttemptModel, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, topic, difficulty, total_questions, correct_answers, questions, answers, completed_at
		FROM quiz_attempts WHERE user_id = ? ORDER BY completed_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]*models.AttemptModel, 0)
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

// Close закрывает соединение с базой.
func (s *Storage) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row scanner) (*models.AttemptModel, error) {
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
