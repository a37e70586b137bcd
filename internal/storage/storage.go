package storage

import (
	"context"
	"errors"

	"github.com/letsssgooo/studyquiz/internal/domain/models"
)

// ErrAttemptNotFound возвращается, если попытки с таким ID нет.
var ErrAttemptNotFound = errors.New("attempt not found")

// Storage определяет интерфейс для хранения попыток прохождения квизов.
type Storage interface {
	// SaveAttempt сохраняет попытку.
	SaveAttempt(ctx context.Context, attempt *models.AttemptModel) error

	// GetAttempt возвращает попытку по ID.
	GetAttempt(ctx context.Context, id string) (*models.AttemptModel, error)

	// ListAttempts возвращает попытки пользователя, новые первыми.
	ListAttempts(ctx context.Context, userID string) ([]*models.AttemptModel, error)

	// Close освобождает ресурсы хранилища.
	Close() error
}
