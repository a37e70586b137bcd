package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/letsssgooo/studyquiz/internal/domain/models"
)

// MemoryStorage реализует Storage в памяти.
type MemoryStorage struct {
	attempts map[string]models.AttemptModel
	mu       sync.RWMutex
}

// NewMemoryStorage создаёт новый MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		attempts: make(map[string]models.AttemptModel),
	}
}

// SaveAttempt сохраняет попытку.
func (s *MemoryStorage) SaveAttempt(ctx context.Context, attempt *models.AttemptModel) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts[attempt.ID] = *attempt

	return nil
}

// GetAttempt возвращает попытку по ID.
func (s *MemoryStorage) GetAttempt(ctx context.Context, id string) (*models.AttemptModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	attempt, ok := s.attempts[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}

	return &attempt, nil
}

// ListAttempts возвращает попытки пользователя, новые первыми.
func (s *MemoryStorage) ListAttempts(ctx context.Context, userID string) ([]*models.AttemptModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.AttemptModel, 0)
	for _, attempt := range s.attempts {
		if attempt.UserID != userID {
			continue
		}

		attempt := attempt
		result = append(result, &attempt)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CompletedAt.After(result[j].CompletedAt)
	})

	return result, nil
}

// Close ничего не делает.
func (s *MemoryStorage) Close() error {
	return nil
}
