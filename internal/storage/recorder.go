package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/letsssgooo/studyquiz/internal/domain/models"
	"github.com/letsssgooo/studyquiz/internal/quiz"
)

// Recorder реализует quiz.Persister поверх Storage.
// Владелец попытки задаётся при создании, менеджер квиза о нём не знает.
type Recorder struct {
	storage Storage
	userID  string
}

// NewRecorder создаёт Recorder, сохраняющий попытки пользователя userID.
func NewRecorder(storage Storage, userID string) *Recorder {
	return &Recorder{
		storage: storage,
		userID:  userID,
	}
}

// SaveAttempt сериализует попытку и сохраняет её.
func (r *Recorder) SaveAttempt(ctx context.Context, attempt quiz.Attempt) error {
	model, err := EncodeAttempt(attempt)
	if err != nil {
		return err
	}

	model.ID = uuid.NewString()
	model.UserID = r.userID

	if err = r.storage.SaveAttempt(ctx, model); err != nil {
		return fmt.Errorf("failed to save attempt %s: %w", model.ID, err)
	}

	return nil
}

// EncodeAttempt переводит попытку в модель хранилища без ID и владельца.
// Ответы кодируются JSON-объектом с id вопроса в виде строкового ключа.
func EncodeAttempt(attempt quiz.Attempt) (*models.AttemptModel, error) {
	questions := attempt.Questions
	if questions == nil {
		questions = []quiz.Question{}
	}

	questionsData, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode questions: %w", err)
	}

	answers := make(map[string]int, len(attempt.Answers))
	for id, idx := range attempt.Answers {
		answers[strconv.Itoa(id)] = idx
	}

	answersData, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}

	return &models.AttemptModel{
		Topic:          attempt.Topic,
		Difficulty:     string(attempt.Difficulty),
		TotalQuestions: attempt.TotalQuestions,
		CorrectAnswers: attempt.CorrectAnswers,
		Questions:      string(questionsData),
		Answers:        string(answersData),
		CompletedAt:    attempt.CompletedAt,
	}, nil
}

// DecodeAttempt восстанавливает попытку из модели хранилища.
func DecodeAttempt(model *models.AttemptModel) (quiz.Attempt, error) {
	var questions []quiz.Question
	if err := json.Unmarshal([]byte(model.Questions), &questions); err != nil {
		return quiz.Attempt{}, fmt.Errorf("failed to decode questions of attempt %s: %w", model.ID, err)
	}

	var rawAnswers map[string]int
	if err := json.Unmarshal([]byte(model.Answers), &rawAnswers); err != nil {
		return quiz.Attempt{}, fmt.Errorf("failed to decode answers of attempt %s: %w", model.ID, err)
	}

	answers := make(quiz.Answers, len(rawAnswers))
	for key, idx := range rawAnswers {
		id, err := strconv.Atoi(key)
		if err != nil {
			return quiz.Attempt{}, fmt.Errorf("invalid question id %q in attempt %s: %w", key, model.ID, err)
		}
		answers[id] = idx
	}

	return quiz.Attempt{
		Topic:          model.Topic,
		Difficulty:     quiz.Difficulty(model.Difficulty),
		TotalQuestions: model.TotalQuestions,
		CorrectAnswers: model.CorrectAnswers,
		Questions:      questions,
		Answers:        answers,
		CompletedAt:    model.CompletedAt,
	}, nil
}
