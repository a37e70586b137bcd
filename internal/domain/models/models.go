package models

import (
	"time"
)

// Файл для работы с моделями для базы данных, которые доступны извне.
// Recorder заполняет модель данными завершённой попытки и передаёт её в хранилище.

// AttemptModel определяет модель для таблицы quiz_attempts.
// Questions и Answers хранятся как JSON-текст, чтобы история могла
// восстановить попытку без знания о схеме вопросов.
type AttemptModel struct {
	ID             string
	UserID         string
	Topic          string
	Difficulty     string
	TotalQuestions int
	CorrectAnswers int
	Questions      string
	Answers        string
	CompletedAt    time.Time
}
