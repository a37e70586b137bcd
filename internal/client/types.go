package client

import (
	"errors"
	"time"

	"github.com/letsssgooo/studyquiz/internal/quiz"
)

// quizPath — эндпоинт генерации квиза на бэкенде.
const quizPath = "/api/quiz"

// ErrUnsupportedSource возвращается генератором, который не умеет работать
// с данным источником вопросов.
var ErrUnsupportedSource = errors.New("unsupported question source")

// generateResponse — ответ бэкенда на запрос генерации.
type generateResponse struct {
	Questions []quiz.Question `json:"questions"`
}

// errorResponse — тело ответа бэкенда с ошибкой.
type errorResponse struct {
	Error string `json:"error"`
}

// Таймауты
const (
	timeoutGenerate = 60 * time.Second
)

var (
	_ quiz.Generator = (*HTTPClient)(nil)
	_ quiz.Generator = (*OpenAIGenerator)(nil)
)
