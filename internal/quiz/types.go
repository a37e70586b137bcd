package quiz

import (
	"context"
	"encoding/json"
	"time"
)

// Difficulty — сложность квиза.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllowedQuestionCounts — допустимое количество вопросов в квизе.
var AllowedQuestionCounts = []int{5, 10, 15, 20}

// DocumentsTopic — тема, под которой сохраняются квизы по загруженным заметкам.
const DocumentsTopic = "My Notes"

// Source — источник вопросов: тема или набор документов.
// Реализуется только типами ByTopic и ByDocuments.
type Source interface {
	isSource()
}

// ByTopic — вопросы генерируются по теме.
type ByTopic struct {
	Topic string
}

// ByDocuments — вопросы генерируются по загруженным документам.
type ByDocuments struct {
	Filenames []string
}

func (ByTopic) isSource()     {}
func (ByDocuments) isSource() {}

// Settings содержит параметры квиза. Не меняются после старта сессии.
type Settings struct {
	Source       Source
	Difficulty   Difficulty
	NumQuestions int
	Syllabus     string
	Grade        string
}

// Topic возвращает тему квиза для сохранения попытки.
func (s Settings) Topic() string {
	switch src := s.Source.(type) {
	case ByTopic:
		return src.Topic
	case ByDocuments:
		return DocumentsTopic
	}

	return ""
}

// Filenames возвращает имена документов или nil для квиза по теме.
func (s Settings) Filenames() []string {
	if src, ok := s.Source.(ByDocuments); ok {
		return src.Filenames
	}

	return nil
}

// settingsPayload — тело запроса к сервису генерации.
type settingsPayload struct {
	Topic        string   `json:"topic"`
	Difficulty   string   `json:"difficulty"`
	NumQuestions int      `json:"numQuestions"`
	Syllabus     string   `json:"syllabus,omitempty"`
	Grade        string   `json:"grade,omitempty"`
	Filenames    []string `json:"filenames,omitempty"`
}

// MarshalJSON кодирует настройки в формате, который ожидает сервис генерации.
func (s Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(settingsPayload{
		Topic:        s.Topic(),
		Difficulty:   string(s.Difficulty),
		NumQuestions: s.NumQuestions,
		Syllabus:     s.Syllabus,
		Grade:        s.Grade,
		Filenames:    s.Filenames(),
	})
}

// Question представляет вопрос квиза.
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

// Answers — выбранные ответы: id вопроса -> индекс варианта.
// Отсутствие ключа означает, что на вопрос не ответили.
type Answers map[int]int

// Phase — фаза сессии.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseActive    Phase = "active"
	PhaseSubmitted Phase = "submitted"
)

// State — состояние сессии квиза.
type State struct {
	Settings     *Settings
	Questions    []Question
	Answers      Answers
	CurrentIndex int
	IsSubmitted  bool
	IsGenerating bool
}

// Phase вычисляет фазу по состоянию.
func (s State) Phase() Phase {
	switch {
	case s.IsSubmitted:
		return PhaseSubmitted
	case len(s.Questions) > 0:
		return PhaseActive
	default:
		return PhaseIdle
	}
}

// clone возвращает глубокую копию состояния.
func (s State) clone() State {
	cp := State{
		CurrentIndex: s.CurrentIndex,
		IsSubmitted:  s.IsSubmitted,
		IsGenerating: s.IsGenerating,
		Questions:    cloneQuestions(s.Questions),
		Answers:      make(Answers, len(s.Answers)),
	}

	if s.Settings != nil {
		settings := *s.Settings
		if src, ok := settings.Source.(ByDocuments); ok {
			settings.Source = ByDocuments{Filenames: append([]string(nil), src.Filenames...)}
		}
		cp.Settings = &settings
	}

	for id, idx := range s.Answers {
		cp.Answers[id] = idx
	}

	return cp
}

func cloneQuestions(questions []Question) []Question {
	cp := make([]Question, len(questions))
	for i, q := range questions {
		cp[i] = q
		cp[i].Options = append([]string(nil), q.Options...)
	}

	return cp
}

// Attempt — завершённая попытка, которую нужно сохранить.
type Attempt struct {
	Topic          string
	Difficulty     Difficulty
	TotalQuestions int
	CorrectAnswers int
	Questions      []Question
	Answers        Answers
	CompletedAt    time.Time
}

// Result — итог отправки квиза.
type Result struct {
	Score      int
	Total      int
	Saved      bool
	PersistErr error
}

// Generator определяет сервис генерации вопросов.
type Generator interface {
	// Generate возвращает вопросы по настройкам. Один вызов — один запрос.
	Generate(ctx context.Context, settings Settings) ([]Question, error)
}

// Persister определяет хранилище завершённых попыток.
type Persister interface {
	// SaveAttempt сохраняет попытку. Владельца попытки определяет реализация.
	SaveAttempt(ctx context.Context, attempt Attempt) error
}

// Observer получает уведомления о событиях жизненного цикла квиза.
type Observer interface {
	GenerationFinished(settings Settings, questions int, err error)
	AttemptSubmitted(attempt Attempt, persistErr error)
}
