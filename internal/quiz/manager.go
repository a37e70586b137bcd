package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Manager владеет состоянием единственной сессии квиза и является
// единственным, кто его изменяет. Все внешние вызовы идут через него.
type Manager struct {
	generator Generator
	persister Persister
	observer  Observer
	log       *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	state State
	// token растёт с каждым StartQuiz и ResetQuiz; ответ генерации
	// принимается, только если токен не изменился.
	token uint64
}

// Option настраивает Manager.
type Option func(*Manager)

// WithLogger задаёт логгер.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithObserver подписывает наблюдателя на события квиза.
func WithObserver(observer Observer) Option {
	return func(m *Manager) {
		m.observer = observer
	}
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager создаёт Manager в пустом начальном состоянии.
// persister может быть nil, тогда попытки не сохраняются.
func NewManager(generator Generator, persister Persister, opts ...Option) *Manager {
	m := &Manager{
		generator: generator,
		persister: persister,
		log:       slog.Default(),
		now:       time.Now,
		state:     emptyState(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func emptyState() State {
	return State{Answers: make(Answers)}
}

// StartQuiz отбрасывает предыдущую сессию и запрашивает новые вопросы.
// Ошибка генерации возвращается вызывающему, IsGenerating сбрасывается в любом случае.
func (m *Manager) StartQuiz(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	recorded := settings
	if src, ok := settings.Source.(ByDocuments); ok {
		recorded.Source = ByDocuments{Filenames: append([]string(nil), src.Filenames...)}
	}

	m.mu.Lock()
	m.token++
	token := m.token
	m.state = emptyState()
	m.state.Settings = &recorded
	m.state.IsGenerating = true
	m.mu.Unlock()

	m.log.Info("generating quiz",
		slog.String("topic", recorded.Topic()),
		slog.String("difficulty", string(recorded.Difficulty)),
		slog.Int("num_questions", recorded.NumQuestions),
	)

	questions, genErr := m.generator.Generate(ctx, recorded)

	n, err := m.finishGeneration(token, questions, genErr)
	if errors.Is(err, ErrSuperseded) {
		m.log.Warn("discarding stale generation response", slog.Uint64("token", token))
		return err
	}

	if m.observer != nil {
		m.observer.GenerationFinished(recorded, n, err)
	}

	if err != nil {
		m.log.Error("quiz generation failed", slog.String("error", err.Error()))
		return err
	}

	m.log.Info("quiz generated", slog.Int("questions", n))

	return nil
}

// finishGeneration применяет ответ генерации к состоянию, если он ещё актуален.
func (m *Manager) finishGeneration(token uint64, questions []Question, genErr error) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token != m.token {
		return 0, ErrSuperseded
	}

	m.state.IsGenerating = false

	if genErr != nil {
		if errors.Is(genErr, ErrGeneration) || errors.Is(genErr, ErrNoQuestions) {
			return 0, genErr
		}

		return 0, fmt.Errorf("%w, %w", ErrGeneration, genErr)
	}

	if err := validateQuestions(questions); err != nil {
		return 0, err
	}

	m.state.Questions = cloneQuestions(questions)
	m.state.Answers = make(Answers)
	m.state.CurrentIndex = 0
	m.state.IsSubmitted = false

	return len(questions), nil
}

// SetAnswer запоминает ответ на вопрос. После отправки квиза ничего не делает.
func (m *Manager) SetAnswer(questionID int, answerIndex int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.IsSubmitted || m.state.IsGenerating {
		return
	}

	if !m.hasQuestion(questionID) {
		return
	}

	m.state.Answers[questionID] = answerIndex
}

func (m *Manager) hasQuestion(id int) bool {
	for _, q := range m.state.Questions {
		if q.ID == id {
			return true
		}
	}

	return false
}

// NextQuestion переходит к следующему вопросу, на последнем ничего не делает.
func (m *Manager) NextQuestion() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.CurrentIndex < len(m.state.Questions)-1 {
		m.state.CurrentIndex++
	}
}

// PrevQuestion переходит к предыдущему вопросу, на первом ничего не делает.
func (m *Manager) PrevQuestion() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.CurrentIndex > 0 {
		m.state.CurrentIndex--
	}
}

// GoToQuestion переходит к вопросу index. Индекс вне диапазона игнорируется.
func (m *Manager) GoToQuestion(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index >= 0 && index < len(m.state.Questions) {
		m.state.CurrentIndex = index
	}
}

// SubmitQuiz фиксирует результат и сохраняет попытку.
// Ошибка сохранения не отменяет отправку и возвращается только в Result.
func (m *Manager) SubmitQuiz(ctx context.Context) (Result, error) {
	m.mu.Lock()

	switch {
	case m.state.IsGenerating:
		m.mu.Unlock()
		return Result{}, ErrGenerating
	case len(m.state.Questions) == 0:
		m.mu.Unlock()
		return Result{}, ErrNoActiveQuiz
	case m.state.IsSubmitted:
		m.mu.Unlock()
		return Result{}, ErrAlreadySubmitted
	}

	m.state.IsSubmitted = true

	score := Score(m.state.Questions, m.state.Answers)
	snapshot := m.state.clone()

	m.mu.Unlock()

	attempt := Attempt{
		Topic:          snapshot.Settings.Topic(),
		Difficulty:     snapshot.Settings.Difficulty,
		TotalQuestions: len(snapshot.Questions),
		CorrectAnswers: score,
		Questions:      snapshot.Questions,
		Answers:        snapshot.Answers,
		CompletedAt:    m.now(),
	}

	result := Result{
		Score: score,
		Total: attempt.TotalQuestions,
	}

	m.log.Info("quiz submitted",
		slog.String("topic", attempt.Topic),
		slog.Int("score", score),
		slog.Int("total", attempt.TotalQuestions),
	)

	if m.persister == nil {
		m.log.Debug("no persister configured, attempt is not saved")
	} else if err := m.persister.SaveAttempt(ctx, attempt); err != nil {
		m.log.Error("failed to save quiz attempt", slog.String("error", err.Error()))
		result.PersistErr = err
	} else {
		result.Saved = true
	}

	if m.observer != nil {
		m.observer.AttemptSubmitted(attempt, result.PersistErr)
	}

	return result, nil
}

// ResetQuiz возвращает сессию в пустое начальное состояние.
// Ответ незавершённой генерации после этого будет отброшен.
func (m *Manager) ResetQuiz() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token++
	m.state = emptyState()
}

// Score пересчитывает количество правильных ответов по текущему состоянию.
func (m *Manager) Score() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Score(m.state.Questions, m.state.Answers)
}

// Snapshot возвращает копию состояния сессии.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.clone()
}

// Phase возвращает текущую фазу сессии.
func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.Phase()
}

// CurrentQuestion возвращает вопрос под курсором.
func (m *Manager) CurrentQuestion() (Question, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.state.Questions) == 0 {
		return Question{}, false
	}

	q := m.state.Questions[m.state.CurrentIndex]
	q.Options = append([]string(nil), q.Options...)

	return q, true
}

// UnansweredCount возвращает количество вопросов без ответа.
func (m *Manager) UnansweredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.state.Questions) - len(m.state.Answers)
}
