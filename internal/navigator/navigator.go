package navigator

import (
	"context"
	"errors"
	"fmt"

	"github.com/letsssgooo/studyquiz/internal/quiz"
)

// Ошибки навигатора
var (
	ErrOptionOutOfRange = errors.New("option is out of range")
	ErrSubmitDeclined   = errors.New("submit declined")
)

// noticeNotSaved показывается, если попытку не удалось сохранить.
const noticeNotSaved = "Your result could not be saved and will not appear in history."

// Session определяет операции сессии квиза, которые нужны навигатору.
// Навигатор только читает состояние и вызывает эти операции.
type Session interface {
	Snapshot() quiz.State
	Phase() quiz.Phase
	CurrentQuestion() (quiz.Question, bool)
	UnansweredCount() int
	SetAnswer(questionID int, answerIndex int)
	NextQuestion()
	PrevQuestion()
	GoToQuestion(index int)
	SubmitQuiz(ctx context.Context) (quiz.Result, error)
	ResetQuiz()
	Score() int
}

var _ Session = (*quiz.Manager)(nil)

// ConfirmFunc спрашивает пользователя, отправлять ли квиз с unanswered
// вопросами без ответа.
type ConfirmFunc func(unanswered int) bool

// Navigator переводит состояние сессии в пошаговое прохождение и разбор результатов.
type Navigator struct {
	session Session
	watch   *Stopwatch
	result  *quiz.Result
}

// New создаёт навигатор поверх сессии. watch может быть nil.
func New(session Session, watch *Stopwatch) *Navigator {
	if watch == nil {
		watch = NewStopwatch()
	}

	return &Navigator{
		session: session,
		watch:   watch,
	}
}

// Stopwatch возвращает секундомер навигатора.
func (n *Navigator) Stopwatch() *Stopwatch {
	return n.watch
}

// QuestionView строит экран текущего вопроса. false, если вопросов нет.
func (n *Navigator) QuestionView() (QuestionView, bool) {
	state := n.session.Snapshot()
	if len(state.Questions) == 0 {
		return QuestionView{}, false
	}

	current := state.Questions[state.CurrentIndex]
	chosen, answered := state.Answers[current.ID]

	view := QuestionView{
		Number:    state.CurrentIndex + 1,
		Total:     len(state.Questions),
		Prompt:    current.Question,
		Options:   make([]OptionView, 0, len(current.Options)),
		CanPrev:   state.CurrentIndex > 0,
		CanNext:   state.CurrentIndex < len(state.Questions)-1,
		Marks:     make([]JumpMark, 0, len(state.Questions)),
		Answered:  len(state.Answers),
		Progress:  quiz.Percentage(len(state.Answers), len(state.Questions)),
		Elapsed:   n.watch.Elapsed(),
		Submitted: state.IsSubmitted,
	}

	for i, text := range current.Options {
		view.Options = append(view.Options, OptionView{
			Letter:   IndexToLetter(i),
			Text:     text,
			Selected: answered && chosen == i,
			Correct:  state.IsSubmitted && current.Correct == i,
		})
	}

	for i, q := range state.Questions {
		status := MarkUnanswered
		if _, ok := state.Answers[q.ID]; ok {
			status = MarkAnswered
		}
		if i == state.CurrentIndex {
			status = MarkCurrent
		}

		view.Marks = append(view.Marks, JumpMark{Number: i + 1, Status: status})
	}

	return view, true
}

// Select выбирает вариант ответа на текущий вопрос.
// Допускаются только индексы показанных вариантов.
func (n *Navigator) Select(optionIndex int) error {
	if n.session.Phase() == quiz.PhaseSubmitted {
		return quiz.ErrAlreadySubmitted
	}

	current, ok := n.session.CurrentQuestion()
	if !ok {
		return quiz.ErrNoActiveQuiz
	}

	if optionIndex < 0 || optionIndex >= len(current.Options) {
		return fmt.Errorf("%w, question has %d options", ErrOptionOutOfRange, len(current.Options))
	}

	n.session.SetAnswer(current.ID, optionIndex)

	return nil
}

// SelectLetter выбирает вариант ответа по букве.
func (n *Navigator) SelectLetter(letter string) error {
	idx, ok := LetterToIndex(letter)
	if !ok {
		return fmt.Errorf("%w, unknown option %q", ErrOptionOutOfRange, letter)
	}

	return n.Select(idx)
}

// Next переходит к следующему вопросу.
func (n *Navigator) Next() {
	n.session.NextQuestion()
}

// Prev переходит к предыдущему вопросу.
func (n *Navigator) Prev() {
	n.session.PrevQuestion()
}

// Jump переходит к вопросу с индексом index (0-based).
func (n *Navigator) Jump(index int) {
	n.session.GoToQuestion(index)
}

// Unanswered возвращает количество вопросов без ответа.
func (n *Navigator) Unanswered() int {
	return n.session.UnansweredCount()
}

// Submit отправляет квиз. Если есть вопросы без ответа, сначала спрашивает
// подтверждение; отказ возвращает ErrSubmitDeclined и ничего не меняет.
func (n *Navigator) Submit(ctx context.Context, confirm ConfirmFunc) (ResultView, error) {
	state := n.session.Snapshot()

	switch {
	case state.IsGenerating:
		return ResultView{}, quiz.ErrGenerating
	case len(state.Questions) == 0:
		return ResultView{}, quiz.ErrNoActiveQuiz
	case state.IsSubmitted:
		return ResultView{}, quiz.ErrAlreadySubmitted
	}

	unanswered := n.Unanswered()
	if unanswered > 0 && (confirm == nil || !confirm(unanswered)) {
		return ResultView{}, ErrSubmitDeclined
	}

	result, err := n.session.SubmitQuiz(ctx)
	if err != nil {
		return ResultView{}, err
	}
	n.watch.Freeze()
	n.result = &result

	view, _ := n.ResultView()

	return view, nil
}

// ResultView строит экран результатов. false, если квиз ещё не отправлен.
func (n *Navigator) ResultView() (ResultView, bool) {
	state := n.session.Snapshot()
	if !state.IsSubmitted || len(state.Questions) == 0 {
		return ResultView{}, false
	}

	correct := n.session.Score()
	total := len(state.Questions)
	percentage := quiz.Percentage(correct, total)

	view := ResultView{
		Correct:    correct,
		Total:      total,
		Percentage: percentage,
		Passing:    quiz.IsPassing(percentage),
		Elapsed:    n.watch.Elapsed(),
	}

	if n.result != nil {
		view.Saved = n.result.Saved
		if n.result.PersistErr != nil {
			view.Notice = noticeNotSaved
		}
	}

	view.Items = ReviewItems(state.Questions, state.Answers)

	return view, true
}

// ReviewItems строит разбор вопросов по выбранным ответам.
func ReviewItems(questions []quiz.Question, answers quiz.Answers) []ReviewItem {
	items := make([]ReviewItem, 0, len(questions))
	for i, q := range questions {
		chosen, answered := answers[q.ID]

		item := ReviewItem{
			Number:   i + 1,
			Prompt:   q.Question,
			Correct:  quiz.IsCorrect(q, answers),
			Answered: answered,
		}
		if q.Correct >= 0 && q.Correct < len(q.Options) {
			item.CorrectAnswer = q.Options[q.Correct]
		}
		if answered && chosen >= 0 && chosen < len(q.Options) {
			item.Chosen = q.Options[chosen]
		}

		items = append(items, item)
	}

	return items
}

// Retry сбрасывает сессию и возвращает к настройке нового квиза.
func (n *Navigator) Retry() Route {
	n.session.ResetQuiz()
	n.watch.Reset()
	n.result = nil

	return RouteSetup
}

// Done покидает квиз. Последнее состояние остаётся в памяти до нового квиза,
// секундомер останавливается с сохранением значения.
func (n *Navigator) Done() Route {
	n.watch.Stop()

	return RouteDashboard
}
