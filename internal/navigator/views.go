package navigator

import "time"

// MarkStatus — состояние вопроса в панели перехода.
type MarkStatus string

const (
	MarkCurrent    MarkStatus = "current"
	MarkAnswered   MarkStatus = "answered"
	MarkUnanswered MarkStatus = "unanswered"
)

// Route — куда перейти после выхода из квиза.
type Route string

const (
	RouteSetup     Route = "setup"
	RouteDashboard Route = "dashboard"
)

// OptionView — вариант ответа на экране вопроса.
type OptionView struct {
	Letter   string
	Text     string
	Selected bool
	// Correct заполняется только после отправки квиза.
	Correct bool
}

// JumpMark — кнопка перехода к вопросу.
type JumpMark struct {
	Number int
	Status MarkStatus
}

// QuestionView — всё, что нужно для отрисовки текущего вопроса.
type QuestionView struct {
	Number    int
	Total     int
	Prompt    string
	Options   []OptionView
	CanPrev   bool
	CanNext   bool
	Marks     []JumpMark
	Answered  int
	Progress  int
	Elapsed   time.Duration
	Submitted bool
}

// ReviewItem — строка разбора результатов.
type ReviewItem struct {
	Number        int
	Prompt        string
	Correct       bool
	Answered      bool
	Chosen        string
	CorrectAnswer string
}

// ResultView — экран результатов.
type ResultView struct {
	Correct    int
	Total      int
	Percentage int
	Passing    bool
	Elapsed    time.Duration
	Items      []ReviewItem
	Saved      bool
	Notice     string
}
