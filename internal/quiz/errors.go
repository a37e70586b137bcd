package quiz

import "errors"

// Ошибки жизненного цикла квиза
var (
	ErrInvalidSettings    = errors.New("invalid quiz settings")
	ErrNoQuestions        = errors.New("no questions generated, try a different topic")
	ErrMalformedQuestions = errors.New("malformed questions")
	ErrGeneration         = errors.New("failed to generate quiz")
	ErrSuperseded         = errors.New("generation superseded by a newer request")
	ErrNoActiveQuiz       = errors.New("no active quiz")
	ErrGenerating         = errors.New("quiz is being generated")
	ErrAlreadySubmitted   = errors.New("quiz already submitted")
)
