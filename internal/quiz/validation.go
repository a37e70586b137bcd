package quiz

import (
	"fmt"
	"slices"
	"strings"
)

// Validate проверяет настройки квиза на корректность.
func (s Settings) Validate() error {
	switch src := s.Source.(type) {
	case ByTopic:
		if strings.TrimSpace(src.Topic) == "" {
			return fmt.Errorf("%w, missing topic", ErrInvalidSettings)
		}
	case ByDocuments:
		if len(src.Filenames) == 0 {
			return fmt.Errorf("%w, need at least one document", ErrInvalidSettings)
		}

		for i, name := range src.Filenames {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("%w, empty filename at position %d", ErrInvalidSettings, i)
			}
		}
	default:
		return fmt.Errorf("%w, missing source (topic or documents)", ErrInvalidSettings)
	}

	switch s.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("%w, unknown difficulty %q", ErrInvalidSettings, s.Difficulty)
	}

	if !slices.Contains(AllowedQuestionCounts, s.NumQuestions) {
		return fmt.Errorf(
			"%w, number of questions must be one of %v, got %d",
			ErrInvalidSettings,
			AllowedQuestionCounts,
			s.NumQuestions,
		)
	}

	return nil
}

// ParseDifficulty приводит строку к Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}

	return "", fmt.Errorf("%w, unknown difficulty %q", ErrInvalidSettings, s)
}

// validateQuestions проверяет структуру сгенерированных вопросов.
func validateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	seen := make(map[int]struct{}, len(questions))
	for i, question := range questions {
		if _, ok := seen[question.ID]; ok {
			return fmt.Errorf("%w, duplicate id %d in %d question", ErrMalformedQuestions, question.ID, i)
		}
		seen[question.ID] = struct{}{}

		if len(question.Options) < 2 {
			return fmt.Errorf("%w, amount of options must be at least two in %d question", ErrMalformedQuestions, i)
		}

		if question.Correct < 0 || question.Correct >= len(question.Options) {
			return fmt.Errorf("%w, index of correct answer in %d question is out of range", ErrMalformedQuestions, i)
		}
	}

	return nil
}
