package quiz

import "math"

// IsCorrect сообщает, совпадает ли ответ на вопрос с правильным.
// Вопрос без ответа всегда считается неверным.
func IsCorrect(q Question, answers Answers) bool {
	chosen, ok := answers[q.ID]

	return ok && chosen == q.Correct
}

// Score считает количество правильных ответов.
func Score(questions []Question, answers Answers) int {
	score := 0
	for _, q := range questions {
		if IsCorrect(q, answers) {
			score++
		}
	}

	return score
}

// PassingPercentage — минимальный процент правильных ответов для зачёта.
const PassingPercentage = 70

// Percentage возвращает round(100 * correct / total).
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}

	return int(math.Round(100 * float64(correct) / float64(total)))
}

// IsPassing сообщает, считается ли результат зачётом.
func IsPassing(percentage int) bool {
	return percentage >= PassingPercentage
}
