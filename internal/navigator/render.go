package navigator

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/letsssgooo/studyquiz/internal/quiz"
)

var (
	colorCurrent  = color.New(color.FgHiBlue, color.Bold)
	colorAnswered = color.New(color.FgGreen)
	colorMuted    = color.New(color.FgHiBlack)
	colorPass     = color.New(color.FgGreen, color.Bold)
	colorFail     = color.New(color.FgYellow, color.Bold)
	colorWrong    = color.New(color.FgRed)
)

// RenderQuestion выводит экран вопроса.
func RenderQuestion(w io.Writer, view QuestionView) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Question %d of %d    %s    answered %d/%d (%d%%)\n\n",
		view.Number, view.Total, FormatElapsed(view.Elapsed), view.Answered, view.Total, view.Progress)
	fmt.Fprintf(&sb, "%s\n\n", view.Prompt)

	for _, option := range view.Options {
		marker := " "
		if option.Selected {
			marker = ">"
		}

		line := fmt.Sprintf("%s %s) %s", marker, option.Letter, option.Text)
		switch {
		case view.Submitted && option.Correct:
			line = colorAnswered.Sprint(line + "  (correct)")
		case view.Submitted && option.Selected:
			line = colorWrong.Sprint(line)
		case option.Selected:
			line = colorCurrent.Sprint(line)
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(renderMarks(view.Marks))
	sb.WriteString("\n")

	var hints []string
	if !view.Submitted {
		hints = append(hints, "[a-z] answer")
	}
	if view.CanPrev {
		hints = append(hints, "[p] previous")
	}
	if view.CanNext {
		hints = append(hints, "[n] next")
	}
	hints = append(hints, "[g N] go to")
	if view.Submitted {
		hints = append(hints, "[v] results", "[r] retry", "[q] done")
	} else {
		hints = append(hints, "[s] submit", "[q] quit")
	}
	sb.WriteString(colorMuted.Sprint(strings.Join(hints, "  ")))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())

	return err
}

func renderMarks(marks []JumpMark) string {
	parts := make([]string, 0, len(marks))
	for _, mark := range marks {
		label := fmt.Sprintf("%d", mark.Number)
		switch mark.Status {
		case MarkCurrent:
			label = colorCurrent.Sprint("[" + label + "]")
		case MarkAnswered:
			label = colorAnswered.Sprint(" " + label + "*")
		default:
			label = colorMuted.Sprint(" " + label + " ")
		}
		parts = append(parts, label)
	}

	return strings.Join(parts, " ")
}

// RenderResult выводит экран результатов с разбором вопросов.
func RenderResult(w io.Writer, view ResultView) error {
	var sb strings.Builder

	if view.Passing {
		sb.WriteString(colorPass.Sprint("Great job!"))
		sb.WriteString("\nYou've demonstrated strong understanding of the material.\n\n")
	} else {
		sb.WriteString(colorFail.Sprint("Keep practicing!"))
		sb.WriteString("\nReview the questions you missed and try again.\n\n")
	}

	fmt.Fprintf(&sb, "%d/%d\n", view.Correct, view.Total)
	fmt.Fprintf(&sb, "%d%% correct - %s\n\n", view.Percentage, FormatElapsed(view.Elapsed))

	if view.Notice != "" {
		sb.WriteString(colorMuted.Sprint(view.Notice))
		sb.WriteString("\n\n")
	}

	writeReview(&sb, view.Items)

	sb.WriteString("\n")
	sb.WriteString(colorMuted.Sprint("[r] try again  [q] dashboard  [n/p/g N] browse questions"))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())

	return err
}

func writeReview(sb *strings.Builder, items []ReviewItem) {
	sb.WriteString("Review\n")
	for _, item := range items {
		if item.Correct {
			sb.WriteString(colorAnswered.Sprintf("  + %d. %s", item.Number, item.Prompt))
			sb.WriteString("\n")
			continue
		}

		sb.WriteString(colorWrong.Sprintf("  - %d. %s", item.Number, item.Prompt))
		sb.WriteString("\n")

		chosen := item.Chosen
		if !item.Answered || chosen == "" {
			chosen = "Not answered"
		}
		fmt.Fprintf(sb, "      Your answer: %s\n", chosen)
		fmt.Fprintf(sb, "      Correct: %s\n", item.CorrectAnswer)
	}
}

// RenderAttempt выводит разбор сохранённой попытки из истории.
func RenderAttempt(w io.Writer, attempt quiz.Attempt) error {
	var sb strings.Builder

	percentage := quiz.Percentage(attempt.CorrectAnswers, attempt.TotalQuestions)

	fmt.Fprintf(&sb, "%s (%s)\n", attempt.Topic, attempt.Difficulty)
	sb.WriteString(colorMuted.Sprint(attempt.CompletedAt.Local().Format(time.DateTime)))
	sb.WriteString("\n\n")

	score := fmt.Sprintf("%d/%d  %d%% correct", attempt.CorrectAnswers, attempt.TotalQuestions, percentage)
	if quiz.IsPassing(percentage) {
		sb.WriteString(colorPass.Sprint(score))
	} else {
		sb.WriteString(colorFail.Sprint(score))
	}
	sb.WriteString("\n\n")

	writeReview(&sb, ReviewItems(attempt.Questions, attempt.Answers))

	_, err := io.WriteString(w, sb.String())

	return err
}
