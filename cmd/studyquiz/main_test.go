package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/studyquiz/internal/quiz"
	"github.com/letsssgooo/studyquiz/internal/storage"
)

type countingGenerator struct {
	questions []quiz.Question
	calls     int
}

func (g *countingGenerator) Generate(context.Context, quiz.Settings) ([]quiz.Question, error) {
	g.calls++
	return g.questions, nil
}

func oneQuestion() []quiz.Question {
	return []quiz.Question{{ID: 1, Question: "2+2?", Options: []string{"4", "5"}, Correct: 0}}
}

func topicSettings() quiz.Settings {
	return quiz.Settings{
		Source:       quiz.ByTopic{Topic: "Algebra"},
		Difficulty:   quiz.DifficultyEasy,
		NumQuestions: 5,
	}
}

func TestBuildSettings(t *testing.T) {
	tests := []struct {
		name      string
		topic     string
		files     []string
		diff      string
		count     int
		wantErr   bool
		wantTopic string
	}{
		{name: "topic", topic: " Algebra ", diff: "easy", count: 5, wantTopic: "Algebra"},
		{name: "files", files: []string{"notes.pdf"}, diff: "hard", count: 10, wantTopic: quiz.DocumentsTopic},
		{name: "both sources", topic: "Algebra", files: []string{"notes.pdf"}, diff: "easy", count: 5, wantErr: true},
		{name: "no source", diff: "easy", count: 5, wantErr: true},
		{name: "bad difficulty", topic: "Algebra", diff: "extreme", count: 5, wantErr: true},
		{name: "bad count", topic: "Algebra", diff: "easy", count: 7, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings, err := buildSettings(tt.topic, tt.files, tt.diff, tt.count, "", "")
			if tt.wantErr {
				assert.ErrorIs(t, err, quiz.ErrInvalidSettings)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTopic, settings.Topic())
		})
	}
}

func TestTakeQuiz_SubmitAndLeave(t *testing.T) {
	color.NoColor = true

	gen := &countingGenerator{questions: oneQuestion()}
	persister := storage.NewMemoryStorage()
	manager := quiz.NewManager(gen, storage.NewRecorder(persister, "local"))

	var out bytes.Buffer
	err := takeQuiz(context.Background(), manager, topicSettings(), strings.NewReader("a\ns\nq\n"), &out, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, out.String(), "Great job!")

	attempts, err := persister.ListAttempts(context.Background(), "local")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, 1, attempts[0].CorrectAnswers)
}

func TestTakeQuiz_RetryRegenerates(t *testing.T) {
	color.NoColor = true

	gen := &countingGenerator{questions: oneQuestion()}
	manager := quiz.NewManager(gen, nil)

	var out bytes.Buffer
	err := takeQuiz(context.Background(), manager, topicSettings(), strings.NewReader("b\ns\nr\nq\n"), &out, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, gen.calls)
	assert.Contains(t, out.String(), "Keep practicing!")
}

func TestTakeQuiz_NoQuestions(t *testing.T) {
	manager := quiz.NewManager(&countingGenerator{}, nil)

	var out bytes.Buffer
	err := takeQuiz(context.Background(), manager, topicSettings(), strings.NewReader(""), &out, nil)

	require.ErrorIs(t, err, quiz.ErrNoQuestions)
	assert.Contains(t, out.String(), "No questions generated")
}

func TestPrintHistory(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	recorder := storage.NewRecorder(st, "local")

	var out bytes.Buffer
	require.NoError(t, printHistory(ctx, st, "local", 10, &out))
	assert.Contains(t, out.String(), "No quizzes taken yet.")

	for i, topic := range []string{"Algebra", "Biology"} {
		require.NoError(t, recorder.SaveAttempt(ctx, quiz.Attempt{
			Topic:          topic,
			Difficulty:     quiz.DifficultyEasy,
			TotalQuestions: 5,
			CorrectAnswers: 2 + i,
			Questions:      oneQuestion(),
			Answers:        quiz.Answers{1: 0},
			CompletedAt:    time.Date(2026, 1, 1+i, 10, 0, 0, 0, time.UTC),
		}))
	}

	out.Reset()
	require.NoError(t, printHistory(ctx, st, "local", 1, &out))

	assert.Contains(t, out.String(), "Quizzes taken: 2  Questions: 10  Average score: 50%")
	assert.Contains(t, out.String(), "Biology")
	assert.Contains(t, out.String(), "3/5 (60%)")
	assert.NotContains(t, out.String(), "Algebra")
}

func TestPrintAttempt(t *testing.T) {
	color.NoColor = true

	ctx := context.Background()
	st := storage.NewMemoryStorage()

	questions := []quiz.Question{
		{ID: 1, Question: "2+2?", Options: []string{"3", "4"}, Correct: 1},
		{ID: 2, Question: "3*3?", Options: []string{"6", "9"}, Correct: 1},
		{ID: 3, Question: "10/2?", Options: []string{"5", "2"}, Correct: 0},
	}
	require.NoError(t, storage.NewRecorder(st, "local").SaveAttempt(ctx, quiz.Attempt{
		Topic:          "Algebra",
		Difficulty:     quiz.DifficultyMedium,
		TotalQuestions: 3,
		CorrectAnswers: 1,
		Questions:      questions,
		Answers:        quiz.Answers{1: 1, 2: 0},
		CompletedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}))

	attempts, err := st.ListAttempts(ctx, "local")
	require.NoError(t, err)
	require.Len(t, attempts, 1)

	var out bytes.Buffer
	require.NoError(t, printAttempt(ctx, st, "local", attempts[0].ID, &out))

	got := out.String()
	assert.Contains(t, got, "Algebra (medium)")
	assert.Contains(t, got, "1/3  33% correct")
	assert.Contains(t, got, "+ 1. 2+2?")
	assert.Contains(t, got, "- 2. 3*3?")
	assert.Contains(t, got, "Your answer: 6")
	assert.Contains(t, got, "Correct: 9")
	assert.Contains(t, got, "- 3. 10/2?")
	assert.Contains(t, got, "Your answer: Not answered")
	assert.Contains(t, got, "Correct: 5")
}

func TestPrintAttempt_NotFound(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()

	var out bytes.Buffer
	err := printAttempt(ctx, st, "local", "missing", &out)
	require.ErrorIs(t, err, storage.ErrAttemptNotFound)

	require.NoError(t, storage.NewRecorder(st, "someone-else").SaveAttempt(ctx, quiz.Attempt{
		Topic:          "Biology",
		Difficulty:     quiz.DifficultyEasy,
		TotalQuestions: 1,
		Questions:      oneQuestion(),
		Answers:        quiz.Answers{},
	}))

	attempts, err := st.ListAttempts(ctx, "someone-else")
	require.NoError(t, err)
	require.Len(t, attempts, 1)

	err = printAttempt(ctx, st, "local", attempts[0].ID, &out)
	assert.ErrorIs(t, err, storage.ErrAttemptNotFound)
	assert.Empty(t, out.String())
}
