package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/letsssgooo/studyquiz/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topicSettings() quiz.Settings {
	return quiz.Settings{
		Source:       quiz.ByTopic{Topic: "Algebra"},
		Difficulty:   quiz.DifficultyEasy,
		NumQuestions: 5,
		Syllabus:     "CBSE",
		Grade:        "9",
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestHTTPClient_Generate(t *testing.T) {
	var gotBody map[string]any
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/quiz", r.URL.Path)

		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(data, &gotBody))

		writeJSON(w, http.StatusOK, `{"questions": [
			{"id": 1, "question": "2+2?", "options": ["3", "4"], "correct": 1},
			{"id": 2, "question": "3+3?", "options": ["6", "7"], "correct": 0}
		]}`)
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL)

	questions, err := c.Generate(context.Background(), topicSettings())
	require.NoError(t, err)

	require.Len(t, questions, 2)
	assert.Equal(t, quiz.Question{ID: 1, Question: "2+2?", Options: []string{"3", "4"}, Correct: 1}, questions[0])
	assert.Equal(t, int32(1), calls.Load())

	assert.Equal(t, "Algebra", gotBody["topic"])
	assert.Equal(t, "easy", gotBody["difficulty"])
	assert.Equal(t, float64(5), gotBody["numQuestions"])
	assert.Equal(t, "CBSE", gotBody["syllabus"])
	assert.NotContains(t, gotBody, "filenames")
}

func TestHTTPClient_GenerateFromDocuments(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)

		writeJSON(w, http.StatusOK, `{"questions": [{"id": 7, "question": "Q", "options": ["a", "b"], "correct": 0}]}`)
	}))
	defer server.Close()

	settings := quiz.Settings{
		Source:       quiz.ByDocuments{Filenames: []string{"notes.pdf"}},
		Difficulty:   quiz.DifficultyHard,
		NumQuestions: 10,
	}

	questions, err := NewHTTPClient(server.URL).Generate(context.Background(), settings)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	assert.Equal(t, "My Notes", gotBody["topic"])
	assert.Equal(t, []any{"notes.pdf"}, gotBody["filenames"])
}

func TestHTTPClient_GenerateErrors(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		wantErr error
		message string
	}{
		{
			name:    "empty questions",
			status:  http.StatusOK,
			body:    `{"questions": []}`,
			wantErr: quiz.ErrNoQuestions,
		},
		{
			name:    "missing questions",
			status:  http.StatusOK,
			body:    `{}`,
			wantErr: quiz.ErrNoQuestions,
		},
		{
			name:    "bad request with message",
			status:  http.StatusBadRequest,
			body:    `{"error": "Invalid Quiz Request: No Source (filenames or topic) provided."}`,
			wantErr: quiz.ErrGeneration,
			message: "No Source",
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{}`,
			wantErr: quiz.ErrGeneration,
			message: "500",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			}))
			defer server.Close()

			questions, err := NewHTTPClient(server.URL).Generate(context.Background(), topicSettings())
			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, questions)
			if tc.message != "" {
				assert.ErrorContains(t, err, tc.message)
			}
		})
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, WithTimeout(50*time.Millisecond))

	_, err := c.Generate(context.Background(), topicSettings())
	require.ErrorIs(t, err, quiz.ErrGeneration)
}

func TestHTTPClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewHTTPClient(url).Generate(context.Background(), topicSettings())
	require.ErrorIs(t, err, quiz.ErrGeneration)
}

func TestHTTPClient_RateLimitRespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"questions": [{"id": 1, "question": "Q", "options": ["a", "b"], "correct": 0}]}`)
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, WithRatePerMinute(1))

	_, err := c.Generate(context.Background(), topicSettings())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = c.Generate(ctx, topicSettings())
	require.ErrorIs(t, err, quiz.ErrGeneration)
}

func TestHTTPClient_WithManager(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"questions": []}`)
	}))
	defer server.Close()

	m := quiz.NewManager(NewHTTPClient(server.URL), nil)

	err := m.StartQuiz(context.Background(), topicSettings())
	require.ErrorIs(t, err, quiz.ErrNoQuestions)
	assert.NotErrorIs(t, err, quiz.ErrGeneration)
	assert.False(t, m.Snapshot().IsGenerating)
}
