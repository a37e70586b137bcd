package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsValidate(t *testing.T) {
	testCases := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{
			name:     "topic",
			settings: Settings{Source: ByTopic{Topic: "Biology"}, Difficulty: DifficultyHard, NumQuestions: 20},
		},
		{
			name:     "documents",
			settings: Settings{Source: ByDocuments{Filenames: []string{"a.pdf"}}, Difficulty: DifficultyMedium, NumQuestions: 15},
		},
		{
			name:     "missing source",
			settings: Settings{Difficulty: DifficultyEasy, NumQuestions: 5},
			wantErr:  true,
		},
		{
			name:     "blank topic",
			settings: Settings{Source: ByTopic{Topic: "  "}, Difficulty: DifficultyEasy, NumQuestions: 5},
			wantErr:  true,
		},
		{
			name:     "no documents",
			settings: Settings{Source: ByDocuments{}, Difficulty: DifficultyEasy, NumQuestions: 5},
			wantErr:  true,
		},
		{
			name:     "empty filename",
			settings: Settings{Source: ByDocuments{Filenames: []string{"a.pdf", ""}}, Difficulty: DifficultyEasy, NumQuestions: 5},
			wantErr:  true,
		},
		{
			name:     "unknown difficulty",
			settings: Settings{Source: ByTopic{Topic: "Biology"}, Difficulty: "insane", NumQuestions: 5},
			wantErr:  true,
		},
		{
			name:     "count not allowed",
			settings: Settings{Source: ByTopic{Topic: "Biology"}, Difficulty: DifficultyEasy, NumQuestions: 3},
			wantErr:  true,
		},
		{
			name:     "zero count",
			settings: Settings{Source: ByTopic{Topic: "Biology"}, Difficulty: DifficultyEasy},
			wantErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.settings.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSettings)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" Medium ")
	require.NoError(t, err)
	assert.Equal(t, DifficultyMedium, d)

	_, err = ParseDifficulty("expert")
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestSettingsMarshalJSON(t *testing.T) {
	t.Run("topic", func(t *testing.T) {
		data, err := json.Marshal(Settings{
			Source:       ByTopic{Topic: "Physics"},
			Difficulty:   DifficultyEasy,
			NumQuestions: 10,
			Syllabus:     "CBSE",
			Grade:        "10",
		})
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"topic": "Physics",
			"difficulty": "easy",
			"numQuestions": 10,
			"syllabus": "CBSE",
			"grade": "10"
		}`, string(data))
	})

	t.Run("documents", func(t *testing.T) {
		data, err := json.Marshal(Settings{
			Source:       ByDocuments{Filenames: []string{"notes.pdf", "ch2.docx"}},
			Difficulty:   DifficultyHard,
			NumQuestions: 5,
		})
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"topic": "My Notes",
			"difficulty": "hard",
			"numQuestions": 5,
			"filenames": ["notes.pdf", "ch2.docx"]
		}`, string(data))
	})
}

func TestQuestionJSON(t *testing.T) {
	var questions []Question
	err := json.Unmarshal([]byte(`[
		{"id": 1, "question": "What is 2+2?", "options": ["3", "4"], "correct": 1}
	]`), &questions)
	require.NoError(t, err)

	require.Len(t, questions, 1)
	assert.Equal(t, Question{ID: 1, Question: "What is 2+2?", Options: []string{"3", "4"}, Correct: 1}, questions[0])
}
