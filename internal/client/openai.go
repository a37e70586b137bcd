package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/letsssgooo/studyquiz/internal/quiz"
	openai "github.com/sashabaranov/go-openai"
)

const submitQuestionsTool = "submit_questions"

// OpenAIGenerator генерирует вопросы по теме через OpenAI без бэкенда.
// Квизы по загруженным документам он не поддерживает: документы живут на бэкенде.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

// NewOpenAIGenerator создаёт генератор. Пустой baseURL означает адрес OpenAI по умолчанию.
func NewOpenAIGenerator(apiKey, baseURL, model string, log *slog.Logger) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if model == "" {
		model = openai.GPT4o
	}

	if log == nil {
		log = slog.Default()
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    log,
	}
}

// Generate запрашивает вопросы одним вызовом chat completion с обязательным tool call.
func (g *OpenAIGenerator) Generate(ctx context.Context, settings quiz.Settings) ([]quiz.Question, error) {
	if _, ok := settings.Source.(quiz.ByTopic); !ok {
		return nil, fmt.Errorf("%w, openai generator works with topics only", ErrUnsupportedSource)
	}

	ctx, cancelFunc := context.WithTimeout(ctx, timeoutGenerate)
	defer cancelFunc()

	g.log.Debug("requesting questions from openai",
		slog.String("model", g.model),
		slog.String("topic", settings.Topic()),
	)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert quiz question generator for students. Generate clear multiple choice questions with exactly 4 options each.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(settings),
			},
		},
		Tools: []openai.Tool{submitQuestionsToolSpec()},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: submitQuestionsTool},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w, %w", quiz.ErrGeneration, err)
	}

	if len(resp.Choices) == 0 {
		return nil, quiz.ErrNoQuestions
	}

	message := resp.Choices[0].Message
	if len(message.ToolCalls) == 0 {
		return nil, quiz.ErrNoQuestions
	}

	call := message.ToolCalls[0]
	if call.Function.Name != submitQuestionsTool {
		return nil, fmt.Errorf("%w, unexpected tool call: %s", quiz.ErrGeneration, call.Function.Name)
	}

	var args struct {
		Questions []struct {
			Question string   `json:"question"`
			Options  []string `json:"options"`
			Correct  int      `json:"correct"`
		} `json:"questions"`
	}
	if err = json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return nil, fmt.Errorf("%w, failed to parse tool arguments: %w", quiz.ErrGeneration, err)
	}

	if len(args.Questions) == 0 {
		return nil, quiz.ErrNoQuestions
	}

	questions := make([]quiz.Question, 0, len(args.Questions))
	for i, q := range args.Questions {
		questions = append(questions, quiz.Question{
			ID:       i + 1,
			Question: q.Question,
			Options:  q.Options,
			Correct:  q.Correct,
		})
	}

	return questions, nil
}

func buildPrompt(settings quiz.Settings) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate %d multiple choice questions about: %s\n\n", settings.NumQuestions, settings.Topic())
	fmt.Fprintf(&sb, "Difficulty level: %s\n", settings.Difficulty)

	if settings.Syllabus != "" {
		fmt.Fprintf(&sb, "Syllabus: %s\n", settings.Syllabus)
	}

	if settings.Grade != "" {
		fmt.Fprintf(&sb, "Grade: %s\n", settings.Grade)
	}

	sb.WriteString("\nRequirements:\n")
	sb.WriteString("- Each question must have exactly 4 options\n")
	sb.WriteString("- correct is the 0-based index of the right option\n")
	sb.WriteString("- Use the submit_questions tool to return your questions\n")

	return sb.String()
}

func submitQuestionsToolSpec() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        submitQuestionsTool,
			Description: "Submit generated quiz questions",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"questions": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"question": map[string]interface{}{
									"type":        "string",
									"description": "The question text",
								},
								"options": map[string]interface{}{
									"type":        "array",
									"items":       map[string]interface{}{"type": "string"},
									"description": "Answer options",
								},
								"correct": map[string]interface{}{
									"type":        "integer",
									"description": "0-based index of the correct option",
								},
							},
							"required": []string{"question", "options", "correct"},
						},
					},
				},
				"required": []string{"questions"},
			},
		},
	}
}
