package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/letsssgooo/studyquiz/internal/quiz"
	"golang.org/x/time/rate"
)

// HTTPClient реализует quiz.Generator через HTTP API бэкенда.
type HTTPClient struct {
	client  *resty.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// HTTPOption настраивает HTTPClient.
type HTTPOption func(*HTTPClient)

// WithTimeout задаёт таймаут одного запроса генерации.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRatePerMinute ограничивает количество запросов генерации в минуту.
// Ноль снимает ограничение.
func WithRatePerMinute(n int) HTTPOption {
	return func(c *HTTPClient) {
		if n > 0 {
			c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
		}
	}
}

// WithTransport подменяет http.Client, которым пользуется resty.
func WithTransport(httpClient *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		if httpClient != nil {
			c.client = resty.NewWithClient(httpClient).SetBaseURL(c.client.BaseURL)
		}
	}
}

// NewHTTPClient создаёт клиента бэкенда генерации с адресом baseURL.
func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		client:  resty.New().SetBaseURL(baseURL),
		limiter: rate.NewLimiter(rate.Inf, 1),
		timeout: timeoutGenerate,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.client.SetHeader("Content-Type", "application/json")

	return c
}

// Generate отправляет настройки квиза на бэкенд и возвращает вопросы.
// Выполняет ровно один запрос, без повторов.
func (c *HTTPClient) Generate(ctx context.Context, settings quiz.Settings) ([]quiz.Question, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w, rate limiter: %w", quiz.ErrGeneration, err)
	}

	ctx, cancelFunc := context.WithTimeout(ctx, c.timeout)
	defer cancelFunc()

	var (
		result  generateResponse
		failure errorResponse
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(settings).
		SetResult(&result).
		SetError(&failure).
		ForceContentType("application/json").
		Post(quizPath)
	if err != nil {
		return nil, fmt.Errorf("%w, failed to do post request for %s: %w", quiz.ErrGeneration, quizPath, err)
	}

	if resp.IsError() {
		message := failure.Error
		if message == "" {
			message = http.StatusText(resp.StatusCode())
		}

		return nil, fmt.Errorf(
			"%w, unexpected response status code %d: %s",
			quiz.ErrGeneration,
			resp.StatusCode(),
			message,
		)
	}

	if len(result.Questions) == 0 {
		return nil, quiz.ErrNoQuestions
	}

	return result.Questions, nil
}
