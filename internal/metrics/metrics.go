package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/letsssgooo/studyquiz/internal/quiz"
)

// Исходы генерации квиза
const (
	OutcomeSuccess   = "success"
	OutcomeEmpty     = "empty"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)

// Collector собирает метрики квизов. Реализует quiz.Observer.
type Collector struct {
	registry *prometheus.Registry

	generations     *prometheus.CounterVec
	questions       prometheus.Histogram
	submissions     *prometheus.CounterVec
	persistFailures prometheus.Counter
	scoreRatio      prometheus.Histogram
}

var _ quiz.Observer = (*Collector)(nil)

// NewCollector создаёт коллектор со своим реестром.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyquiz_generations_total",
				Help: "Total number of quiz generations by outcome",
			},
			[]string{"outcome"},
		),
		questions: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "studyquiz_generated_questions",
				Help:    "Number of questions in a successfully generated quiz",
				Buckets: []float64{5, 10, 15, 20},
			},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyquiz_submissions_total",
				Help: "Total number of submitted quizzes by difficulty",
			},
			[]string{"difficulty"},
		),
		persistFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "studyquiz_persist_failures_total",
				Help: "Total number of attempts that could not be saved",
			},
		),
		scoreRatio: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "studyquiz_score_ratio",
				Help:    "Share of correct answers in a submitted quiz",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
	}

	c.registry.MustRegister(
		c.generations,
		c.questions,
		c.submissions,
		c.persistFailures,
		c.scoreRatio,
	)

	return c
}

// GenerationFinished учитывает завершённую генерацию.
func (c *Collector) GenerationFinished(_ quiz.Settings, questions int, err error) {
	outcome := generationOutcome(err)
	c.generations.WithLabelValues(outcome).Inc()

	if outcome == OutcomeSuccess {
		c.questions.Observe(float64(questions))
	}
}

func generationOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, quiz.ErrNoQuestions):
		return OutcomeEmpty
	case errors.Is(err, quiz.ErrMalformedQuestions):
		return OutcomeMalformed
	default:
		return OutcomeError
	}
}

// AttemptSubmitted учитывает отправленный квиз.
func (c *Collector) AttemptSubmitted(attempt quiz.Attempt, persistErr error) {
	c.submissions.WithLabelValues(string(attempt.Difficulty)).Inc()

	if persistErr != nil {
		c.persistFailures.Inc()
	}

	if attempt.TotalQuestions > 0 {
		c.scoreRatio.Observe(float64(attempt.CorrectAnswers) / float64(attempt.TotalQuestions))
	}
}

// Registry возвращает реестр коллектора.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler отдаёт метрики в формате Prometheus.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
