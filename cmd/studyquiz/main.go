package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/letsssgooo/studyquiz/internal/client"
	"github.com/letsssgooo/studyquiz/internal/config"
	"github.com/letsssgooo/studyquiz/internal/lib/slogcustom"
	"github.com/letsssgooo/studyquiz/internal/metrics"
	"github.com/letsssgooo/studyquiz/internal/navigator"
	"github.com/letsssgooo/studyquiz/internal/quiz"
	"github.com/letsssgooo/studyquiz/internal/storage"
	"github.com/letsssgooo/studyquiz/internal/storage/postgres"
	"github.com/letsssgooo/studyquiz/internal/storage/sqlite"
)

const usage = `Usage:
  studyquiz take --topic TOPIC | --files F1,F2 [--difficulty easy|medium|hard] [--count 5|10|15|20]
  studyquiz history [--limit N] [--id ATTEMPT_ID]`

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("studyquiz failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return errors.New("no command given")
	}

	global := pflag.NewFlagSet("studyquiz", pflag.ContinueOnError)
	configDir := global.String("config-dir", ".", "directory with studyquiz.yaml and .env")

	cmd := args[0]
	switch cmd {
	case "take":
		return runTake(global, configDir, args[1:])
	case "history":
		return runHistory(global, configDir, args[1:])
	case "-h", "--help", "help":
		fmt.Println(usage)
		return nil
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runTake(flags *pflag.FlagSet, configDir *string, args []string) error {
	flagTopic := flags.String("topic", "", "quiz topic")
	flagFiles := flags.StringSlice("files", nil, "uploaded documents to build the quiz from")
	flagDifficulty := flags.String("difficulty", string(quiz.DifficultyMedium), "easy, medium or hard")
	flagCount := flags.Int("count", 10, "number of questions: 5, 10, 15 or 20")
	flagSyllabus := flags.String("syllabus", "", "syllabus, passed to the generator as is")
	flagGrade := flags.String("grade", "", "grade, passed to the generator as is")

	if err := flags.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, *configDir)
	if err != nil {
		return err
	}
	defer app.close()

	settings, err := buildSettings(*flagTopic, *flagFiles, *flagDifficulty, *flagCount, *flagSyllabus, *flagGrade)
	if err != nil {
		return err
	}

	generator, err := newGenerator(app.cfg, app.log)
	if err != nil {
		return err
	}

	manager := quiz.NewManager(generator, storage.NewRecorder(app.storage, app.cfg.User.ID),
		quiz.WithLogger(app.log),
		quiz.WithObserver(app.metrics),
	)

	return takeQuiz(ctx, manager, settings, os.Stdin, os.Stdout, app.log)
}

// takeQuiz генерирует квиз и проводит его в консоли. «Пройти заново» снова
// генерирует квиз с теми же настройками.
func takeQuiz(
	ctx context.Context,
	manager *quiz.Manager,
	settings quiz.Settings,
	in io.Reader,
	out io.Writer,
	log *slog.Logger,
) error {
	nav := navigator.New(manager, nil)
	console := navigator.NewConsole(nav, in, out, log)

	for {
		fmt.Fprintf(out, "Generating %d %s questions about %s...\n",
			settings.NumQuestions, settings.Difficulty, settings.Topic())

		if err := manager.StartQuiz(ctx, settings); err != nil {
			if errors.Is(err, quiz.ErrNoQuestions) {
				fmt.Fprintln(out, "No questions generated. Please try a different topic.")
			}
			return err
		}

		route, err := console.Run(ctx)
		if err != nil {
			return err
		}

		if route == navigator.RouteDashboard {
			return nil
		}
	}
}

func runHistory(flags *pflag.FlagSet, configDir *string, args []string) error {
	flagLimit := flags.Int("limit", 20, "how many attempts to show")
	flagID := flags.String("id", "", "show the review of one attempt")

	if err := flags.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, *configDir)
	if err != nil {
		return err
	}
	defer app.close()

	if *flagID != "" {
		return printAttempt(ctx, app.storage, app.cfg.User.ID, *flagID, os.Stdout)
	}

	return printHistory(ctx, app.storage, app.cfg.User.ID, *flagLimit, os.Stdout)
}

func printHistory(ctx context.Context, st storage.Storage, userID string, limit int, out io.Writer) error {
	attempts, err := st.ListAttempts(ctx, userID)
	if err != nil {
		return err
	}

	if len(attempts) == 0 {
		fmt.Fprintln(out, "No quizzes taken yet.")
		return nil
	}

	var totalCorrect, totalQuestions int
	for _, a := range attempts {
		totalCorrect += a.CorrectAnswers
		totalQuestions += a.TotalQuestions
	}

	fmt.Fprintf(out, "Quizzes taken: %d  Questions: %d  Average score: %d%%\n\n",
		len(attempts), totalQuestions, quiz.Percentage(totalCorrect, totalQuestions))

	if limit > 0 && len(attempts) > limit {
		attempts = attempts[:limit]
	}

	for _, a := range attempts {
		percentage := quiz.Percentage(a.CorrectAnswers, a.TotalQuestions)
		fmt.Fprintf(out, "%s  %s  %-30s %-6s %d/%d (%d%%)\n",
			a.ID,
			a.CompletedAt.Local().Format(time.DateTime),
			a.Topic,
			a.Difficulty,
			a.CorrectAnswers,
			a.TotalQuestions,
			percentage,
		)
	}

	return nil
}

// printAttempt выводит разбор одной попытки пользователя.
func printAttempt(ctx context.Context, st storage.Storage, userID, id string, out io.Writer) error {
	model, err := st.GetAttempt(ctx, id)
	if err != nil {
		return err
	}

	if model.UserID != userID {
		return fmt.Errorf("%w, attempt %s belongs to another user", storage.ErrAttemptNotFound, id)
	}

	attempt, err := storage.DecodeAttempt(model)
	if err != nil {
		return err
	}

	return navigator.RenderAttempt(out, attempt)
}

func buildSettings(topic string, files []string, difficulty string, count int, syllabus, grade string) (quiz.Settings, error) {
	topic = strings.TrimSpace(topic)

	var source quiz.Source
	switch {
	case topic != "" && len(files) > 0:
		return quiz.Settings{}, fmt.Errorf("%w, use either --topic or --files", quiz.ErrInvalidSettings)
	case len(files) > 0:
		source = quiz.ByDocuments{Filenames: files}
	default:
		source = quiz.ByTopic{Topic: topic}
	}

	level, err := quiz.ParseDifficulty(difficulty)
	if err != nil {
		return quiz.Settings{}, err
	}

	settings := quiz.Settings{
		Source:       source,
		Difficulty:   level,
		NumQuestions: count,
		Syllabus:     syllabus,
		Grade:        grade,
	}

	return settings, settings.Validate()
}

type app struct {
	cfg     *config.Config
	log     *slog.Logger
	storage storage.Storage
	metrics *metrics.Collector
	server  *http.Server
}

func setup(ctx context.Context, configDir string) (*app, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}

	log := setupLogger(level)
	slog.SetDefault(log)

	st, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		storage: st,
		metrics: metrics.NewCollector(),
	}

	if cfg.Metrics.Addr != "" {
		a.server = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           a.metrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			log.Info("serving metrics", slog.String("addr", cfg.Metrics.Addr))
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server stopped", slog.String("error", err.Error()))
			}
		}()
	}

	return a, nil
}

func (a *app) close() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.server.Shutdown(ctx); err != nil {
			a.log.Warn("failed to stop metrics server", slog.String("error", err.Error()))
		}
	}

	if err := a.storage.Close(); err != nil {
		a.log.Warn("failed to close storage", slog.String("error", err.Error()))
	}
}

func setupLogger(level slog.Level) *slog.Logger {
	return slog.New(slogcustom.NewCustomHandler(os.Stderr, level))
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Type {
	case config.StoragePostgres:
		st, err := postgres.NewStorage(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}

		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}

		return st, nil
	case config.StorageSQLite:
		return sqlite.Open(ctx, cfg.Storage.DSN)
	default:
		return storage.NewMemoryStorage(), nil
	}
}

func newGenerator(cfg *config.Config, log *slog.Logger) (quiz.Generator, error) {
	switch cfg.Generator.Backend {
	case config.BackendOpenAI:
		return client.NewOpenAIGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, log), nil
	case config.BackendHTTP:
		return client.NewHTTPClient(cfg.Generator.BaseURL,
			client.WithTimeout(cfg.Generator.Timeout),
			client.WithRatePerMinute(cfg.Generator.RatePerMinute),
		), nil
	default:
		return nil, fmt.Errorf("unknown generator backend %q", cfg.Generator.Backend)
	}
}
