package navigator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/letsssgooo/studyquiz/internal/quiz"
)

const msgHelp = `Commands:
  a, b, c ...  choose an answer
  n / p        next / previous question
  g N          go to question N
  s            submit the quiz
  v            show results (after submit)
  r            try again (after submit)
  q            leave the quiz`

// Console проводит квиз в терминале: читает команды построчно и рисует экраны.
type Console struct {
	nav *Navigator
	in  *bufio.Scanner
	out io.Writer
	log *slog.Logger
}

// NewConsole создаёт консоль поверх навигатора.
func NewConsole(nav *Navigator, in io.Reader, out io.Writer, log *slog.Logger) *Console {
	if log == nil {
		log = slog.Default()
	}

	return &Console{
		nav: nav,
		in:  bufio.NewScanner(in),
		out: out,
		log: log,
	}
}

// Run ведёт квиз до выхода пользователя и возвращает, куда перейти дальше.
func (c *Console) Run(ctx context.Context) (Route, error) {
	if _, ok := c.nav.QuestionView(); !ok {
		return RouteSetup, quiz.ErrNoActiveQuiz
	}

	if _, submitted := c.nav.ResultView(); submitted {
		c.showResult()
	} else {
		c.nav.Stopwatch().Start(ctx)
		c.showQuestion()
	}

	for {
		if err := ctx.Err(); err != nil {
			return RouteDashboard, err
		}

		c.print("> ")

		line, ok := c.readLine()
		if !ok {
			return c.nav.Done(), c.in.Err()
		}

		route, done := c.handle(ctx, line)
		if done {
			return route, nil
		}
	}
}

func (c *Console) handle(ctx context.Context, line string) (Route, bool) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		c.showQuestion()
		return "", false
	}

	_, submitted := c.nav.ResultView()

	switch fields[0] {
	case "h", "help":
		c.print(msgHelp + "\n")
	case "n":
		c.nav.Next()
		c.showQuestion()
	case "p":
		c.nav.Prev()
		c.showQuestion()
	case "g":
		c.jump(fields)
	case "s":
		c.submit(ctx)
	case "v":
		if submitted {
			c.showResult()
			return "", false
		}
		c.selectLetter(fields[0])
	case "r":
		if submitted {
			return c.nav.Retry(), true
		}
		c.selectLetter(fields[0])
	case "q":
		return c.nav.Done(), true
	default:
		c.selectLetter(fields[0])
	}

	return "", false
}

func (c *Console) jump(fields []string) {
	if len(fields) != 2 {
		c.print("usage: g N\n")
		return
	}

	number, err := strconv.Atoi(fields[1])
	if err != nil {
		c.print("usage: g N\n")
		return
	}

	c.nav.Jump(number - 1)
	c.showQuestion()
}

func (c *Console) selectLetter(letter string) {
	err := c.nav.SelectLetter(letter)
	switch {
	case errors.Is(err, ErrOptionOutOfRange):
		c.print(fmt.Sprintf("Unknown command or option %q, type h for help.\n", letter))
		return
	case errors.Is(err, quiz.ErrAlreadySubmitted):
		c.print("The quiz is already submitted, answers can't be changed.\n")
		return
	case err != nil:
		c.print(err.Error() + "\n")
		return
	}

	c.showQuestion()
}

func (c *Console) submit(ctx context.Context) {
	view, err := c.nav.Submit(ctx, c.confirm)
	switch {
	case errors.Is(err, ErrSubmitDeclined):
		c.print("Submission cancelled.\n")
		return
	case errors.Is(err, quiz.ErrAlreadySubmitted):
		c.showResult()
		return
	case err != nil:
		c.log.Error("failed to submit quiz", slog.String("error", err.Error()))
		c.print(err.Error() + "\n")
		return
	}

	c.render(RenderResult(c.out, view))
}

func (c *Console) confirm(unanswered int) bool {
	c.print(fmt.Sprintf("You have %d unanswered question(s). Submit anyway? [y/N] ", unanswered))

	line, ok := c.readLine()
	if !ok {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}

	return false
}

func (c *Console) showQuestion() {
	view, ok := c.nav.QuestionView()
	if !ok {
		return
	}

	c.render(RenderQuestion(c.out, view))
}

func (c *Console) showResult() {
	view, ok := c.nav.ResultView()
	if !ok {
		return
	}

	c.render(RenderResult(c.out, view))
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}

	return c.in.Text(), true
}

func (c *Console) print(s string) {
	_, err := io.WriteString(c.out, s)
	c.render(err)
}

func (c *Console) render(err error) {
	if err != nil {
		c.log.Warn("failed to write to console", slog.String("error", err.Error()))
	}
}
