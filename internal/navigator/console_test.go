package navigator

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/studyquiz/internal/quiz"
)

func runConsole(t *testing.T, nav *Navigator, script ...string) (Route, string) {
	t.Helper()

	var out bytes.Buffer
	console := NewConsole(nav, strings.NewReader(strings.Join(script, "\n")+"\n"), &out, nil)

	route, err := console.Run(context.Background())
	require.NoError(t, err)

	return route, out.String()
}

func TestConsole_FullRun(t *testing.T) {
	nav, m := newTestNavigator(t, nil, 0, 1, 2)

	route, out := runConsole(t, nav,
		"a",
		"n",
		"b",
		"g 3",
		"s",
		"y",
		"q",
	)

	assert.Equal(t, RouteDashboard, route)
	assert.True(t, m.Snapshot().IsSubmitted)
	assert.Equal(t, 2, m.Score())

	assert.Contains(t, out, "Question 1 of 3")
	assert.Contains(t, out, "Question 3 of 3")
	assert.Contains(t, out, "You have 1 unanswered question(s). Submit anyway? [y/N] ")
	assert.Contains(t, out, "2/3")
	assert.Contains(t, out, "67% correct")
	assert.Contains(t, out, "Keep practicing!")
	assert.Contains(t, out, "Not answered")
}

func TestConsole_DeclinedSubmit(t *testing.T) {
	nav, m := newTestNavigator(t, nil, 0, 1)

	route, out := runConsole(t, nav, "s", "n", "q")

	assert.Equal(t, RouteDashboard, route)
	assert.False(t, m.Snapshot().IsSubmitted)
	assert.Contains(t, out, "Submission cancelled.")
}

func TestConsole_RetryAfterSubmit(t *testing.T) {
	nav, m := newTestNavigator(t, nil, 0)

	route, out := runConsole(t, nav, "a", "s", "v", "r")

	assert.Equal(t, RouteSetup, route)
	assert.Equal(t, quiz.PhaseIdle, m.Phase())
	assert.Contains(t, out, "Great job!")
}

func TestConsole_UnknownInput(t *testing.T) {
	nav, m := newTestNavigator(t, nil, 0)

	_, out := runConsole(t, nav, "x", "g", "g two", "h", "q")

	assert.Empty(t, m.Snapshot().Answers)
	assert.Contains(t, out, `Unknown command or option "x"`)
	assert.Contains(t, out, "usage: g N")
	assert.Contains(t, out, "Commands:")
}

func TestConsole_EndOfInput(t *testing.T) {
	nav, _ := newTestNavigator(t, nil, 0)

	var out bytes.Buffer
	route, err := NewConsole(nav, strings.NewReader(""), &out, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, RouteDashboard, route)
}

func TestConsole_NoActiveQuiz(t *testing.T) {
	nav := New(quiz.NewManager(staticGenerator{}, nil), nil)

	var out bytes.Buffer
	route, err := NewConsole(nav, strings.NewReader("q\n"), &out, nil).Run(context.Background())

	require.ErrorIs(t, err, quiz.ErrNoActiveQuiz)
	assert.Equal(t, RouteSetup, route)
}

func TestConsole_QuitStopsStopwatch(t *testing.T) {
	_, m := newTestNavigator(t, nil, 0, 1)
	nav := New(m, &Stopwatch{interval: time.Millisecond})

	route, _ := runConsole(t, nav, "a", "q")
	assert.Equal(t, RouteDashboard, route)

	stopped := nav.Stopwatch().Elapsed()
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, stopped, nav.Stopwatch().Elapsed())
	assert.Equal(t, quiz.PhaseActive, m.Phase())
}
