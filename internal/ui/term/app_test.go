package term

import (
	"context"
	"strings"
	"testing"
	"time"

	"wrapped/internal/core/model"
	"wrapped/internal/core/timekeeper"
	"wrapped/internal/logging"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*App, *timekeeper.TimeKeeper, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(60, 24)
	t.Cleanup(screen.Fini)

	config := model.DriverConfig{
		SlideDuration: time.Second,
		Slides: []model.Slide{
			{Title: "Pull requests", Subtitle: "42 merged"},
			{Title: "Reviews", Subtitle: "17 approved"},
		},
	}
	keeper := timekeeper.New(config, timekeeper.Config{TickInterval: time.Hour})
	app := New(screen, keeper, config, Options{Logger: logging.Discard()})
	return app, keeper, screen
}

func screenRow(screen tcell.SimulationScreen, y int) string {
	width, _ := screen.Size()
	var builder strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		builder.WriteRune(r)
	}
	return builder.String()
}

func screenText(screen tcell.SimulationScreen) string {
	_, height := screen.Size()
	rows := make([]string, height)
	for y := range rows {
		rows[y] = screenRow(screen, y)
	}
	return strings.Join(rows, "\n")
}

func TestDrawShowsSlide(t *testing.T) {
	app, _, screen := newTestApp(t)

	app.Draw()
	assert.Contains(t, screenRow(screen, 1), "Pull requests")
	assert.Contains(t, screenRow(screen, 2), "42 merged")
	assert.Contains(t, screenText(screen), "1 / 2")
	assert.Contains(t, screenText(screen), string(MarkerRune))
}

func TestSpaceRequestsPauseFromKeeper(t *testing.T) {
	app, keeper, screen := newTestApp(t)

	assert.True(t, app.handleKey(tcell.KeyRune, ' '))
	assert.True(t, keeper.Paused())

	app.Draw()
	assert.NotContains(t, screenText(screen), "Paused", "ring waits for the keeper event")

	app.Apply(keeper.Snapshot())
	app.Draw()
	assert.Contains(t, screenText(screen), "Paused")

	assert.True(t, app.handleKey(tcell.KeyRune, ' '))
	assert.False(t, keeper.Paused())
}

func TestSlideKeys(t *testing.T) {
	app, keeper, _ := newTestApp(t)

	app.handleKey(tcell.KeyRight, 0)
	assert.Equal(t, 1, keeper.Snapshot().Slide)
	app.handleKey(tcell.KeyLeft, 0)
	assert.Equal(t, 0, keeper.Snapshot().Slide)
	app.handleKey(tcell.KeyRune, 'n')
	assert.Equal(t, 1, keeper.Snapshot().Slide)
	app.handleKey(tcell.KeyRune, 'p')
	assert.Equal(t, 0, keeper.Snapshot().Slide)
}

func TestQuitKeys(t *testing.T) {
	app, _, _ := newTestApp(t)

	assert.False(t, app.handleKey(tcell.KeyRune, 'q'))
	assert.False(t, app.handleKey(tcell.KeyEscape, 0))
	assert.False(t, app.handleKey(tcell.KeyCtrlC, 0))
	assert.True(t, app.handleKey(tcell.KeyRune, 'x'))
}

func TestSlideChangeReplacesRing(t *testing.T) {
	app, _, screen := newTestApp(t)

	app.Apply(timekeeper.Event{Type: timekeeper.EventProgress, State: timekeeper.StateRunning, Progress: 40})
	first := app.currentController()
	require.Equal(t, 1, first.Sparkles().Len())

	app.Apply(timekeeper.Event{Type: timekeeper.EventSlideChange, State: timekeeper.StateRunning, Slide: 1, Slides: 2})
	assert.True(t, first.Disposed())
	assert.Zero(t, first.Sparkles().Pending())
	assert.NotSame(t, first, app.currentController())

	app.Draw()
	assert.Contains(t, screenRow(screen, 1), "Reviews")
	assert.Contains(t, screenText(screen), "2 / 2")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app, _, _ := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.True(t, app.currentController().Disposed())
}
