package timekeeper

import (
	"testing"
	"time"

	"wrapped/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeeper(slides int, loop bool) *TimeKeeper {
	config := model.DriverConfig{
		SlideDuration: time.Second,
		Slides:        make([]model.Slide, slides),
		Loop:          loop,
	}
	return New(config, Config{TickInterval: 100 * time.Millisecond})
}

func drain(ch <-chan Event) []Event {
	var events []Event
	for {
		select {
		case event := <-ch:
			events = append(events, event)
		default:
			return events
		}
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	keeper := New(model.DriverConfig{}, Config{})

	assert.Equal(t, 50*time.Millisecond, keeper.options.TickInterval)
	assert.Equal(t, 5*time.Second, keeper.config.SlideDuration)
	assert.Equal(t, StateRunning, keeper.Snapshot().State)
	assert.Equal(t, 1, keeper.Snapshot().Slides)
}

func TestTickAdvancesProgress(t *testing.T) {
	keeper := newKeeper(2, false)
	events := keeper.Subscribe(32)

	now := time.Now()
	for i := 0; i < 5; i++ {
		keeper.tick(now)
	}

	received := drain(events)
	require.Len(t, received, 5)
	for i, event := range received {
		assert.Equal(t, EventProgress, event.Type)
		assert.InDelta(t, float64(i+1)*10, event.Progress, 1e-9)
	}
	assert.Equal(t, 500*time.Millisecond, received[4].Remaining)
}

func TestPausedKeeperDoesNotAdvance(t *testing.T) {
	keeper := newKeeper(1, false)
	events := keeper.Subscribe(32)

	keeper.tick(time.Now())
	keeper.Pause()
	for i := 0; i < 5; i++ {
		keeper.tick(time.Now())
	}

	received := drain(events)
	require.Len(t, received, 2)
	assert.Equal(t, EventStateChange, received[1].Type)
	assert.Equal(t, StatePaused, received[1].State)
	assert.InDelta(t, 10, keeper.Snapshot().Progress, 1e-9)

	keeper.Resume()
	keeper.tick(time.Now())
	assert.InDelta(t, 20, keeper.Snapshot().Progress, 1e-9)
	assert.Equal(t, StateRunning, keeper.Snapshot().State)
}

func TestToggle(t *testing.T) {
	keeper := newKeeper(1, false)

	assert.True(t, keeper.Toggle())
	assert.True(t, keeper.Paused())
	assert.False(t, keeper.Toggle())
	assert.False(t, keeper.Paused())
}

func TestSlideAdvancesAtHundred(t *testing.T) {
	keeper := newKeeper(2, false)
	events := keeper.Subscribe(64)

	for i := 0; i < 10; i++ {
		keeper.tick(time.Now())
	}

	received := drain(events)
	last := received[len(received)-1]
	assert.Equal(t, EventSlideChange, last.Type)
	assert.Equal(t, 1, last.Slide)
	assert.Zero(t, last.Progress)
}

func TestLastSlideFinishes(t *testing.T) {
	keeper := newKeeper(1, false)
	events := keeper.Subscribe(64)

	for i := 0; i < 15; i++ {
		keeper.tick(time.Now())
	}

	snapshot := keeper.Snapshot()
	assert.Equal(t, StateFinished, snapshot.State)
	assert.InDelta(t, 100, snapshot.Progress, 1e-9)

	received := drain(events)
	assert.Len(t, received, 11)
	assert.Equal(t, StateFinished, received[10].State)

	keeper.Previous()
	assert.Equal(t, StateRunning, keeper.Snapshot().State)
	assert.Zero(t, keeper.Snapshot().Progress)
}

func TestLoopWrapsToFirstSlide(t *testing.T) {
	keeper := newKeeper(2, true)

	for i := 0; i < 20; i++ {
		keeper.tick(time.Now())
	}

	assert.Equal(t, 0, keeper.Snapshot().Slide)
	assert.Equal(t, StateRunning, keeper.Snapshot().State)
}

func TestNextAndPrevious(t *testing.T) {
	keeper := newKeeper(3, false)
	keeper.tick(time.Now())

	keeper.Next()
	assert.Equal(t, 1, keeper.Snapshot().Slide)
	assert.Zero(t, keeper.Snapshot().Progress)

	keeper.Next()
	keeper.Next()
	assert.Equal(t, 2, keeper.Snapshot().Slide)

	keeper.Previous()
	keeper.Previous()
	keeper.Previous()
	assert.Equal(t, 0, keeper.Snapshot().Slide)
}

func TestJumpWhilePausedStaysPaused(t *testing.T) {
	keeper := newKeeper(3, false)
	keeper.Pause()

	keeper.Next()
	keeper.tick(time.Now())

	assert.True(t, keeper.Paused())
	assert.Equal(t, StatePaused, keeper.Snapshot().State)
	assert.Zero(t, keeper.Snapshot().Progress)
}

func TestPerSlideDuration(t *testing.T) {
	keeper := New(model.DriverConfig{
		SlideDuration: time.Second,
		Slides: []model.Slide{
			{Title: "short", Duration: 200 * time.Millisecond},
			{Title: "default"},
		},
	}, Config{TickInterval: 100 * time.Millisecond})

	keeper.tick(time.Now())
	assert.InDelta(t, 50, keeper.Snapshot().Progress, 1e-9)
	keeper.tick(time.Now())
	assert.Equal(t, 1, keeper.Snapshot().Slide)
}

func TestUpdateConfigClampsSlide(t *testing.T) {
	keeper := newKeeper(3, false)
	keeper.Next()
	keeper.Next()

	keeper.UpdateConfig(model.DriverConfig{Slides: make([]model.Slide, 1)})

	snapshot := keeper.Snapshot()
	assert.Equal(t, 0, snapshot.Slide)
	assert.Equal(t, 1, snapshot.Slides)
	assert.Equal(t, time.Second, keeper.config.SlideDuration)
}

func TestStartAndStop(t *testing.T) {
	keeper := New(model.DriverConfig{SlideDuration: time.Second}, Config{TickInterval: 10 * time.Millisecond})
	events := keeper.Subscribe(256)

	keeper.Start()
	first := <-events
	assert.Equal(t, EventSlideChange, first.Type)

	assert.Eventually(t, func() bool {
		return keeper.Snapshot().Progress > 0
	}, time.Second, 5*time.Millisecond)

	keeper.Stop()
	keeper.Stop()

	for range events {
	}
}
