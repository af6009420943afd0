package sparkle_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"wrapped/internal/core/sparkle"
	"wrapped/internal/core/sparkle/sparkletest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, time.December, 31, 12, 0, 0, 0, time.UTC)

type harness struct {
	scheduler *sparkletest.Scheduler
	manager   *sparkle.Manager
	changes   int
}

func newHarness(t *testing.T, config sparkle.Config) *harness {
	t.Helper()
	h := &harness{scheduler: sparkletest.NewScheduler(epoch)}
	sequence := 0
	h.manager = sparkle.New(config,
		sparkle.WithScheduler(h.scheduler),
		sparkle.WithClock(h.scheduler.Now),
		sparkle.WithOnChange(func() { h.changes++ }),
		sparkle.WithIDSource(func() string {
			sequence++
			return fmt.Sprintf("s%d", sequence)
		}),
	)
	t.Cleanup(h.manager.Close)
	return h
}

func ids(events []sparkle.Event) []string {
	result := make([]string, len(events))
	for i, event := range events {
		result[i] = event.ID
	}
	return result
}

func TestDefaultConfig(t *testing.T) {
	config := sparkle.DefaultConfig()
	assert.Equal(t, 600*time.Millisecond, config.Lifetime)
	assert.Equal(t, 3, config.Capacity)

	manager := sparkle.New(sparkle.Config{})
	defer manager.Close()
	assert.Equal(t, config, manager.Config())
}

func TestSpawnCapturesAngle(t *testing.T) {
	h := newHarness(t, sparkle.DefaultConfig())

	event, ok := h.manager.OnProgressChange(50, false)
	require.True(t, ok)

	assert.Equal(t, "s1", event.ID)
	assert.InDelta(t, 90, event.Angle, 1e-9)
	assert.Equal(t, epoch, event.CreatedAt)
	assert.Equal(t, epoch.Add(600*time.Millisecond), event.ExpiresAt)
	assert.Equal(t, []sparkle.Event{event}, h.manager.Active())
	assert.Equal(t, 1, h.changes)
}

func TestSequentialUpdatesKeepLastThree(t *testing.T) {
	h := newHarness(t, sparkle.DefaultConfig())

	created := 0
	for _, progress := range []float64{10, 20, 30, 40} {
		if _, ok := h.manager.OnProgressChange(progress, false); ok {
			created++
		}
		assert.LessOrEqual(t, h.manager.Len(), 3)
	}

	assert.Equal(t, 4, created)
	active := h.manager.Active()
	assert.Equal(t, []string{"s2", "s3", "s4"}, ids(active))
	assert.InDelta(t, 20.0, active[0].Progress, 1e-9)
	assert.Equal(t, 3, h.manager.Pending())
	assert.Equal(t, 3, h.scheduler.Pending(), "evicted sparkle timer is stopped")
}

func TestActiveSetNeverExceedsCapacity(t *testing.T) {
	h := newHarness(t, sparkle.DefaultConfig())

	for i := 1; i <= 100; i++ {
		h.manager.OnProgressChange(float64(i), false)
		h.scheduler.Advance(37 * time.Millisecond)
		assert.LessOrEqual(t, h.manager.Len(), 3)
	}
}

func TestPausedOrZeroNeverSpawns(t *testing.T) {
	h := newHarness(t, sparkle.DefaultConfig())

	for progress := 0.0; progress <= 100; progress += 5 {
		_, ok := h.manager.OnProgressChange(progress, true)
		assert.False(t, ok)
	}
	_, ok := h.manager.OnProgressChange(0, false)
	assert.False(t, ok)
	_, ok = h.manager.OnProgressChange(-3, false)
	assert.False(t, ok)

	assert.Zero(t, h.manager.Len())
	assert.Zero(t, h.changes)
	assert.Zero(t, h.scheduler.Pending())
}

func TestSparkleExpiresAfterLifetime(t *testing.T) {
	h := newHarness(t, sparkle.DefaultConfig())

	h.manager.OnProgressChange(10, false)
	h.scheduler.Advance(200 * time.Millisecond)
	h.manager.OnProgressChange(20, false)

	h.scheduler.Advance(399 * time.Millisecond)
	assert.Equal(t, []string{"s1", "s2"}, ids(h.manager.Active()))

	h.scheduler.Advance(1 * time.Millisecond)
	assert.Equal(t, []string{"s2"}, ids(h.manager.Active()))

	h.scheduler.Advance(200 * time.Millisecond)
	assert.Empty(t, h.manager.Active())
	assert.Zero(t, h.manager.Pending())
}

func TestExpiryOfferedOnLiveSet(t *testing.T) {
	h := newHarness(t, sparkle.DefaultConfig())

	h.manager.OnProgressChange(10, false)
	h.manager.OnProgressChange(20, false)
	h.manager.OnProgressChange(30, false)

	// All three expire at the same instant; none may resurrect another.
	h.scheduler.Advance(600 * time.Millisecond)
	assert.Empty(t, h.manager.Active())
}

func TestRemoveIsIdempotent(t *testing.T) {
	h := newHarness(t, sparkle.DefaultConfig())

	event, _ := h.manager.OnProgressChange(42, false)
	changes := h.changes

	assert.True(t, h.manager.Remove(event.ID))
	assert.False(t, h.manager.Remove(event.ID))
	assert.False(t, h.manager.Remove("missing"))
	assert.Equal(t, changes+1, h.changes)

	h.scheduler.Advance(time.Second)
	assert.Empty(t, h.manager.Active())
	assert.Equal(t, changes+1, h.changes)
}

func TestPauseDoesNotCancelInFlightExpiry(t *testing.T) {
	h := newHarness(t, sparkle.DefaultConfig())

	h.manager.OnProgressChange(10, false)
	h.manager.OnProgressChange(11, true)

	assert.Equal(t, 1, h.manager.Len())
	h.scheduler.Advance(600 * time.Millisecond)
	assert.Zero(t, h.manager.Len())
}

func TestNonMonotonicProgressStillSpawns(t *testing.T) {
	h := newHarness(t, sparkle.DefaultConfig())

	h.manager.OnProgressChange(80, false)
	event, ok := h.manager.OnProgressChange(5, false)

	require.True(t, ok)
	assert.InDelta(t, -72, event.Angle, 1e-9)
}

func TestCloseCancelsPendingTimers(t *testing.T) {
	h := newHarness(t, sparkle.DefaultConfig())

	h.manager.OnProgressChange(10, false)
	h.manager.OnProgressChange(20, false)
	require.Equal(t, 2, h.scheduler.Pending())
	changes := h.changes

	h.manager.Close()
	h.manager.Close()

	assert.True(t, h.manager.Closed())
	assert.Zero(t, h.scheduler.Pending())
	assert.Zero(t, h.manager.Pending())

	h.scheduler.Advance(time.Second)
	assert.Equal(t, changes, h.changes)

	_, ok := h.manager.OnProgressChange(30, false)
	assert.False(t, ok)
}

func TestLateTimerAfterCloseIsIgnored(t *testing.T) {
	h := newHarness(t, sparkle.DefaultConfig())

	h.manager.OnProgressChange(10, false)
	timers := h.scheduler.Timers()
	require.Len(t, timers, 1)
	changes := h.changes

	h.manager.Close()
	timers[0].Invoke()

	assert.Equal(t, changes, h.changes)
	assert.Empty(t, h.manager.Active())
}

func TestConfigurableCapacityAndLifetime(t *testing.T) {
	h := newHarness(t, sparkle.Config{Lifetime: time.Second, Capacity: 5})

	for i := 1; i <= 7; i++ {
		h.manager.OnProgressChange(float64(i*10), false)
	}
	assert.Equal(t, []string{"s3", "s4", "s5", "s6", "s7"}, ids(h.manager.Active()))

	h.scheduler.Advance(999 * time.Millisecond)
	assert.Equal(t, 5, h.manager.Len())
	h.scheduler.Advance(time.Millisecond)
	assert.Zero(t, h.manager.Len())
}

func TestEventAge(t *testing.T) {
	event := sparkle.Event{CreatedAt: epoch, ExpiresAt: epoch.Add(600 * time.Millisecond)}

	assert.Equal(t, 0.0, event.Age(epoch.Add(-time.Second)))
	assert.InDelta(t, 0.5, event.Age(epoch.Add(300*time.Millisecond)), 1e-9)
	assert.Equal(t, 1.0, event.Age(epoch.Add(time.Minute)))
	assert.Equal(t, 1.0, sparkle.Event{}.Age(epoch))
}

func TestDefaultIDsAreUnique(t *testing.T) {
	manager := sparkle.New(sparkle.Config{Lifetime: time.Hour, Capacity: 64})
	defer manager.Close()

	seen := make(map[string]struct{})
	for i := 1; i <= 64; i++ {
		event, ok := manager.OnProgressChange(float64(i), false)
		require.True(t, ok)
		assert.Contains(t, event.ID, "sparkle-")
		_, dup := seen[event.ID]
		assert.False(t, dup, "duplicate id %s", event.ID)
		seen[event.ID] = struct{}{}
	}
}

func TestRealSchedulerExpiresConcurrently(t *testing.T) {
	var mu sync.Mutex
	changes := 0
	manager := sparkle.New(sparkle.Config{Lifetime: 20 * time.Millisecond, Capacity: 3},
		sparkle.WithOnChange(func() {
			mu.Lock()
			changes++
			mu.Unlock()
		}),
	)
	defer manager.Close()

	manager.OnProgressChange(10, false)
	manager.OnProgressChange(20, false)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return changes == 4
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, manager.Len())
}
