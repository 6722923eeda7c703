package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTimer_TicksDownToZeroThenCompletesOnce(t *testing.T) {
	s := New()

	var mu sync.Mutex
	var ticks []int
	completions := 0
	done := make(chan struct{})

	s.StartTimer("room1", 3, func(remaining int) {
		mu.Lock()
		ticks = append(ticks, remaining)
		mu.Unlock()
	}, func() {
		mu.Lock()
		completions++
		mu.Unlock()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timer never completed")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{2, 1, 0}, ticks)
	assert.Equal(t, 1, completions)
}

func TestCancelTimer_SuppressesCompletion(t *testing.T) {
	s := New()
	completed := false
	s.StartTimer("room2", 2, func(int) {}, func() { completed = true })
	s.CancelTimer("room2")

	time.Sleep(2500 * time.Millisecond)
	assert.False(t, completed, "cancel must suppress the completion callback")
}

func TestStartTimer_ZeroDurationNeverFires(t *testing.T) {
	s := New()
	fired := false
	s.StartTimer("room3", 0, func(int) { fired = true }, func() { fired = true })
	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired)
}

func TestScheduleDelayed_RunsOnceAfterDelay(t *testing.T) {
	s := New()
	done := make(chan struct{})
	start := time.Now()
	s.ScheduleDelayed("room4", 50*time.Millisecond, func() { close(done) })

	select {
	case <-done:
		require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	case <-time.After(1 * time.Second):
		t.Fatal("delayed action never ran")
	}
}

func TestStartTimer_RestartingReplacesPriorTimer(t *testing.T) {
	s := New()
	var firstCompleted, secondCompleted bool

	s.StartTimer("room5", 10, func(int) {}, func() { firstCompleted = true })
	s.StartTimer("room5", 1, func(int) {}, func() { secondCompleted = true })

	time.Sleep(1500 * time.Millisecond)
	assert.False(t, firstCompleted, "the replaced timer must never complete")
	assert.True(t, secondCompleted, "the replacing timer must complete on its own schedule")
}
