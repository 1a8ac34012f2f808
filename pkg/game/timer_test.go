package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleAfterPhaseGuard(t *testing.T) {
	r := newRoom("TIME")
	r.Phase = PhaseVote

	fired := false
	r.mu.Lock()
	r.scheduleAfter(5*time.Millisecond, PhaseVote, func() { fired = true })
	r.Phase = PhaseRoundEnd
	r.mu.Unlock()

	time.Sleep(30 * time.Millisecond)
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.False(t, fired, "a continuation must not fire once the phase has moved on")
}

func TestScheduleAfterCancellation(t *testing.T) {
	r := newRoom("TIME")
	r.Phase = PhaseVote

	fired := false
	r.mu.Lock()
	r.scheduleAfter(5*time.Millisecond, PhaseVote, func() { fired = true })
	r.cancelTimer()
	r.mu.Unlock()

	time.Sleep(30 * time.Millisecond)
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.False(t, fired)
}

func TestScheduleAfterFires(t *testing.T) {
	r := newRoom("TIME")
	r.Phase = PhaseVote

	fired := false
	r.mu.Lock()
	r.scheduleAfter(5*time.Millisecond, PhaseVote, func() { fired = true })
	r.mu.Unlock()

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return fired
	}, time.Second, 2*time.Millisecond)
}

func TestCancelTimerStopsCountdown(t *testing.T) {
	r := newRoom("TIME")

	ticks := 0
	r.mu.Lock()
	r.startCountdown(2*time.Millisecond, func() bool {
		ticks++
		return false
	})
	r.mu.Unlock()

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return ticks >= 1
	}, time.Second, 2*time.Millisecond)

	r.mu.Lock()
	r.cancelTimer()
	seen := ticks
	r.mu.Unlock()

	time.Sleep(30 * time.Millisecond)
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, seen, ticks, "a cancelled countdown must not keep ticking")
}

func TestStartCountdownReplacesPriorTimer(t *testing.T) {
	r := newRoom("TIME")

	firstTicks, secondTicks := 0, 0
	r.mu.Lock()
	r.startCountdown(2*time.Millisecond, func() bool {
		firstTicks++
		return false
	})
	r.startCountdown(2*time.Millisecond, func() bool {
		secondTicks++
		return false
	})
	r.mu.Unlock()

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return secondTicks >= 3
	}, time.Second, 2*time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, 0, firstTicks, "the replaced countdown must never tick")
	r.cancelTimer()
}

func TestCountdownConsumesOnTrue(t *testing.T) {
	r := newRoom("TIME")

	ticks := 0
	r.mu.Lock()
	r.startCountdown(2*time.Millisecond, func() bool {
		ticks++
		return ticks == 2
	})
	r.mu.Unlock()

	time.Sleep(50 * time.Millisecond)
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, 2, ticks)
	assert.Nil(t, r.timerCancel, "a consumed countdown clears its slot")
}
