package game

import "time"

// Each room owns at most one active timer: either a ticking countdown or a
// one-shot deferred continuation. Starting either cancels whatever was
// scheduled before, and every callback re-checks its generation (and, for
// continuations, the phase that scheduled it) under the room lock before
// touching the room, so a stale fire after a reset or a new round is a no-op.

// cancelTimer invalidates and stops any scheduled timer. Callers hold r.mu.
func (r *Room) cancelTimer() {
	r.timerGen++
	if r.timerCancel != nil {
		r.timerCancel()
		r.timerCancel = nil
	}
}

// startCountdown ticks onTick at the engine's tick interval until it returns
// true (consumed) or the timer is replaced. onTick runs under r.mu and may
// start a replacement timer itself. Callers hold r.mu.
func (r *Room) startCountdown(interval time.Duration, onTick func() bool) {
	r.cancelTimer()
	gen := r.timerGen

	ticker := time.NewTicker(interval)
	stop := make(chan struct{})
	r.timerCancel = func() {
		ticker.Stop()
		close(stop)
	}

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				r.mu.Lock()
				if r.closed || gen != r.timerGen {
					r.mu.Unlock()
					return
				}
				if onTick() {
					// onTick may have scheduled a successor; only clear
					// the slot if it is still ours.
					if gen == r.timerGen {
						r.timerGen++
						r.timerCancel = nil
					}
					r.mu.Unlock()
					return
				}
				r.mu.Unlock()
			}
		}
	}()
}

// scheduleAfter runs fn after d, provided the room still exists and is still
// in the phase that scheduled it. fn runs under r.mu. Values needed by fn
// must be captured at schedule time. Callers hold r.mu.
func (r *Room) scheduleAfter(d time.Duration, expected Phase, fn func()) {
	r.cancelTimer()
	gen := r.timerGen

	timer := time.AfterFunc(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed || gen != r.timerGen || r.Phase != expected {
			return
		}
		r.timerGen++
		r.timerCancel = nil
		fn()
	})
	r.timerCancel = func() {
		timer.Stop()
	}
}
