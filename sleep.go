package suspendtime

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrTimedOut is returned by Timeout when the deadline elapses before the
// wrapped operation completes.
var ErrTimedOut = errors.New("operation timed out")

// newWaitTimer arms the runtime's native timer and returns its channel and a
// stop function. Swapped in tests to model a scheduler clock that counts
// suspended time as elapsed.
var newWaitTimer = func(d time.Duration) (<-chan time.Time, func() bool) {
	t := time.NewTimer(d)
	return t.C, t.Stop
}

// Sleep blocks the calling goroutine until d of suspend-unaware time has
// elapsed, or until ctx is done, whichever comes first.
//
// The runtime's own timers may measure a suspension as elapsed time, so a
// single native timer cannot be trusted with the full duration. Sleep treats
// it as a coarse alarm: each time it fires, the suspend-unaware clock decides
// whether the wait is really over, and the timer is re-armed with the
// remaining duration if not. Each iteration blocks, it never spins.
//
// A non-positive d returns immediately without arming a timer. So does a d
// large enough to push the deadline past the clock's nanosecond range (about
// 292 years past the epoch): the target floors to the epoch, matching the
// Instant arithmetic rules.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	start := Now()
	target := start.Add(d)
	for armed := 0; ; armed++ {
		remaining := target.Sub(Now())
		if remaining == 0 {
			return nil
		}
		if armed > 0 {
			log.Tracef("native wait under-slept, re-arming for %v of %v", remaining, d)
		}

		c, stop := newWaitTimer(remaining)
		select {
		case <-ctx.Done():
			stop()
			return ctx.Err()
		case <-c:
		}
	}
}

// Timeout runs op and races it against a suspend-corrected deadline of d.
//
// If op finishes first, its result is returned and the pending native wait is
// stopped. If d of suspend-unaware time elapses first, op's context is
// cancelled, its result is discarded and ErrTimedOut is returned. If ctx is
// done first, both sides are cancelled and ctx's error is returned.
//
// Timeout does not return until the op goroutine has exited, so no timer or
// task outlives the call. op must honor cancellation of the context passed
// to it.
func Timeout[T any](ctx context.Context, d time.Duration, op func(context.Context) (T, error)) (T, error) {
	opCtx, cancelOp := context.WithCancel(ctx)
	defer cancelOp()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := op(opCtx)
		done <- result{v: v, err: err}
	}()

	sleepCtx, stopSleep := context.WithCancel(ctx)
	defer stopSleep()
	expired := make(chan error, 1)
	go func() {
		expired <- Sleep(sleepCtx, d)
	}()

	select {
	case r := <-done:
		stopSleep()
		<-expired
		return r.v, r.err
	case err := <-expired:
		cancelOp()
		<-done
		var zero T
		if err != nil {
			return zero, err
		}
		return zero, ErrTimedOut
	}
}
