package suspendwatch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/suspendtime/suspendtime"
)

// Freezes the running clock while jumping the wall clock forward, as a
// suspend does, and expects the detector to report it.
func TestDetectorReportsSuspend(t *testing.T) {
	defer leaktest.Check(t)()

	restoreWall, restoreRunning := wallNow, runningNow
	restoreInterval, restoreThreshold := SampleInterval, DriftThreshold
	defer func() {
		wallNow, runningNow = restoreWall, restoreRunning
		SampleInterval, DriftThreshold = restoreInterval, restoreThreshold
	}()

	SampleInterval = 5 * time.Millisecond
	DriftThreshold = time.Second

	base := time.Now()
	var wallOffset atomic.Int64
	wallNow = func() time.Time { return base.Add(time.Duration(wallOffset.Load())) }
	frozen := suspendtime.Now()
	runningNow = func() suspendtime.Instant { return frozen }

	d, err := NewDetector()
	require.NoError(t, err)
	require.NoError(t, d.Register())
	defer func() {
		require.NoError(t, d.Deregister())
	}()

	// let at least one clean sample pass, then jump the wall clock by 10s
	time.Sleep(15 * time.Millisecond)
	wallOffset.Add(int64(10 * time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Listen(ctx))
}

func TestListenUnblocksOnDeregister(t *testing.T) {
	defer leaktest.Check(t)()

	d, err := NewDetector()
	require.NoError(t, err)
	require.NoError(t, d.Register())

	done := make(chan error, 1)
	go func() { done <- d.Listen(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, d.Deregister())

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Listen did not unblock")
	}
}

// Deregister must not hold the registry lock while waiting for the sampler
// to exit; the sampler needs the same lock to dispatch events, and the last
// Deregister landing mid-dispatch used to deadlock both sides.
func TestDeregisterDuringNotification(t *testing.T) {
	defer leaktest.Check(t)()

	restoreWall, restoreRunning := wallNow, runningNow
	restoreInterval, restoreThreshold := SampleInterval, DriftThreshold
	defer func() {
		wallNow, runningNow = restoreWall, restoreRunning
		SampleInterval, DriftThreshold = restoreInterval, restoreThreshold
	}()

	SampleInterval = time.Millisecond
	DriftThreshold = time.Second

	// every sample sees another 10s of wall time the frozen running clock
	// never saw, so the sampler dispatches an event on every tick
	base := time.Now()
	var calls atomic.Int64
	wallNow = func() time.Time {
		return base.Add(time.Duration(calls.Add(1)) * 10 * time.Second)
	}
	frozen := suspendtime.Now()
	runningNow = func() suspendtime.Instant { return frozen }

	d, err := NewDetector()
	require.NoError(t, err)
	require.NoError(t, d.Register())

	// let notifications pile up in flight
	time.Sleep(20 * time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- d.Deregister() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Deregister blocked against the sampler's event dispatch")
	}
}

func TestListenUnregistered(t *testing.T) {
	d, err := NewDetector()
	require.NoError(t, err)
	require.Error(t, d.Listen(context.Background()))
}

func TestRegisterTwice(t *testing.T) {
	d, err := NewDetector()
	require.NoError(t, err)
	require.NoError(t, d.Register())
	require.Error(t, d.Register())
	require.NoError(t, d.Deregister())
	require.NoError(t, d.Deregister()) // second deregister is a no-op
}

// Steady clocks with ordinary jitter must not produce events.
func TestDetectorQuietWithoutSuspend(t *testing.T) {
	defer leaktest.Check(t)()

	restoreInterval := SampleInterval
	defer func() { SampleInterval = restoreInterval }()
	SampleInterval = 5 * time.Millisecond

	d, err := NewDetector()
	require.NoError(t, err)
	require.NoError(t, d.Register())
	defer func() {
		require.NoError(t, d.Deregister())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, d.Listen(ctx), context.DeadlineExceeded)
}
