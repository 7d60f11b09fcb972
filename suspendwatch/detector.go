// Package suspendwatch reports system suspend events without hooking into
// platform power management. A shared sampling loop compares wall-clock
// progress against the suspend-unaware clock; wall time that the
// suspend-unaware clock never saw means the host was asleep.
package suspendwatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/suspendtime/suspendtime"
)

var (
	// SampleInterval is how often the sampler compares the two clocks.
	// Changing it only affects samplers started afterwards.
	SampleInterval = time.Second

	// DriftThreshold is the minimum wall-vs-running drift within one sample
	// that is reported as a suspend. It must comfortably exceed scheduler
	// jitter on a loaded machine.
	DriftThreshold = 2 * time.Second

	registry   = make(map[*Detector]struct{})
	registryMu sync.Mutex

	samplerCancel context.CancelFunc
	samplerDone   chan struct{}

	// clock seams for tests
	wallNow    = time.Now
	runningNow = suspendtime.Now
)

// Detector delivers a notification for every detected system suspend.
// Register it to start receiving events and Deregister it when done; the
// sampling loop is shared by all registered detectors and runs only while at
// least one is registered.
type Detector struct {
	events chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func NewDetector() (*Detector, error) {
	return &Detector{}, nil
}

// Register adds the detector to the shared registry. The first registration
// starts the sampling loop.
func (d *Detector) Register() error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[d]; exists {
		return fmt.Errorf("detector already registered")
	}

	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.events = make(chan struct{}, 1)
	registry[d] = struct{}{}

	if len(registry) > 1 {
		return nil
	}

	var ctx context.Context
	ctx, samplerCancel = context.WithCancel(context.Background())
	samplerDone = make(chan struct{})
	go sample(ctx, samplerDone, SampleInterval, DriftThreshold)

	log.Info("suspend detection sampler started")
	return nil
}

// Deregister removes the detector. When the last detector is removed the
// sampling loop is stopped and reaped.
func (d *Detector) Deregister() error {
	registryMu.Lock()

	if _, exists := registry[d]; !exists {
		registryMu.Unlock()
		return nil // nothing to do
	}

	d.cancel()
	delete(registry, d)

	if len(registry) > 0 {
		registryMu.Unlock()
		return nil
	}

	cancel, done := samplerCancel, samplerDone
	samplerCancel, samplerDone = nil, nil

	// The sampler takes registryMu to dispatch events, so the lock must not
	// be held while waiting for it to exit.
	registryMu.Unlock()

	cancel()
	<-done
	log.Info("suspend detection sampler stopped")
	return nil
}

// Listen blocks until a suspend is detected, ctx is done, or the detector is
// deregistered. The detector must be registered first.
func (d *Detector) Listen(ctx context.Context) error {
	if d.ctx == nil {
		return fmt.Errorf("detector is not registered")
	}
	select {
	case <-d.ctx.Done():
		return d.ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	case <-d.events:
		return nil
	}
}

func (d *Detector) notify() {
	select {
	case d.events <- struct{}{}:
	case <-d.ctx.Done():
	default:
	}
}

func sample(ctx context.Context, done chan struct{}, interval, threshold time.Duration) {
	defer close(done)

	wall := wallNow()
	running := runningNow()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// Round(0) strips the monotonic reading so the comparison uses the
		// wall clock; Go's own monotonic clock may itself stop during a
		// suspend, which is exactly the signal being measured against.
		wallElapsed := wallNow().Round(0).Sub(wall.Round(0))
		runningElapsed := runningNow().Sub(running)
		wall = wallNow()
		running = runningNow()

		drift := wallElapsed - runningElapsed
		if drift < threshold {
			continue
		}

		log.Infof("system suspend detected: %v of wall time never reached the running clock", drift)
		registryMu.Lock()
		for d := range registry {
			d.notify()
		}
		registryMu.Unlock()
	}
}
