//go:build darwin || linux

package suspendtime

import (
	"math"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

var clockProbe sync.Once

// readClock returns the suspend-unaware time since boot. The first call
// probes the clock id once; a failure means this system cannot provide a
// suspend-excluding clock, every later measurement would be meaningless, and
// the process terminates.
func readClock() time.Duration {
	clockProbe.Do(func() {
		var ts unix.Timespec
		if err := unix.ClockGettime(suspendClockID, &ts); err != nil {
			log.Fatalf("suspend-excluding clock (id %d) is unavailable: %v", suspendClockID, err)
		}
	})

	var ts unix.Timespec
	if err := unix.ClockGettime(suspendClockID, &ts); err != nil {
		log.Fatalf("clock_gettime(%d) failed: %v", suspendClockID, err)
	}

	sec, nsec := ts.Unix()
	// An uptime clock should never report negative or denormalized fields,
	// but the kernel interface does not forbid them. Clamp instead of letting
	// the clock appear to run backwards.
	if sec < 0 {
		sec = 0
	}
	if nsec < 0 || nsec >= int64(time.Second) {
		nsec = 0
	}
	if sec >= math.MaxInt64/int64(time.Second) {
		log.Fatalf("clock reading of %d seconds overflows the nanosecond range", sec)
	}
	return time.Duration(sec)*time.Second + time.Duration(nsec)
}
