// Package suspendtime provides a monotonic clock that does not advance while
// the host system is suspended or hibernating, plus sleep and timeout
// primitives measured against it.
//
// Go's runtime clock is inconsistent here: on some platforms it keeps
// counting through a suspend, on others it stops. This package always
// excludes suspended intervals, on every supported platform, by reading the
// OS clock variant that is documented to do so (CLOCK_UPTIME_RAW on Darwin,
// CLOCK_MONOTONIC on Linux, the unbiased interrupt time on Windows).
package suspendtime

import "time"

// clockNow is the platform reading source, selected by build tags.
// Swapped in tests to simulate suspensions.
var clockNow = readClock

// Instant is an opaque point in time on the suspend-unaware clock, measured
// since an arbitrary process-local epoch. Instants are only comparable with
// other Instants produced by the same process; comparing across processes or
// process restarts is meaningless.
//
// Instant is a comparable value type and is safe for concurrent use.
type Instant struct {
	d time.Duration // non-negative
}

// Now returns the current reading of the suspend-unaware clock.
func Now() Instant {
	return Instant{d: clockNow()}
}

// Elapsed returns how much unsuspended time has passed since i, or zero if i
// is in the future.
func (i Instant) Elapsed() time.Duration {
	return Now().Sub(i)
}

// Sub returns the unsuspended time between i and an earlier instant. If
// earlier is actually later than i the result saturates to zero rather than
// going negative; use CheckedSub to detect that case.
func (i Instant) Sub(earlier Instant) time.Duration {
	if earlier.d > i.d {
		return 0
	}
	return i.d - earlier.d
}

// CheckedSub is like Sub but reports false instead of saturating when
// earlier is later than i.
func (i Instant) CheckedSub(earlier Instant) (time.Duration, bool) {
	if earlier.d > i.d {
		return 0, false
	}
	return i.d - earlier.d, true
}

// Add returns the instant d after i. A negative d moves backwards and
// saturates at the epoch. A result beyond the representable range floors to
// the epoch instant.
func (i Instant) Add(d time.Duration) Instant {
	s := i.d + d
	if d > 0 && s < i.d {
		return Instant{}
	}
	if s < 0 {
		return Instant{}
	}
	return Instant{d: s}
}

// Before reports whether i is earlier than u.
func (i Instant) Before(u Instant) bool { return i.d < u.d }

// After reports whether i is later than u.
func (i Instant) After(u Instant) bool { return i.d > u.d }

// Compare returns -1 if i is earlier than u, +1 if later and 0 if equal.
func (i Instant) Compare(u Instant) int {
	switch {
	case i.d < u.d:
		return -1
	case i.d > u.d:
		return 1
	}
	return 0
}
