//go:build linux

package suspendtime

import "golang.org/x/sys/unix"

// CLOCK_MONOTONIC stops while the system is suspended. CLOCK_BOOTTIME is the
// variant that keeps counting through a suspend and must not be used here.
const suspendClockID = unix.CLOCK_MONOTONIC
