//go:build darwin

package suspendtime

import "golang.org/x/sys/unix"

// CLOCK_UPTIME_RAW increments like CLOCK_MONOTONIC_RAW but does not advance
// while the system is asleep. Its value matches mach_absolute_time after the
// mach timebase conversion.
const suspendClockID = unix.CLOCK_UPTIME_RAW
