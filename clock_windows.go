//go:build windows

package suspendtime

import (
	"math"
	"sync"
	"time"
	"unsafe"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

// Unbiased interrupt time is a count of 100ns intervals since boot that
// excludes intervals spent suspended or hibernating. The default
// QueryPerformanceCounter and QueryInterruptTime clocks keep counting through
// a suspend and must not be used here.
const interruptTick = 100 * time.Nanosecond

var (
	clockProbe    sync.Once
	procUnbiased  *windows.LazyProc
	procIsPrecise bool
)

func unbiasedProc() (*windows.LazyProc, bool) {
	clockProbe.Do(func() {
		kernel32 := windows.NewLazySystemDLL("kernel32.dll")
		p := kernel32.NewProc("QueryUnbiasedInterruptTimePrecise")
		precise := true
		if p.Find() != nil {
			// The precise variant appeared in Windows 10 1607; older builds
			// only ship the coarse one.
			p = kernel32.NewProc("QueryUnbiasedInterruptTime")
			precise = false
			if err := p.Find(); err != nil {
				log.Fatalf("kernel32 has no unbiased interrupt time source: %v", err)
			}
		}
		procUnbiased = p
		procIsPrecise = precise
	})
	return procUnbiased, procIsPrecise
}

// readClock returns the suspend-unaware time since boot.
func readClock() time.Duration {
	proc, precise := unbiasedProc()

	var ticks uint64
	ret, _, err := proc.Call(uintptr(unsafe.Pointer(&ticks)))
	// QueryUnbiasedInterruptTimePrecise has no return value; the coarse
	// variant reports failure with a zero return.
	if !precise && ret == 0 {
		log.Fatalf("QueryUnbiasedInterruptTime failed: %v", err)
	}
	if ticks > uint64(math.MaxInt64/interruptTick) {
		log.Fatalf("interrupt tick count %d overflows the nanosecond range", ticks)
	}
	return time.Duration(ticks) * interruptTick
}
