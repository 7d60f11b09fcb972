package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/suspendtime/suspendtime"
)

var (
	driftInterval time.Duration

	driftCmd = &cobra.Command{
		Use:   "drift",
		Short: "print wall-clock elapsed time next to suspend-unaware elapsed time",
		Run: func(cmd *cobra.Command, args []string) {
			wall := time.Now()
			running := suspendtime.Now()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			ticker := time.NewTicker(driftInterval)
			defer ticker.Stop()

			log.Infof("sampling every %v, suspend the machine to see the clocks diverge", driftInterval)
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					// strip the monotonic reading so the left column is the
					// wall clock, suspensions included
					wallElapsed := time.Now().Round(0).Sub(wall.Round(0))
					runningElapsed := running.Elapsed()
					log.Infof("wall %v, running %v, suspended ~%v",
						wallElapsed.Round(time.Millisecond),
						runningElapsed.Round(time.Millisecond),
						(wallElapsed - runningElapsed).Round(time.Millisecond))
				}
			}
		},
	}
)

func init() {
	driftCmd.Flags().DurationVar(&driftInterval, "interval", time.Second, "sampling interval")
}
