package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/suspendtime/suspendtime/suspendwatch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "log a line every time the system suspends",
	Run: func(cmd *cobra.Command, args []string) {
		detector, err := suspendwatch.NewDetector()
		if err != nil {
			log.Errorf("failed creating suspend detector: %s", err)
			os.Exit(ExitSetupFailed)
		}
		if err := detector.Register(); err != nil {
			log.Errorf("failed registering suspend detector: %s", err)
			os.Exit(ExitSetupFailed)
		}
		defer func() {
			if err := detector.Deregister(); err != nil {
				log.Errorf("failed deregistering suspend detector: %s", err)
			}
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("watching for system suspends, press Ctrl+C to stop")
		for {
			if err := detector.Listen(ctx); err != nil {
				return
			}
			log.Warn("system was suspended")
		}
	},
}
