package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	ExitSetupFailed = 1
)

var (
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "suspendtime",
		Short: "suspend-unaware clock utilities",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			InitLog(logLevel)
		},
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "sets the logging level")
	rootCmd.AddCommand(driftCmd)
	rootCmd.AddCommand(watchCmd)
}

// InitLog parses and sets log-level input
func InitLog(logLevel string) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Errorf("failed parsing log-level %s: %s", logLevel, err)
		os.Exit(ExitSetupFailed)
	}
	log.SetLevel(level)
}
