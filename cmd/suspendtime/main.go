package main

import (
	"os"

	"github.com/suspendtime/suspendtime/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
