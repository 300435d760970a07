package main

import (
	"os"

	"github.com/rcliao/recall/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
