package main

import (
	"os"

	"taskPlanner/internal/cli"
)

func main() {
	cmd := cli.NewServeCommand()
	cmd.Use = "api"

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
