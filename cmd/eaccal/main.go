package main

import (
	"os"

	"eaccal/internal/cli"
	appLog "eaccal/internal/log"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		appLog.Error("eaccal failed", err)
		os.Exit(1)
	}
}
