package main

import (
	"os"

	"github.com/halgrim/gauntlet/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
