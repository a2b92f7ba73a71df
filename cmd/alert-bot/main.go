package main

import (
	"os"

	"github.com/bnema/alert-bot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
