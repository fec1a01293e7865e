package main

import (
	"os"

	"wirechat/cmd/wirechat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
