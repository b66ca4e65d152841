package main

import (
	"os"

	"ptr89/cmd/ptr89/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
