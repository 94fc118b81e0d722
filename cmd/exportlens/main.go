package main

import (
	"os"

	"github.com/exportlens/backend/cmd/exportlens/commands"
)

// Unified CLI entry point: go run ./cmd/exportlens [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
