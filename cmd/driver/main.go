package main

import (
	"os"

	"github.com/marcovc/services/cmd/driver/commands"
)

// main is the entry point for the driver CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/driver [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
