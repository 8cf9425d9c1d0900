package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mzelenkov/claimlens/internal/cli"
)

func main() {
	// A missing .env is fine; keys can come from the real environment.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
