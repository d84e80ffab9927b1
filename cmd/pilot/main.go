package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/bryanwahyu/profilepilot/internal/cli"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	// .env optional
	_ = godotenv.Load()

	if err := cli.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
