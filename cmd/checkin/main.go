package main

import (
	"context"
	"fmt"
	"os"

	"uniform-tracker-api/config"
)

func main() {
	cfg := config.LoadConfig()

	if err := run(context.Background(), cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
