package main

import (
	"context"
	"fmt"
	"os"

	"github.com/philharmonia/harmony/internal/server"
	"github.com/philharmonia/harmony/internal/server/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	app, err := server.NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}

	return app.Run(ctx)
}
