package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/philharmonia/harmony/internal/uploader"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := uploader.LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	app, err := uploader.NewApp(cfg)
	if err != nil {
		return err
	}

	_, err = app.Run(ctx)
	return err
}
