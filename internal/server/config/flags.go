package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/philharmonia/harmony/internal/flagx"
)

// parseFlags applies the server flags found in args.
//
//	-a string   HTTP listen address (e.g. ":8000")
//	-d string   database URL
//	-s string   secret key
//	-l string   log format: json, text or console
//	-m string   local media root
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-l", "-m"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "address and port to run server")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "database URL")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.StringVar(&cfg.LogFormat, "l", cfg.LogFormat, "log format")
	fs.StringVar(&cfg.MediaRoot, "m", cfg.MediaRoot, "local media root")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

// parseEnv overlays the non-empty environment variables onto cfg.
func parseEnv(cfg *Config) error {
	if err := flagx.ParseEnv(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
