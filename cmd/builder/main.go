// Package main runs the character builder CLI.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	buildercmd "github.com/louisbranch/questkit/internal/cmd/builder"
	"github.com/louisbranch/questkit/internal/platform/config"
)

func main() {
	cfg, err := buildercmd.ParseConfig(flag.CommandLine, os.Args[1:], os.LookupEnv)
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[BUILDER] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = buildercmd.Run(ctx, cfg, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		config.Exit(buildercmd.ExitCode(err), buildercmd.Describe(err, cfg.App.Locale))
	}
}
