// Package cmd holds the startup sequence shared by questkit binaries.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/questkit/internal/platform/otel"
	"github.com/louisbranch/questkit/internal/platform/timeouts"
)

// ServiceBuilder identifies the builder CLI in telemetry resources.
const ServiceBuilder = "questkit-builder"

// ParseArgs parses command-line flags. Nil args parse as empty.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry starts tracing for service, calls run, and flushes
// pending spans within timeouts.Shutdown once run returns.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	switch {
	case service == "":
		return errors.New("service name is required")
	case run == nil:
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer flush(service, shutdown)
	return run(ctx)
}

func flush(service string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Printf("%s: flush telemetry: %v", service, err)
	}
}
