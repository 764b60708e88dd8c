package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

func TestParseArgs(t *testing.T) {
	fs := flag.NewFlagSet("builder", flag.ContinueOnError)
	rules := fs.String("rules", "", "rules path")
	if err := ParseArgs(fs, []string{"-rules", "srd.yaml", "derive"}); err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if *rules != "srd.yaml" {
		t.Fatalf("rules = %q, want srd.yaml", *rules)
	}
	if got := fs.Arg(0); got != "derive" {
		t.Fatalf("arg = %q, want derive", got)
	}
}

func TestParseArgsNil(t *testing.T) {
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected nil parser error")
	}
	fs := flag.NewFlagSet("builder", flag.ContinueOnError)
	if err := ParseArgs(fs, nil); err != nil {
		t.Fatalf("parse nil args: %v", err)
	}
	if fs.NArg() != 0 {
		t.Fatalf("args = %v, want none", fs.Args())
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	noop := func(context.Context) error { return nil }
	if err := RunWithTelemetry(context.Background(), " ", noop); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceBuilder, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryPassesContextAndError(t *testing.T) {
	t.Setenv("QUESTKIT_OTEL_ENDPOINT", "")
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "marker")
	want := errors.New("boom")
	err := RunWithTelemetry(ctx, ServiceBuilder, func(got context.Context) error {
		if got.Value(key{}) != "marker" {
			t.Fatal("run received a different context")
		}
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}
