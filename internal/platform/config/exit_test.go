package config

import (
	"bytes"
	"testing"
)

func captureExit(t *testing.T) (*bytes.Buffer, *int) {
	t.Helper()
	var out bytes.Buffer
	code := -1
	prevStderr, prevExit := stderr, exit
	stderr = &out
	exit = func(c int) { code = c }
	t.Cleanup(func() {
		stderr, exit = prevStderr, prevExit
	})
	return &out, &code
}

func TestExit(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		wantCode int
	}{
		{name: "keeps code", code: 3, wantCode: 3},
		{name: "raises zero", code: 0, wantCode: 1},
		{name: "raises negative", code: -4, wantCode: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code := captureExit(t)
			Exit(tt.code, "no snapshot stored")
			if *code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d", *code, tt.wantCode)
			}
			if got := out.String(); got != "no snapshot stored\n" {
				t.Fatalf("stderr = %q, want message line", got)
			}
		})
	}
}

func TestExitf(t *testing.T) {
	out, code := captureExit(t)
	Exitf("parse flags: %s", "unknown command")
	if *code != 1 {
		t.Fatalf("exit code = %d, want 1", *code)
	}
	if got := out.String(); got != "parse flags: unknown command\n" {
		t.Fatalf("stderr = %q", got)
	}
}
