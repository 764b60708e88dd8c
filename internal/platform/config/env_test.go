package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Capacity int    `env:"QUESTKIT_TEST_CAPACITY" envDefault:"50"`
	Backend  string `env:"QUESTKIT_TEST_BACKEND" envDefault:"bbolt"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Capacity != 50 {
		t.Fatalf("expected default capacity 50, got %d", cfg.Capacity)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("QUESTKIT_TEST_CAPACITY", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithLookupUsesLookupOnly(t *testing.T) {
	t.Setenv("QUESTKIT_TEST_BACKEND", "redis")
	lookup := func(key string) (string, bool) {
		if key == "QUESTKIT_TEST_CAPACITY" {
			return "7", true
		}
		return "", false
	}

	var cfg envTestConfig
	if err := ParseEnvWithLookup(&cfg, lookup); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Capacity != 7 {
		t.Fatalf("capacity = %d, want 7", cfg.Capacity)
	}
	if cfg.Backend != "bbolt" {
		t.Fatalf("backend = %q, want default bbolt", cfg.Backend)
	}
}
