// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Prefix namespaces every environment variable read by questkit binaries.
const Prefix = "QUESTKIT_"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvWithLookup loads configuration using lookup instead of the process
// environment. A nil lookup falls back to ParseEnv.
func ParseEnvWithLookup(target any, lookup func(string) (string, bool)) error {
	if lookup == nil {
		return ParseEnv(target)
	}
	environment := map[string]string{}
	for _, key := range envKeys(target) {
		if value, ok := lookup(key); ok {
			environment[key] = value
		}
	}
	if err := env.ParseWithOptions(target, env.Options{Environment: environment}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func envKeys(target any) []string {
	keys := []string{}
	params, err := env.GetFieldParams(target)
	if err != nil {
		return keys
	}
	for _, param := range params {
		key := strings.TrimSpace(param.Key)
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
