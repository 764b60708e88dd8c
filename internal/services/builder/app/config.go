package app

import (
	"fmt"
	"strings"

	"github.com/louisbranch/questkit/internal/platform/config"
)

// Key-value backends selectable through QUESTKIT_KV_BACKEND.
const (
	BackendBolt  = "bbolt"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds builder settings read from the environment.
type Config struct {
	RulesPath       string `env:"QUESTKIT_RULES_PATH"`
	StateKey        string `env:"QUESTKIT_STATE_KEY" envDefault:"dndBuilderState"`
	KVBackend       string `env:"QUESTKIT_KV_BACKEND" envDefault:"bbolt"`
	BoltPath        string `env:"QUESTKIT_BOLT_PATH" envDefault:"questkit.db"`
	RedisAddr       string `env:"QUESTKIT_REDIS_ADDR"`
	RedisDB         int    `env:"QUESTKIT_REDIS_DB" envDefault:"0"`
	SQLitePath      string `env:"QUESTKIT_SQLITE_PATH"`
	HistoryCapacity int    `env:"QUESTKIT_HISTORY_CAPACITY" envDefault:"50"`
	Locale          string `env:"QUESTKIT_LOCALE" envDefault:"en-US"`
}

// LoadConfig reads Config through lookup, or the process environment when
// lookup is nil.
func LoadConfig(lookup func(string) (string, bool)) (Config, error) {
	var cfg Config
	if err := config.ParseEnvWithLookup(&cfg, lookup); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the builder cannot run with.
func (c Config) Validate() error {
	switch c.backend() {
	case BackendBolt, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("unsupported kv backend %q", c.KVBackend)
	}
	if c.backend() == BackendRedis && strings.TrimSpace(c.RedisAddr) == "" {
		return fmt.Errorf("redis backend requires QUESTKIT_REDIS_ADDR")
	}
	if c.HistoryCapacity < 0 {
		return fmt.Errorf("history capacity must not be negative")
	}
	if strings.TrimSpace(c.StateKey) == "" {
		return fmt.Errorf("state key is required")
	}
	return nil
}

func (c Config) backend() string {
	return strings.ToLower(strings.TrimSpace(c.KVBackend))
}
