// Package config holds the settings of the taskkeeper command-line client.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the taskkeeper CLI.
//
// Fields:
//   - ServerURL: base URL of the taskkeeper REST API.
//   - RequestTimeout: upper bound for a single API call.
type Config struct {
	ServerURL      string        `env:"TASKKEEPER_SERVER_URL"`
	RequestTimeout time.Duration `env:"TASKKEEPER_REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()

	args := os.Args[1:]
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
