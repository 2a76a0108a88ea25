package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config with TASKKEEPER_* variables that are set.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
