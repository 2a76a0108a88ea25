package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays config with the variables named in the struct tags.
// Unset variables leave the current values untouched.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(fmt.Errorf("parse env: %w", err))
	}
}
