package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept strings such as "1h" or integer nanoseconds. Only keys present in
// the file override the current values.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	SecretKeyID                 *string         `json:"secret_key_id"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  *int            `json:"bcrypt_cost"`
	PageSize                    *int            `json:"page_size"`
	LogLevel                    *string         `json:"log_level"`
	LogFormat                   *string         `json:"log_format"`
	ShutdownTimeout             *timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays config with the JSON file given by -c/-config in
// args. Without the flag nothing is loaded; an unreadable or invalid file
// panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.SecretKeyID, c.SecretKeyID)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.PageSize, c.PageSize)
	setIf(&config.LogLevel, c.LogLevel)
	setIf(&config.LogFormat, c.LogFormat)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
