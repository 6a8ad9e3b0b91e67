package runtimeconfig

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable read by LoadFromEnv.
const EnvPrefix = "SITECMS_"

// LoadFromEnv starts from DefaultConfig and overrides any field whose
// SITECMS_* variable is set. A nil environ reads the process environment.
func LoadFromEnv(environ map[string]string) (Config, error) {
	cfg := DefaultConfig()
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("sitecms config: parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}
