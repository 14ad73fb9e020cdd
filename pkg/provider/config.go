package provider

import (
	"time"

	"github.com/joeshaw/envdecode"
)

const defaultBaseURL = "https://dynamic-form-generator-9rl7.onrender.com"

// Config for the schema/identity provider client. Defaults can be loaded via
// envdecode.
type Config struct {
	// BaseURL of the provider. ENV: FORMFLOW_PROVIDER_URL
	BaseURL string `env:"FORMFLOW_PROVIDER_URL,default=https://dynamic-form-generator-9rl7.onrender.com"`
	// RequestTimeout bounds each request. ENV: FORMFLOW_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"FORMFLOW_REQUEST_TIMEOUT,default=15s"`
}

// ConfigFromEnv populates a Config using envdecode; defaults come from the
// struct tags.
func ConfigFromEnv() Config {
	var cfg Config
	_ = envdecode.Decode(&cfg)
	return cfg
}
