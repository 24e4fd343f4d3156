package intake

import (
	"os"
	"time"

	"github.com/marmos91/triggerfish/internal/logger"
)

// EnvIntakeSecret is the name of the environment variable for the
// shared secret used to verify event signatures.
const EnvIntakeSecret = "TRIGGERFISH_INTAKE_SECRET"

// Config configures the event intake HTTP server.
//
// The intake server is the platform-facing listener: the storage
// gateway POSTs one event per client request and holds the client
// response open until the intake responds. It listens on its own port,
// separate from the admin API.
type Config struct {
	// Port is the HTTP port for the intake endpoints.
	// Default: 8081
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// Secret is the shared HMAC secret for event signatures.
	// Can also be set via TRIGGERFISH_INTAKE_SECRET environment variable.
	// Environment variable takes precedence over config file.
	Secret string `mapstructure:"secret" yaml:"secret"`

	// MaxBodyBytes caps the size of an event payload.
	// Default: 64 KiB
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`

	// ForwardTimeout bounds how long the client response may stay held
	// open while controllers run. When the chain has not forwarded
	// within it, the responder is force-released so client latency is
	// never coupled to handler work.
	// Default: 2s
	ForwardTimeout time.Duration `mapstructure:"forward_timeout" yaml:"forward_timeout"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 10s
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. This bounds the whole controller chain, so it defaults
	// higher than the admin API's write timeout.
	// Default: 60s
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Port <= 0 {
		c.Port = 8081
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 64 * 1024
	}
	if c.ForwardTimeout <= 0 {
		c.ForwardTimeout = 2 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
}

// GetSecret returns the intake secret, preferring the environment variable.
// Returns empty string if neither env var nor config secret is set.
func (c *Config) GetSecret() string {
	envSecret := os.Getenv(EnvIntakeSecret)
	if envSecret != "" {
		if c.Secret != "" && c.Secret != envSecret {
			logger.Warn("Intake secret from environment variable overrides config file value",
				"env_var", EnvIntakeSecret)
		}
		return envSecret
	}
	return c.Secret
}
