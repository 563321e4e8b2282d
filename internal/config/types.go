// Package config loads and validates forge's declarative endpoint
// configuration (forge.toml by convention) using Viper, the way
// HydraDNS's internal/config package loads its own YAML configuration.
package config

// CheckType identifies which probe primitive an endpoint is checked with.
type CheckType string

const (
	CheckHTTP CheckType = "http"
	CheckTCP  CheckType = "tcp"
	CheckDNS  CheckType = "dns"
)

// ServerConfig contains the dashboard/reload-loop settings.
type ServerConfig struct {
	Addr                  string `mapstructure:"addr"`
	ReloadConfigInterval  int    `mapstructure:"reload_config_interval"`
}

// EndpointConfig is the endpoint descriptor: the unit the supervisor
// reconciles against. Name is the stable identity across reloads; it is
// populated from the `endpoints.<NAME>` table key, not from a TOML field.
type EndpointConfig struct {
	Name string `mapstructure:"-"`

	Addr                 string            `mapstructure:"addr"`
	Type                 CheckType         `mapstructure:"type"`
	Description          string            `mapstructure:"description"`
	Group                string            `mapstructure:"group"`
	Tags                 []string          `mapstructure:"tags"`
	Interval             int               `mapstructure:"interval"`
	Timeout              int               `mapstructure:"timeout"`
	ExpectedStatus       int               `mapstructure:"expected_status"`
	SkipTLSVerification  bool              `mapstructure:"skip_tls_verification"`
	Method               string            `mapstructure:"method"`
	Headers              map[string]string `mapstructure:"headers"`
	Body                 string            `mapstructure:"body"`
	Retries              int               `mapstructure:"retries"`
	RetryDelay           int               `mapstructure:"retry_delay"`
	AlertAfterFailures   int               `mapstructure:"alert_after_failures"`
	AlertChannels        []string          `mapstructure:"alert_channels"`
	ExpectedRecords      []string          `mapstructure:"expected_records"`
}

// Config is the fully parsed, validated configuration.
type Config struct {
	Server    ServerConfig
	Endpoints map[string]EndpointConfig
}
