package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/jroosing/forge/internal/envsubst"
)

const (
	defaultServerAddr          = ":8080"
	defaultReloadInterval      = 60
	defaultInterval            = 60
	defaultTimeout             = 10
	defaultExpectedStatus      = 200
	defaultMethod              = "GET"
	defaultRetryDelay          = 5
	defaultAlertAfterFailures  = 3
)

// Load reads and validates the configuration file at path. It returns a
// validation error (aborting the load) if any required invariant is
// violated; warnings are logged through logger and do not abort.
func Load(path string, logger *slog.Logger) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:                 defaultServerAddr,
			ReloadConfigInterval: defaultReloadInterval,
		},
		Endpoints: map[string]EndpointConfig{},
	}

	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.reload_config_interval") {
		cfg.Server.ReloadConfigInterval = v.GetInt("server.reload_config_interval")
	}

	rawEndpoints, _ := v.Get("endpoints").(map[string]interface{})
	for name, rawAny := range rawEndpoints {
		raw, ok := rawAny.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("endpoints.%s: expected a table", name)
		}
		ep, err := decodeEndpoint(name, raw)
		if err != nil {
			return nil, fmt.Errorf("endpoints.%s: %w", name, err)
		}
		cfg.Endpoints[name] = *ep
	}

	if err := validate(cfg, logger); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decodeEndpoint(name string, raw map[string]interface{}) (*EndpointConfig, error) {
	ep := &EndpointConfig{
		Name:               name,
		Type:               CheckHTTP,
		Interval:           defaultInterval,
		Timeout:            defaultTimeout,
		ExpectedStatus:     defaultExpectedStatus,
		Method:             defaultMethod,
		RetryDelay:         defaultRetryDelay,
		AlertAfterFailures: defaultAlertAfterFailures,
		Headers:            map[string]string{},
	}

	if s, ok := raw["addr"].(string); ok {
		ep.Addr = s
	}
	if s, ok := raw["type"].(string); ok && s != "" {
		ep.Type = CheckType(strings.ToLower(s))
	}
	if s, ok := raw["description"].(string); ok {
		ep.Description = s
	}
	if s, ok := raw["group"].(string); ok {
		ep.Group = s
	}
	if v, ok := raw["tags"]; ok {
		ep.Tags = toStringSlice(v)
	}
	if v, ok := raw["interval"]; ok {
		ep.Interval = toInt(v, ep.Interval)
	}
	if v, ok := raw["timeout"]; ok {
		ep.Timeout = toInt(v, ep.Timeout)
	}
	if v, ok := raw["expected_status"]; ok {
		ep.ExpectedStatus = toInt(v, ep.ExpectedStatus)
	}
	if v, ok := raw["skip_tls_verification"].(bool); ok {
		ep.SkipTLSVerification = v
	}
	if s, ok := raw["method"].(string); ok && s != "" {
		ep.Method = strings.ToUpper(s)
	}
	if v, ok := raw["headers"]; ok {
		ep.Headers = toStringMap(v)
	}
	if s, ok := raw["body"].(string); ok {
		ep.Body = s
	}
	if v, ok := raw["retries"]; ok {
		ep.Retries = toInt(v, ep.Retries)
	}
	if v, ok := raw["retry_delay"]; ok {
		ep.RetryDelay = toInt(v, ep.RetryDelay)
	}
	if v, ok := raw["alert_after_failures"]; ok {
		ep.AlertAfterFailures = toInt(v, ep.AlertAfterFailures)
	}
	if v, ok := raw["alert_channels"]; ok {
		ep.AlertChannels = toStringSlice(v)
	}
	if v, ok := raw["expected_records"]; ok {
		ep.ExpectedRecords = toStringSlice(v)
	}

	switch ep.Type {
	case CheckHTTP, CheckTCP, CheckDNS:
	default:
		return nil, fmt.Errorf("unknown type %q", ep.Type)
	}

	return ep, nil
}

// validate enforces the invariants of §6. Errors abort the load;
// warnings are logged and do not.
func validate(cfg *Config, logger *slog.Logger) error {
	for name, ep := range cfg.Endpoints {
		if !(ep.Timeout < ep.Interval) {
			return fmt.Errorf("endpoint %q: timeout (%d) must be less than interval (%d)", name, ep.Timeout, ep.Interval)
		}

		switch ep.Type {
		case CheckHTTP:
			resolved := envsubst.Expand(ep.Addr, logger)
			if _, err := url.ParseRequestURI(resolved); err != nil {
				return fmt.Errorf("endpoint %q: addr %q does not parse as a URL: %w", name, resolved, err)
			}
		case CheckTCP:
			addr := strings.TrimPrefix(ep.Addr, "tcp://")
			if !strings.Contains(addr, ":") {
				return fmt.Errorf("endpoint %q: tcp addr %q must contain a port (host:port)", name, ep.Addr)
			}
		case CheckDNS:
			addr := strings.TrimPrefix(ep.Addr, "dns://")
			if strings.Contains(addr, "://") {
				return fmt.Errorf("endpoint %q: dns addr %q must not contain a scheme", name, ep.Addr)
			}
		}

		if ep.Interval < 10 {
			if logger != nil {
				logger.Warn("endpoint interval below recommended minimum", "endpoint", name, "interval", ep.Interval)
			}
		}
		if ep.Retries > 0 && ep.RetryDelay == 0 {
			if logger != nil {
				logger.Warn("endpoint has retries but no retry_delay", "endpoint", name, "retries", ep.Retries)
			}
		}
	}
	return nil
}

func toStringSlice(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func toStringMap(v interface{}) map[string]string {
	out := map[string]string{}
	switch vv := v.(type) {
	case map[string]string:
		for k, val := range vv {
			out[k] = val
		}
	case map[string]interface{}:
		for k, val := range vv {
			if s, ok := val.(string); ok {
				out[k] = s
			}
		}
	}
	return out
}

func toInt(v interface{}, fallback int) int {
	switch vv := v.(type) {
	case int:
		return vv
	case int64:
		return int(vv)
	case float64:
		return int(vv)
	default:
		return fallback
	}
}
