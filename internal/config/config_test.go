package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadValid(t *testing.T) {
	cfg, err := Load("testdata/valid.toml", nil)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, 30, cfg.Server.ReloadConfigInterval)
	require.Len(t, cfg.Endpoints, 4)

	alpha := cfg.Endpoints["alpha"]
	require.Equal(t, "alpha", alpha.Name)
	require.Equal(t, CheckHTTP, alpha.Type)
	require.Equal(t, "GET", alpha.Method)
	require.Equal(t, 200, alpha.ExpectedStatus)
	require.Equal(t, 5, alpha.RetryDelay) // default applied

	zebra := cfg.Endpoints["zebra"]
	require.Equal(t, CheckHTTP, zebra.Type) // defaulted when type omitted

	dnsCheck := cfg.Endpoints["dns-check"]
	require.Equal(t, []string{"93.184.216.34"}, dnsCheck.ExpectedRecords)
}

func TestLoadTimeoutMustBeLessThanInterval(t *testing.T) {
	_, err := Load("testdata/timeout_too_large.toml", nil)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.toml", nil)
	require.Error(t, err)
}

func TestEndpointConfigEqual(t *testing.T) {
	a := EndpointConfig{Name: "x", Addr: "http://a", Tags: []string{"b", "a"}, Headers: nil}
	b := EndpointConfig{Name: "x", Addr: "http://a", Tags: []string{"a", "b"}, Headers: map[string]string{}}
	require.True(t, a.Equal(b), "nil vs empty map, and reordered tags, must compare equal")

	c := b
	c.Addr = "http://different"
	require.False(t, a.Equal(c))
}
