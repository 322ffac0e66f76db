package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkPresets(t *testing.T) {
	tests := []struct {
		name    string
		network string
		url     string
	}{
		{"mainnet defaults", "mainnet", DefaultServer},
		{"local defaults", "local", "http://localhost:8080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preset, ok := NetworkPresets[tt.network]
			require.True(t, ok, "preset should exist for %s", tt.network)
			assert.Equal(t, tt.url, preset.URL)
			assert.Empty(t, preset.User)
		})
	}
}

func TestResolveConfigFlagsOverrideAll(t *testing.T) {
	flags := &APIConfig{URL: "http://custom:9999", User: "me", Password: "secret"}
	env := map[string]string{EnvAPIURL: "http://env:1", EnvAPIUser: "envuser"}
	cfg, err := ResolveConfig(flags, env, "mainnet")
	require.NoError(t, err)
	assert.Equal(t, "http://custom:9999", cfg.URL)
	assert.Equal(t, "me", cfg.User)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "mainnet", cfg.Network)
}

func TestResolveConfigEnvOverridesPreset(t *testing.T) {
	env := map[string]string{
		EnvAPIURL:  "http://env-node:8080",
		EnvAPIUser: "envuser",
		EnvAPIPass: "",
	}
	cfg, err := ResolveConfig(nil, env, "local")
	require.NoError(t, err)
	assert.Equal(t, "http://env-node:8080", cfg.URL)
	assert.Equal(t, "envuser", cfg.User)
	assert.Empty(t, cfg.Password)
}

func TestResolveConfigPresetFallback(t *testing.T) {
	cfg, err := ResolveConfig(nil, nil, "mainnet")
	require.NoError(t, err)
	assert.Equal(t, DefaultServer, cfg.URL)
	assert.Equal(t, "mainnet", cfg.Network)
}

func TestResolveConfigUnknownNetworkRequiresExplicit(t *testing.T) {
	_, err := ResolveConfig(nil, nil, "devnet")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "devnet")

	cfg, err := ResolveConfig(&APIConfig{URL: "http://dev:1"}, nil, "devnet")
	require.NoError(t, err)
	assert.Equal(t, "http://dev:1", cfg.URL)
}

func TestResolveConfigPartialFlags(t *testing.T) {
	flags := &APIConfig{User: "only-user"}
	cfg, err := ResolveConfig(flags, nil, "local")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.URL) // from preset
	assert.Equal(t, "only-user", cfg.User)
}
