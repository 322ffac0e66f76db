package network

import "fmt"

// Environment variables read by ResolveConfig.
const (
	EnvAPIURL  = "NULS_API_URL"
	EnvAPIUser = "NULS_API_USER"
	EnvAPIPass = "NULS_API_PASS"
)

// DefaultServer is the public API server of the main network.
const DefaultServer = "https://nuls.world"

// APIConfig holds the connection parameters for an API server.
type APIConfig struct {
	URL      string `json:"url"`
	User     string `json:"user"`
	Password string `json:"password"`
	Network  string `json:"network"`
}

// NetworkPresets contains default API configurations for known networks.
var NetworkPresets = map[string]APIConfig{
	"mainnet": {URL: DefaultServer},
	"local":   {URL: "http://localhost:8080"},
}

// ResolveConfig merges API configuration from three sources with decreasing priority:
//  1. CLI flags (highest priority)
//  2. Environment variables (NULS_API_URL, NULS_API_USER, NULS_API_PASS)
//  3. Network presets (lowest priority)
//
// Networks without a preset require an explicit URL.
func ResolveConfig(flags *APIConfig, env map[string]string, network string) (*APIConfig, error) {
	result := APIConfig{Network: network}

	if preset, ok := NetworkPresets[network]; ok {
		result = preset
		result.Network = network
	}

	if env != nil {
		if v, ok := env[EnvAPIURL]; ok && v != "" {
			result.URL = v
		}
		if v, ok := env[EnvAPIUser]; ok && v != "" {
			result.User = v
		}
		if v, ok := env[EnvAPIPass]; ok && v != "" {
			result.Password = v
		}
	}

	if flags != nil {
		if flags.URL != "" {
			result.URL = flags.URL
		}
		if flags.User != "" {
			result.User = flags.User
		}
		if flags.Password != "" {
			result.Password = flags.Password
		}
	}

	if result.URL == "" {
		return nil, fmt.Errorf("%w: %s requires an API URL (set --api, %s, or config file)",
			ErrMissingConfig, network, EnvAPIURL)
	}
	return &result, nil
}
