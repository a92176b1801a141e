package config

import (
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Search  SearchConfig
	Remote  RemoteConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port    int
	MCPPort int
}

type StorageConfig struct {
	DataDir string
}

type SearchConfig struct {
	CacheSize  int
	MinScore   float64
	MaxResults int
}

// RemoteConfig points at an optional AI search service. With an empty
// BaseURL every search runs locally.
type RemoteConfig struct {
	BaseURL string
	APIKey  string
	Timeout string
}

type LogConfig struct {
	Level string
}

// Enabled reports whether a remote search service is configured.
func (r RemoteConfig) Enabled() bool {
	return r.BaseURL != ""
}

// TimeoutDuration parses the configured timeout, falling back to 5s.
func (r RemoteConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(r.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:    4600,
			MCPPort: 4601,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Search: SearchConfig{
			CacheSize:  100,
			MinScore:   0.1,
			MaxResults: 50,
		},
		Remote: RemoteConfig{
			Timeout: "5s",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.alumnid.app) and the
// remote API key falls back to macOS Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/alumnid/config.json
// and secrets come from a secrets file or environment variables.
//
// Environment variables (ALUMNID_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts the platform secret store for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// The remote API key is optional; try the platform secret store last.
	if cfg.Remote.APIKey == "" {
		if key, err := kc.Get("alumnid", "remote_api_key"); err == nil && key != "" {
			cfg.Remote.APIKey = key
		}
	}

	return cfg, nil
}

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
