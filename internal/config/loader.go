package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr               string   `json:"addr" yaml:"addr" toml:"addr"`
	APIHost            string   `json:"api_host" yaml:"api_host" toml:"api_host"`
	LogLevel           string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	StatusClearDelayMS int      `json:"status_clear_delay_ms" yaml:"status_clear_delay_ms" toml:"status_clear_delay_ms"`
	HTTPTimeoutSeconds int      `json:"http_timeout_seconds" yaml:"http_timeout_seconds" toml:"http_timeout_seconds"`
	MaxInflightEffects int      `json:"max_inflight_effects" yaml:"max_inflight_effects" toml:"max_inflight_effects"`
	EffectMaxWaitMS    int      `json:"effect_max_wait_ms" yaml:"effect_max_wait_ms" toml:"effect_max_wait_ms"`
	GithubClientID     string   `json:"github_client_id" yaml:"github_client_id" toml:"github_client_id"`
	OAuthRedirectURL   string   `json:"oauth_redirect_url" yaml:"oauth_redirect_url" toml:"oauth_redirect_url"`
	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins        []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml. A leading "~" in path is expanded.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := expandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
