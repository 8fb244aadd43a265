package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults used by WithDefaults.
const (
	DefaultAddr               = ":8090"
	DefaultAPIHost            = "http://localhost:8080"
	DefaultLogLevel           = "info"
	DefaultStatusClearDelayMS = 1000
	DefaultHTTPTimeoutSeconds = 30
)

// WithDefaults returns c with unspecified fields filled in. Effect admission
// limits stay zero so the effect registry applies its own defaults.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.APIHost == "" {
		c.APIHost = DefaultAPIHost
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.StatusClearDelayMS <= 0 {
		c.StatusClearDelayMS = DefaultStatusClearDelayMS
	}
	if c.HTTPTimeoutSeconds <= 0 {
		c.HTTPTimeoutSeconds = DefaultHTTPTimeoutSeconds
	}
	return c
}

// StatusClearDelay is StatusClearDelayMS as a duration.
func (c Config) StatusClearDelay() time.Duration {
	return time.Duration(c.StatusClearDelayMS) * time.Millisecond
}

// HTTPTimeout is HTTPTimeoutSeconds as a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// EffectMaxWait is EffectMaxWaitMS as a duration.
func (c Config) EffectMaxWait() time.Duration {
	return time.Duration(c.EffectMaxWaitMS) * time.Millisecond
}

// EnvPrefix prefixes every environment override.
const EnvPrefix = "OPINIO_"

// ApplyEnv overrides fields from OPINIO_* environment variables, e.g.
// OPINIO_API_HOST or OPINIO_CORS_ORIGINS (comma separated).
func (c Config) ApplyEnv() (Config, error) {
	return c.applyEnv(os.LookupEnv)
}

func (c Config) applyEnv(lookup func(string) (string, bool)) (Config, error) {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	var errs []string
	num := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s%s: %v", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}

	str("ADDR", &c.Addr)
	str("API_HOST", &c.APIHost)
	str("LOG_LEVEL", &c.LogLevel)
	str("GITHUB_CLIENT_ID", &c.GithubClientID)
	str("OAUTH_REDIRECT_URL", &c.OAuthRedirectURL)
	num("STATUS_CLEAR_DELAY_MS", &c.StatusClearDelayMS)
	num("HTTP_TIMEOUT_SECONDS", &c.HTTPTimeoutSeconds)
	num("MAX_INFLIGHT_EFFECTS", &c.MaxInflightEffects)
	num("EFFECT_MAX_WAIT_MS", &c.EffectMaxWaitMS)
	if v, ok := lookup(EnvPrefix + "CORS_ENABLED"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%sCORS_ENABLED: %v", EnvPrefix, err))
		} else {
			c.CORSEnabled = b
		}
	}
	if v, ok := lookup(EnvPrefix + "CORS_ORIGINS"); ok {
		c.CORSOrigins = splitList(v)
	}
	if len(errs) > 0 {
		return c, fmt.Errorf("config env: %s", strings.Join(errs, "; "))
	}
	return c, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
