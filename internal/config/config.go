package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override the file
const (
	EnvEndpoint         = "CLEENG_ENDPOINT"
	EnvPublisherToken   = "CLEENG_PUBLISHER_TOKEN"
	EnvDistributorToken = "CLEENG_DISTRIBUTOR_TOKEN"
	EnvCustomerToken    = "CLEENG_CUSTOMER_TOKEN"
	EnvLogLevel         = "CLEENG_LOG_LEVEL"
	EnvSandbox          = "CLEENG_SANDBOX"
)

// LoadEnv loads .env files into the process environment. Missing files
// are skipped and variables already set are kept.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// Load reads and parses the configuration file, then applies the
// environment overrides. An empty path means defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides file values with set, non-empty variables
func applyEnv(cfg *Config) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{EnvEndpoint, &cfg.Endpoint},
		{EnvPublisherToken, &cfg.PublisherToken},
		{EnvDistributorToken, &cfg.DistributorToken},
		{EnvCustomerToken, &cfg.CustomerToken},
		{EnvLogLevel, &cfg.LogLevel},
	}
	for _, s := range strs {
		if v := os.Getenv(s.name); v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv(EnvSandbox); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %q", EnvSandbox, v)
		}
		cfg.Sandbox = b
	}
	return nil
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Transport == "" {
		cfg.Transport = DefaultTransport
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Cache != nil {
		if cfg.Cache.TTL == 0 {
			cfg.Cache.TTL = DefaultCacheTTL
		}
		if cfg.Cache.Size == 0 {
			cfg.Cache.Size = DefaultCacheSize
		}
	}
	if cfg.Breaker != nil {
		if cfg.Breaker.FailureThreshold == 0 {
			cfg.Breaker.FailureThreshold = DefaultFailureThreshold
		}
		if cfg.Breaker.RecoveryTimeout == 0 {
			cfg.Breaker.RecoveryTimeout = DefaultRecoveryTimeout
		}
		if cfg.Breaker.HalfOpenMaxRequests == 0 {
			cfg.Breaker.HalfOpenMaxRequests = DefaultHalfOpenMaxRequests
		}
	}
	if cfg.RateLimit != nil && cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 1
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("logLevel must be one of: debug, info, warn, error")
	}

	switch cfg.Transport {
	case TransportHTTP, TransportWS, TransportScript:
	default:
		return fmt.Errorf("transport must be one of: http, ws, script")
	}

	if cfg.RequestTimeout < 0 {
		return fmt.Errorf("requestTimeout must be non-negative")
	}

	if cfg.Cache != nil && cfg.Cache.Enabled {
		if cfg.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when cache is enabled")
		}
		if cfg.Cache.Size <= 0 {
			return fmt.Errorf("cache.size must be positive when cache is enabled")
		}
	}

	if cfg.Breaker != nil && cfg.Breaker.Enabled {
		if cfg.Breaker.FailureThreshold <= 0 {
			return fmt.Errorf("breaker.failureThreshold must be positive")
		}
		if cfg.Breaker.RecoveryTimeout <= 0 {
			return fmt.Errorf("breaker.recoveryTimeout must be positive")
		}
		if cfg.Breaker.HalfOpenMaxRequests <= 0 {
			return fmt.Errorf("breaker.halfOpenMaxRequests must be positive")
		}
	}

	if cfg.RateLimit != nil {
		if cfg.RateLimit.RPS < 0 {
			return fmt.Errorf("rateLimit.rps must be non-negative")
		}
		if cfg.RateLimit.Burst < 0 {
			return fmt.Errorf("rateLimit.burst must be non-negative")
		}
	}

	if cfg.Scripts != nil && cfg.Scripts.Timeout < 0 {
		return fmt.Errorf("scripts.timeout must be non-negative")
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}

	return nil
}
