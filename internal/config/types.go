package config

import "time"

// TransportKind selects how the client reaches the endpoint
type TransportKind string

const (
	TransportHTTP   TransportKind = "http"
	TransportWS     TransportKind = "ws"
	TransportScript TransportKind = "script"
)

// Config represents the main configuration structure
type Config struct {
	Endpoint         string           `json:"endpoint"`
	Sandbox          bool             `json:"sandbox"`
	BatchMode        bool             `json:"batchMode"`
	PublisherToken   string           `json:"publisherToken"`
	DistributorToken string           `json:"distributorToken"`
	CustomerToken    string           `json:"customerToken"`
	CookieName       string           `json:"cookieName"`
	AppID            string           `json:"appId"`
	LogLevel         string           `json:"logLevel"`
	Transport        TransportKind    `json:"transport"`
	RequestTimeout   int              `json:"requestTimeout"` // ms
	Cache            *CacheConfig     `json:"cache,omitempty"`
	Breaker          *BreakerConfig   `json:"breaker,omitempty"`
	RateLimit        *RateLimitConfig `json:"rateLimit,omitempty"`
	Scripts          *ScriptConfig    `json:"scripts,omitempty"`
	Server           ServerConfig     `json:"server"`
}

// CacheConfig represents response cache configuration
type CacheConfig struct {
	Enabled         bool     `json:"enabled"`
	TTL             int      `json:"ttl"`             // seconds
	Size            int      `json:"size"`            // number of entries
	Methods         []string `json:"methods"`         // glob patterns; empty means the defaults
	DisabledMethods []string `json:"disabledMethods"` // patterns to exclude from caching
}

// BreakerConfig represents circuit breaker configuration
type BreakerConfig struct {
	Enabled             bool `json:"enabled"`
	FailureThreshold    int  `json:"failureThreshold"`
	RecoveryTimeout     int  `json:"recoveryTimeout"` // ms
	HalfOpenMaxRequests int  `json:"halfOpenMaxRequests"`
}

// RateLimitConfig represents client-side rate limiting
type RateLimitConfig struct {
	RPS   float64 `json:"rps"`
	Burst int     `json:"burst"`
}

// ScriptConfig represents script handler configuration
type ScriptConfig struct {
	Directory string `json:"directory"` // empty means built-in handlers only
	Timeout   int    `json:"timeout"`   // execution timeout in milliseconds
}

// ServerConfig represents the local sandbox server
type ServerConfig struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	MaxBodySize int64  `json:"maxBodySize"`
}

// Default values
const (
	DefaultLogLevel            = "info"
	DefaultTransport           = TransportHTTP
	DefaultRequestTimeout      = 30000 // ms
	DefaultCacheTTL            = 60    // s
	DefaultCacheSize           = 1000
	DefaultFailureThreshold    = 5
	DefaultRecoveryTimeout     = 30000 // ms
	DefaultHalfOpenMaxRequests = 1
	DefaultScriptTimeout       = 5000 // ms
	DefaultServerHost          = "localhost"
	DefaultServerPort          = 8080
)

// GetRequestTimeoutDuration returns request timeout as time.Duration
func (c *Config) GetRequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Millisecond
}

// IsCacheEnabled returns true if cache is configured and enabled
func (c *Config) IsCacheEnabled() bool {
	return c.Cache != nil && c.Cache.Enabled
}

// IsBreakerEnabled returns true if the circuit breaker is configured and enabled
func (c *Config) IsBreakerEnabled() bool {
	return c.Breaker != nil && c.Breaker.Enabled
}

// IsRateLimited returns true if a positive request rate is configured
func (c *Config) IsRateLimited() bool {
	return c.RateLimit != nil && c.RateLimit.RPS > 0
}

// GetScriptDirectory returns the extra scripts directory, or ""
func (c *Config) GetScriptDirectory() string {
	if c.Scripts == nil {
		return ""
	}
	return c.Scripts.Directory
}

// GetScriptTimeoutDuration returns script timeout as time.Duration
func (c *Config) GetScriptTimeoutDuration() time.Duration {
	if c.Scripts == nil || c.Scripts.Timeout == 0 {
		return time.Duration(DefaultScriptTimeout) * time.Millisecond
	}
	return time.Duration(c.Scripts.Timeout) * time.Millisecond
}

// GetTTLDuration returns cache TTL as time.Duration
func (c *CacheConfig) GetTTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// GetRecoveryTimeoutDuration returns breaker recovery timeout as time.Duration
func (c *BreakerConfig) GetRecoveryTimeoutDuration() time.Duration {
	return time.Duration(c.RecoveryTimeout) * time.Millisecond
}
