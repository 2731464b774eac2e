// Package cleeng is a client for the Cleeng JSON-RPC API.
//
// Every call returns a placeholder from package entity. In immediate mode
// (the default) the call is sent at once and the placeholder comes back
// populated. In batch mode calls are queued and sent together by Commit;
// their placeholders stay pending until then. Responses are matched to
// calls by id, and one failing element aborts the whole batch.
//
// A Client serializes its own state with a mutex, but a batch being built
// by one goroutine will be flushed by any other goroutine's Commit. Share a
// client across goroutines only in immediate mode.
package cleeng

import (
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"cleengo/cleeng/transport"
)

// Endpoints and JS API locations
const (
	LiveEndpoint    = "https://api.cleeng.com/3.0/json-rpc"
	SandboxEndpoint = "https://sandbox.cleeng.com/api/3.0/json-rpc"
	LiveJSAPIURL    = "http://cdn.cleeng.com/js-api/3.0/api.js"
	SandboxJSAPIURL = "http://sandbox.cleeng.com/js-api/3.0/api.js"
)

// DefaultCookieName is the cookie the JS API stores the customer token in
const DefaultCookieName = "CleengClientAccessToken"

// DefaultAppID identifies a general "Cleeng Open" client
const DefaultAppID = "35e97a6231236gb456heg6bd7a6bdsf7"

// TokenSource looks up the customer token when none was set explicitly
type TokenSource interface {
	Lookup(name string) (string, bool)
}

// TokenSourceFunc adapts a function into a TokenSource
type TokenSourceFunc func(name string) (string, bool)

// Lookup implements TokenSource
func (f TokenSourceFunc) Lookup(name string) (string, bool) {
	return f(name)
}

// RequestCookies reads tokens from the cookies of an incoming request
func RequestCookies(r *http.Request) TokenSource {
	return TokenSourceFunc(func(name string) (string, bool) {
		c, err := r.Cookie(name)
		if err != nil {
			return "", false
		}
		return c.Value, true
	})
}

// Config for creating a new Client. Zero fields take the defaults above;
// a nil Transport means HTTP.
type Config struct {
	Endpoint         string
	JSAPIURL         string
	Transport        Transport
	BatchMode        bool
	PublisherToken   string
	DistributorToken string
	CustomerToken    string
	Tokens           TokenSource
	CookieName       string
	AppID            string
	Logger           zerolog.Logger
}

// Client talks to one Cleeng endpoint
type Client struct {
	mu sync.Mutex

	endpoint  string
	jsAPIURL  string
	transport Transport
	batchMode bool

	publisherToken   string
	distributorToken string
	customerToken    string
	tokens           TokenSource
	cookieName       string
	appID            string

	ledger       ledger
	lastRequest  []byte
	lastResponse []byte

	logger zerolog.Logger
}

// New creates a Client
func New(cfg Config) *Client {
	c := &Client{
		endpoint:         cfg.Endpoint,
		jsAPIURL:         cfg.JSAPIURL,
		transport:        cfg.Transport,
		batchMode:        cfg.BatchMode,
		publisherToken:   cfg.PublisherToken,
		distributorToken: cfg.DistributorToken,
		customerToken:    cfg.CustomerToken,
		tokens:           cfg.Tokens,
		cookieName:       cfg.CookieName,
		appID:            cfg.AppID,
		logger:           cfg.Logger.With().Str("component", "cleeng").Logger(),
	}
	if c.endpoint == "" {
		c.endpoint = LiveEndpoint
	}
	if c.jsAPIURL == "" {
		c.jsAPIURL = LiveJSAPIURL
	}
	if c.cookieName == "" {
		c.cookieName = DefaultCookieName
	}
	if c.appID == "" {
		c.appID = DefaultAppID
	}
	if c.transport == nil {
		c.transport = transport.NewHTTP(transport.HTTPConfig{Logger: cfg.Logger})
	}
	return c
}

// EnableSandbox points the client at the sandbox platform
func (c *Client) EnableSandbox() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoint = SandboxEndpoint
	c.jsAPIURL = SandboxJSAPIURL
}

// Endpoint returns the JSON-RPC endpoint URL
func (c *Client) Endpoint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endpoint
}

// SetEndpoint changes the JSON-RPC endpoint URL
func (c *Client) SetEndpoint(endpoint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoint = endpoint
}

// JSAPIURL returns the URL of the matching JavaScript library
func (c *Client) JSAPIURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jsAPIURL
}

// SetJSAPIURL changes the JavaScript library URL
func (c *Client) SetJSAPIURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jsAPIURL = url
}

// SetTransport replaces the transport
func (c *Client) SetTransport(t Transport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transport = t
}

// BatchMode reports whether calls are queued until Commit
func (c *Client) BatchMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batchMode
}

// SetBatchMode toggles batch mode. Calls already queued stay queued.
func (c *Client) SetBatchMode(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchMode = enabled
}

// PublisherToken returns the publisher token
func (c *Client) PublisherToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publisherToken
}

// SetPublisherToken sets the publisher token
func (c *Client) SetPublisherToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publisherToken = token
}

// DistributorToken returns the distributor token
func (c *Client) DistributorToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.distributorToken
}

// SetDistributorToken sets the distributor token
func (c *Client) SetDistributorToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.distributorToken = token
}

// CustomerToken returns the customer token. When none was set, the
// TokenSource is asked for the cookie and a hit is remembered.
func (c *Client) CustomerToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.customerToken == "" && c.tokens != nil {
		if v, ok := c.tokens.Lookup(c.cookieName); ok {
			c.customerToken = v
		}
	}
	return c.customerToken
}

// SetCustomerToken sets the customer token
func (c *Client) SetCustomerToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customerToken = token
}

// SetTokenSource sets the fallback lookup for the customer token
func (c *Client) SetTokenSource(src TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = src
}

// CookieName returns the name of the customer token cookie
func (c *Client) CookieName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cookieName
}

// AppID returns the application id
func (c *Client) AppID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appID
}

// LastRequest returns the last batch body sent, for debugging
func (c *Client) LastRequest() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.lastRequest...)
}

// LastResponse returns the last body received, for debugging
func (c *Client) LastResponse() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.lastResponse...)
}

// Pending returns the number of queued calls
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.len()
}
