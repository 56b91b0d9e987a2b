package authsdk

import (
	"errors"
	"net/http"
	"time"
)

// DefaultEndpointURL is the production authentication endpoint.
const DefaultEndpointURL = "https://auth.openrest.com/v1.0"

// HTTPDoer is the transport a Client sends requests through. *http.Client
// satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the construction-time settings of a Client.
type Config struct {
	// Transport sends the HTTP requests. Required, there is no default.
	Transport HTTPDoer

	// EndpointURL is the URL every request is POSTed to.
	// Default: DefaultEndpointURL
	EndpointURL string

	// Timeout bounds each request from send to fully read response.
	// Zero means no timeout.
	Timeout time.Duration
}

// Client performs one request/response cycle per DoRequest call against the
// configured endpoint. A Client is immutable after New and is safe for
// concurrent use.
type Client struct {
	transport   HTTPDoer
	endpointURL string
	timeout     time.Duration
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.Transport == nil {
		return nil, errors.New("authsdk: transport is required")
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("authsdk: timeout must not be negative")
	}

	endpointURL := cfg.EndpointURL
	if endpointURL == "" {
		endpointURL = DefaultEndpointURL
	}

	return &Client{
		transport:   cfg.Transport,
		endpointURL: endpointURL,
		timeout:     cfg.Timeout,
	}, nil
}

// EndpointURL returns the URL requests are sent to.
func (c *Client) EndpointURL() string { return c.endpointURL }

// Timeout returns the per-request timeout, zero meaning unbounded.
func (c *Client) Timeout() time.Duration { return c.timeout }
