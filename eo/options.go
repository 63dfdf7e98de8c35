package eo

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient allows providing a custom HTTP client implementation.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.httpClient = hc
		if c.httpClient.Timeout == 0 {
			c.httpClient.Timeout = 30 * time.Second
		}
		return nil
	}
}

// WithBaseURL overrides the default imagery service base URL.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		if raw == "" {
			return fmt.Errorf("base url cannot be empty")
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parse base url: %w", err)
		}
		c.baseURL = u
		return nil
	}
}

// WithUserAgent sets a custom user-agent header for outbound requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		if ua != "" {
			c.userAgent = ua
		}
		return nil
	}
}

// WithAuthToken configures the bearer token used for authenticated requests.
func WithAuthToken(token string) Option {
	return WithAuthenticator(BearerToken(token))
}

// WithAuthenticator sets a custom authenticator for the client.
func WithAuthenticator(auth Authenticator) Option {
	return func(c *Client) error {
		c.auth = auth
		return nil
	}
}
