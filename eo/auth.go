package eo

import "net/http"

// Authenticator applies authentication information to a request.
type Authenticator interface {
	Authenticate(req *http.Request) error
}

// AuthenticatorFunc converts a function into an Authenticator.
type AuthenticatorFunc func(*http.Request) error

// Authenticate applies the function to the request.
func (f AuthenticatorFunc) Authenticate(req *http.Request) error {
	return f(req)
}

// BearerToken authenticates with a bearer token header.
type BearerToken string

// Authenticate applies the bearer token header.
func (b BearerToken) Authenticate(req *http.Request) error {
	if string(b) == "" {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+string(b))
	return nil
}

// HeaderAuth sets arbitrary headers.
type HeaderAuth map[string]string

// Authenticate applies stored headers to the request.
func (h HeaderAuth) Authenticate(req *http.Request) error {
	for key, value := range h {
		req.Header.Set(key, value)
	}
	return nil
}
