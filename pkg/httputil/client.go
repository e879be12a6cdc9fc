// Package httputil provides HTTP client utilities with standard configurations.
package httputil

import (
	"net"
	"net/http"
	"time"

	"github.com/amaumene/cinescope/pkg/doh"
)

const (
	// Default timeout for HTTP requests
	defaultTimeout = 30 * time.Second

	// Transport configuration constants
	maxIdleConns        = 10
	maxIdleConnsPerHost = 4
	idleConnTimeout     = 30 * time.Second
	dialTimeout         = 10 * time.Second
	keepAlive           = 30 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
)

// NewHTTPClient creates a new HTTP client with the specified timeout.
// The client is configured with connection pooling and idle connection management.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return NewResolvingClient(timeout, nil)
}

// NewResolvingClient is NewHTTPClient with host names resolved through resolver.
// A nil resolver keeps the system resolver.
func NewResolvingClient(timeout time.Duration, resolver *doh.Resolver) *http.Client {
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: keepAlive,
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}
	if resolver != nil {
		transport.DialContext = resolver.DialContext(dialer)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// NewDefaultHTTPClient creates a new HTTP client with default 30 second timeout.
// This is suitable for most API calls and web requests.
func NewDefaultHTTPClient() *http.Client {
	return NewHTTPClient(defaultTimeout)
}
