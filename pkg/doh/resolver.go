// Package doh resolves host names over DNS-over-HTTPS (RFC 8484) and falls back
// to the platform resolver when the encrypted lookup fails.
package doh

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/miekg/dns"

	"github.com/amaumene/cinescope/pkg/logger"
)

const (
	// DefaultEndpoint is the public Cloudflare DoH endpoint
	DefaultEndpoint = "https://cloudflare-dns.com/dns-query"

	contentType     = "application/dns-message"
	maxResponseSize = 64 * 1024
	queryTimeout    = 5 * time.Second
)

// FallbackResolver is satisfied by *net.Resolver.
type FallbackResolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Resolver performs A/AAAA lookups against a DoH endpoint.
type Resolver struct {
	endpoint   string
	httpClient *http.Client
	fallback   FallbackResolver
	logger     logger.Logger
}

// NewResolver creates a resolver for endpoint. The bootstrap HTTP client used to
// reach the endpoint itself resolves through the system resolver.
func NewResolver(endpoint string, log logger.Logger) *Resolver {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: queryTimeout},
		fallback:   net.DefaultResolver,
		logger:     log,
	}
}

// SetFallback replaces the resolver used when the DoH lookup fails.
func (r *Resolver) SetFallback(f FallbackResolver) {
	r.fallback = f
}

// SetHTTPClient replaces the bootstrap client.
func (r *Resolver) SetHTTPClient(c *http.Client) {
	r.httpClient = c
}

// LookupIP returns the addresses of host. IP literals are returned unchanged.
func (r *Resolver) LookupIP(ctx context.Context, host string) ([]net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		return []net.IP{ip}, nil
	}

	ips, err := r.lookupDoH(ctx, host)
	if err == nil && len(ips) > 0 {
		return ips, nil
	}
	r.logger.Debugf("[DoH] lookup of %s failed, using system resolver: %v", host, err)

	addrs, ferr := r.fallback.LookupIPAddr(ctx, host)
	if ferr != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", host, ferr)
	}
	ips = make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		ips = append(ips, a.IP)
	}
	return ips, nil
}

func (r *Resolver) lookupDoH(ctx context.Context, host string) ([]net.IP, error) {
	var ips []net.IP
	var lastErr error
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		found, err := r.query(ctx, host, qtype)
		if err != nil {
			lastErr = err
			continue
		}
		ips = append(ips, found...)
	}
	if len(ips) == 0 {
		if lastErr == nil {
			lastErr = fmt.Errorf("no address records for %s", host)
		}
		return nil, lastErr
	}
	return ips, nil
}

func (r *Resolver) query(ctx context.Context, host string, qtype uint16) ([]net.IP, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)
	msg.RecursionDesired = true
	// RFC 8484 4.1: use id 0 for cache friendliness
	msg.Id = 0

	packed, err := msg.Pack()
	if err != nil {
		return nil, fmt.Errorf("failed to pack DNS query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(packed))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("DoH request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DoH endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read DoH response: %w", err)
	}

	answer := new(dns.Msg)
	if err := answer.Unpack(body); err != nil {
		return nil, fmt.Errorf("failed to unpack DoH response: %w", err)
	}
	if answer.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("DNS query returned error code: %s", dns.RcodeToString[answer.Rcode])
	}

	var ips []net.IP
	for _, rr := range answer.Answer {
		switch rec := rr.(type) {
		case *dns.A:
			ips = append(ips, rec.A)
		case *dns.AAAA:
			ips = append(ips, rec.AAAA)
		}
	}
	return ips, nil
}

// DialContext returns a dial function that resolves through r and tries each
// address in turn with dialer.
func (r *Resolver) DialContext(dialer *net.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}
		ips, err := r.LookupIP(ctx, host)
		if err != nil {
			return nil, err
		}

		var lastErr error
		for _, ip := range ips {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip.String(), port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
		}
		return nil, lastErr
	}
}
