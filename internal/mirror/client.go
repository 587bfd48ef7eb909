// Package mirror talks to the OpenShift client release mirror: it
// builds release-tree URLs, fetches and parses the directory listing
// into a catalog, and retrieves the per-release checksum manifest.
package mirror

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/dnscache"

	"github.com/ocup/ocup/internal/errs"
	"github.com/ocup/ocup/internal/retry"
)

const (
	// DefaultBaseURL is the public release mirror.
	DefaultBaseURL = "https://mirror.openshift.com/pub/openshift-v4"

	// DefaultUserAgent identifies this tool to the mirror.
	DefaultUserAgent = "ocup/1.0"

	// DefaultTimeout bounds a single mirror request including the full
	// body read. Client archives run to a few hundred megabytes.
	DefaultTimeout = 5 * time.Minute

	maxRedirects = 10
)

// Client issues requests against one mirror base URL. All transient
// failures are retried under the client's retry policy; callers see
// only the final outcome.
type Client struct {
	base      string
	http      *http.Client
	userAgent string
	policy    retry.Policy
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRetryPolicy sets the retry policy for transient failures.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithInsecureTLS disables certificate verification, for replica
// mirrors served with private CAs.
func WithInsecureTLS() Option {
	return func(c *Client) {
		if t, ok := c.http.Transport.(*http.Transport); ok {
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely. Used by
// tests; overrides WithTimeout and WithInsecureTLS.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates a Client for the given mirror base URL (empty
// means DefaultBaseURL).
func NewClient(base string, opts ...Option) *Client {
	if base == "" {
		base = DefaultBaseURL
	}

	c := &Client{
		base: trimBase(base),
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: newTransport(),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
		policy:    retry.Default(),
		logger:    slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newTransport builds an HTTP transport with a caching DNS resolver,
// refreshed in the background every five minutes.
func newTransport() *http.Transport {
	resolver := &dnscache.Resolver{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			resolver.Refresh(true)
		}
	}()

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}
			for _, ip := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					return conn, nil
				}
			}
			return nil, fmt.Errorf("failed to dial any resolved IP for %s", host)
		},
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// Get issues a single GET and returns the open response body with its
// declared content length (-1 when unknown). Any non-200 response is
// drained, closed, and returned as a NetworkError. The caller owns
// closing the body on success.
func (c *Client) Get(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &errs.NetworkError{URL: url, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		_ = resp.Body.Close()
		return nil, 0, &errs.NetworkError{URL: url, Status: resp.StatusCode}
	}

	size := int64(-1)
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			size = n
		}
	}
	return resp.Body, size, nil
}

// getAll fetches url and reads the whole body, bounded by max bytes.
func (c *Client) getAll(ctx context.Context, url string, max int64) ([]byte, error) {
	body, _, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(body, max))
	if err != nil {
		return nil, &errs.NetworkError{URL: url, Err: err}
	}
	return raw, nil
}

// ContentLength probes url with a HEAD request and returns the
// declared size, -1 when the server does not say.
func (c *Client) ContentLength(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return -1, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return -1, &errs.NetworkError{URL: url, Err: err}
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return -1, &errs.NetworkError{URL: url, Status: resp.StatusCode}
	}

	size := int64(-1)
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			size = n
		}
	}
	return size, nil
}

// trimBase strips a trailing slash so URL composition stays uniform.
func trimBase(base string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base
}
