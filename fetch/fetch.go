package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erraggy/runconfig"
	"github.com/erraggy/runconfig/internal/httputil"
	"github.com/erraggy/runconfig/rcerrors"
)

const (
	// DefaultTimeout bounds a single request when no client is supplied.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxBodySize is the largest response body accepted.
	DefaultMaxBodySize int64 = 32 << 20
	// socketHost is the request host used when only a socket is configured.
	socketHost = "localhost"
)

// Response is a fetched document. It is never persisted.
type Response struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Fetcher retrieves the document served at an endpoint path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (*Response, error)
}

// HTTPFetcher is a Fetcher that talks HTTP over TCP or a unix domain socket.
// It is safe for concurrent use.
type HTTPFetcher struct {
	base        *url.URL
	client      *http.Client
	socket      string
	userAgent   string
	headers     http.Header
	maxBodySize int64
}

// New creates an HTTPFetcher for server. server may be empty when a unix
// socket is configured; requests are then addressed to http://localhost.
func New(server string, opts ...Option) (*HTTPFetcher, error) {
	cfg := &fetchConfig{
		timeout:     DefaultTimeout,
		userAgent:   runconfig.UserAgent(),
		headers:     make(http.Header),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("fetch: invalid options: %w", err)
		}
	}

	base, err := parseServer(server, cfg.socket != "")
	if err != nil {
		return nil, err
	}
	if cfg.client != nil && cfg.socket != "" {
		return nil, &rcerrors.ConfigError{
			Option:  "WithUnixSocket",
			Message: "cannot be combined with WithHTTPClient; configure DialContext on your client's transport",
		}
	}

	client := cfg.client
	if client == nil {
		client = &http.Client{Timeout: cfg.timeout}
		if cfg.socket != "" {
			client.Transport = unixTransport(cfg.socket)
		}
	}

	return &HTTPFetcher{
		base:        base,
		client:      client,
		socket:      cfg.socket,
		userAgent:   cfg.userAgent,
		headers:     cfg.headers,
		maxBodySize: cfg.maxBodySize,
	}, nil
}

// parseServer validates the server address. A bare host:port is taken as http.
func parseServer(server string, hasSocket bool) (*url.URL, error) {
	if server == "" {
		if !hasSocket {
			return nil, &rcerrors.ConfigError{Option: "server", Message: "server address or unix socket is required"}
		}
		return &url.URL{Scheme: "http", Host: socketHost}, nil
	}
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}
	u, err := url.Parse(server)
	if err != nil {
		return nil, &rcerrors.ConfigError{Option: "server", Value: server, Message: "invalid URL", Cause: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &rcerrors.ConfigError{Option: "server", Value: server, Message: "scheme must be http or https"}
	}
	if u.Host == "" {
		return nil, &rcerrors.ConfigError{Option: "server", Value: server, Message: "missing host"}
	}
	return u, nil
}

func unixTransport(socket string) *http.Transport {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	return &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, "unix", socket)
		},
	}
}

// Server returns the base URL requests are sent to.
func (f *HTTPFetcher) Server() string {
	return f.base.String()
}

// Socket returns the unix socket path, or "" for TCP.
func (f *HTTPFetcher) Socket() string {
	return f.socket
}

// URL returns the request URL for an endpoint path.
func (f *HTTPFetcher) URL(path string) string {
	u := *f.base
	u.Path = strings.TrimSuffix(f.base.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	u.RawPath = ""
	return u.String()
}

// Fetch issues a GET request for path and returns the status, the whole body
// and the Content-Type header. Any status is returned without error.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) (*Response, error) {
	target := f.URL(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &rcerrors.TransportError{Path: path, URL: target, Cause: err}
	}
	for k, vs := range f.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set(httputil.HeaderUserAgent, f.userAgent)
	if req.Header.Get(httputil.HeaderAccept) == "" {
		req.Header.Set(httputil.HeaderAccept, httputil.MediaTypeJSON)
	}

	resp, err := f.client.Do(req) //nolint:gosec // G704 - server address is operator configuration
	if err != nil {
		return nil, &rcerrors.TransportError{Path: path, URL: target, Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, &rcerrors.TransportError{Path: path, URL: target, Cause: fmt.Errorf("reading body: %w", err)}
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, &rcerrors.TransportError{
			Path:  path,
			URL:   target,
			Cause: fmt.Errorf("response body exceeds limit of %d bytes", f.maxBodySize),
		}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get(httputil.HeaderContentType),
	}, nil
}
