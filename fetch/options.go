package fetch

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Option is a function that configures an HTTPFetcher
type Option func(*fetchConfig) error

type fetchConfig struct {
	socket      string
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	headers     http.Header
	maxBodySize int64
}

// WithUnixSocket sends every request over the unix domain socket at path.
func WithUnixSocket(path string) Option {
	return func(cfg *fetchConfig) error {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("unix socket path cannot be empty")
		}
		cfg.socket = path
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client.
// The client's own timeout and transport are used as-is; WithTimeout is ignored.
//
// Example:
//
//	client := &http.Client{Timeout: 5 * time.Second}
//	f, err := fetch.New(server, fetch.WithHTTPClient(client))
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *fetchConfig) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		cfg.client = client
		return nil
	}
}

// WithTimeout bounds each request, including reading the body.
// Default: 30s.
func WithTimeout(d time.Duration) Option {
	return func(cfg *fetchConfig) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		cfg.timeout = d
		return nil
	}
}

// WithUserAgent sets the User-Agent header.
// Default: "runconfig/<version>"
func WithUserAgent(ua string) Option {
	return func(cfg *fetchConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithMaxBodySize limits the size of a response body.
// Default: 32 MiB.
func WithMaxBodySize(size int64) Option {
	return func(cfg *fetchConfig) error {
		if size <= 0 {
			return fmt.Errorf("max body size must be positive, got %d", size)
		}
		cfg.maxBodySize = size
		return nil
	}
}

// WithHeader adds a header sent with every request, e.g. an Authorization token.
// It may be given multiple times.
func WithHeader(key, value string) Option {
	return func(cfg *fetchConfig) error {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("header name cannot be empty")
		}
		cfg.headers.Add(key, value)
		return nil
	}
}
