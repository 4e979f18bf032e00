package runningconfig

import (
	"fmt"

	"github.com/erraggy/runconfig/fetch"
)

// Option is a function that configures an Aggregator
type Option func(*aggregatorConfig) error

// aggregatorConfig holds configuration for an Aggregator
type aggregatorConfig struct {
	// Transport (exactly one must be set)
	server    *string
	fetchOpts []fetch.Option
	fetcher   fetch.Fetcher

	pathPrefix  string
	validator   Validator
	logger      Logger
	concurrency int
}

// WithServer sets the base URL of the service to query. fetch options such
// as fetch.WithUnixSocket or fetch.WithTimeout configure the transport.
func WithServer(addr string, opts ...fetch.Option) Option {
	return func(cfg *aggregatorConfig) error {
		cfg.server = &addr
		cfg.fetchOpts = append(cfg.fetchOpts, opts...)
		return nil
	}
}

// WithFetcher sets the transport used to retrieve endpoint documents.
// Mutually exclusive with WithServer.
func WithFetcher(f fetch.Fetcher) Option {
	return func(cfg *aggregatorConfig) error {
		if f == nil {
			return fmt.Errorf("fetcher cannot be nil")
		}
		cfg.fetcher = f
		return nil
	}
}

// WithPathPrefix restricts collection to paths starting with prefix.
// Leading and trailing slashes are ignored. Default: "" (every path).
func WithPathPrefix(prefix string) Option {
	return func(cfg *aggregatorConfig) error {
		cfg.pathPrefix = prefix
		return nil
	}
}

// WithValidator validates every fetched body against its response schema
// before it is reshaped. Default: no validation.
func WithValidator(v Validator) Option {
	return func(cfg *aggregatorConfig) error {
		cfg.validator = v
		return nil
	}
}

// WithLogger sets the logger for collection progress.
// Default: NopLogger.
func WithLogger(l Logger) Option {
	return func(cfg *aggregatorConfig) error {
		if l == nil {
			l = NopLogger{}
		}
		cfg.logger = l
		return nil
	}
}

// WithConcurrency sets how many endpoints are fetched at once. Output is
// identical for any value. Default: 1 (strictly sequential).
func WithConcurrency(n int) Option {
	return func(cfg *aggregatorConfig) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		cfg.concurrency = n
		return nil
	}
}
