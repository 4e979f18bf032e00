// Package config loads runconfig settings from a YAML file and RUNCONFIG_*
// environment variables. Command-line flags are applied last by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/runconfig/fetch"
	"github.com/erraggy/runconfig/rcerrors"
)

// Environment variables read by ApplyEnv.
const (
	EnvServer      = "RUNCONFIG_SERVER"
	EnvSocket      = "RUNCONFIG_SOCKET"
	EnvSpecs       = "RUNCONFIG_SPECS"
	EnvPathPrefix  = "RUNCONFIG_PATH_PREFIX"
	EnvValidate    = "RUNCONFIG_VALIDATE"
	EnvTimeout     = "RUNCONFIG_TIMEOUT"
	EnvConcurrency = "RUNCONFIG_CONCURRENCY"
)

// maxConfigSize bounds the config file.
const maxConfigSize = 1 << 20

// Config holds the settings of a collection run.
type Config struct {
	// Server is the base URL of the service
	Server string `yaml:"server"`
	// Socket is a unix domain socket to send requests over
	Socket string `yaml:"socket"`
	// Specs are OpenAPI document paths, traversed in order
	Specs []string `yaml:"specs"`
	// PathPrefix restricts collection to matching paths
	PathPrefix string `yaml:"pathPrefix"`
	// Validate enables JSON Schema validation of responses
	Validate bool `yaml:"validate"`
	// Timeout bounds each request
	Timeout time.Duration `yaml:"timeout"`
	// Concurrency is the number of endpoints fetched at once
	Concurrency int `yaml:"concurrency"`
	// Output is the file to write; empty means stdout
	Output string `yaml:"output"`
	// Headers are sent with every request
	Headers map[string]string `yaml:"headers"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Timeout:     fetch.DefaultTimeout,
		Concurrency: 1,
	}
}

// Load reads a YAML config file over the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &rcerrors.ConfigError{Option: "config", Value: path, Message: "cannot read config file", Cause: err}
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxConfigSize+1))
	if err != nil {
		return nil, &rcerrors.ConfigError{Option: "config", Value: path, Message: "cannot read config file", Cause: err}
	}
	if len(data) > maxConfigSize {
		return nil, &rcerrors.ConfigError{Option: "config", Value: path, Message: fmt.Sprintf("config file exceeds %d bytes", maxConfigSize)}
	}
	return Parse(data, path)
}

// Parse decodes YAML config data over the defaults. source names the data in errors.
func Parse(data []byte, source string) (*Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &rcerrors.ConfigError{Option: "config", Value: source, Message: "invalid config file", Cause: err}
	}
	return cfg, nil
}

// ApplyEnv overrides settings from RUNCONFIG_* environment variables.
// Invalid values log a warning and keep the current setting.
func (c *Config) ApplyEnv() {
	c.Server = EnvString(EnvServer, c.Server)
	c.Socket = EnvString(EnvSocket, c.Socket)
	c.Specs = EnvList(EnvSpecs, c.Specs)
	c.PathPrefix = EnvString(EnvPathPrefix, c.PathPrefix)
	c.Validate = EnvBool(EnvValidate, c.Validate)
	c.Timeout = EnvDuration(EnvTimeout, c.Timeout)
	c.Concurrency = EnvInt(EnvConcurrency, c.Concurrency)
}

// Validate reports every invalid setting, joined.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Specs) == 0 {
		errs = append(errs, &rcerrors.ConfigError{Option: "specs", Message: "at least one OpenAPI document is required"})
	}
	if c.Server == "" && c.Socket == "" {
		errs = append(errs, &rcerrors.ConfigError{Option: "server", Message: "server address or unix socket is required"})
	}
	if c.Timeout <= 0 {
		errs = append(errs, &rcerrors.ConfigError{Option: "timeout", Value: c.Timeout, Message: "must be positive"})
	}
	if c.Concurrency < 1 {
		errs = append(errs, &rcerrors.ConfigError{Option: "concurrency", Value: c.Concurrency, Message: "must be at least 1"})
	}
	for name := range c.Headers {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, &rcerrors.ConfigError{Option: "headers", Message: "header name cannot be empty"})
			break
		}
	}
	return errors.Join(errs...)
}

// FetchOptions translates the transport settings into fetch options.
func (c *Config) FetchOptions() []fetch.Option {
	opts := []fetch.Option{fetch.WithTimeout(c.Timeout)}
	if c.Socket != "" {
		opts = append(opts, fetch.WithUnixSocket(c.Socket))
	}
	names := make([]string, 0, len(c.Headers))
	for name := range c.Headers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		opts = append(opts, fetch.WithHeader(name, c.Headers[name]))
	}
	return opts
}

// EnvString returns the value of key, or fallback when unset or empty.
func EnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvList splits a comma separated value, dropping empty entries.
func EnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for item := range strings.SplitSeq(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		slog.Warn("empty list env var, using default", "key", key, "value", v) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return out
}

// EnvBool parses key as a bool. Invalid values log a warning and return fallback.
func EnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

// EnvInt parses key as a positive int. Invalid values log a warning and return fallback.
func EnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

// EnvDuration parses key as a positive duration. Invalid values log a warning and return fallback.
func EnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
