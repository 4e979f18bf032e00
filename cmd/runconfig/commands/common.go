package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/erraggy/runconfig/internal/config"
	"github.com/erraggy/runconfig/rcerrors"
	"github.com/erraggy/runconfig/spec"
)

// collectFlags are the command-line overrides for collection settings.
type collectFlags struct {
	specs       []string
	server      string
	socket      string
	prefix      string
	validate    bool
	timeout     time.Duration
	concurrency int
	output      string
	headers     []string
}

func (f *collectFlags) registerSpecFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.specs, "spec", "s", nil, "OpenAPI document to read (repeatable, traversed in order)")
	cmd.Flags().StringVarP(&f.prefix, "prefix", "p", "", "only collect endpoints whose path starts with this prefix")
}

func (f *collectFlags) registerFetchFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.server, "server", "", "base URL of the service, e.g. http://127.0.0.1:8080")
	fs.StringVar(&f.socket, "socket", "", "unix domain socket to send requests over")
	fs.BoolVar(&f.validate, "validate", false, "validate every response against its schema")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-request timeout (default 30s)")
	fs.IntVar(&f.concurrency, "concurrency", 0, "number of endpoints fetched at once (default 1)")
	fs.StringVarP(&f.output, "output", "o", "", "write the YAML stream to this file instead of stdout")
	fs.StringArrayVarP(&f.headers, "header", "H", nil, "extra request header as 'Name: value' (repeatable)")
}

// loadSettings merges the config file, RUNCONFIG_* environment variables
// and changed command-line flags, in that order of precedence. Spec paths
// given as arguments count as --spec flags.
func loadSettings(cmd *cobra.Command, g *globalFlags, f *collectFlags) (*config.Config, error) {
	cfg := config.Default()
	if g.configFile != "" {
		var err error
		if cfg, err = config.Load(g.configFile); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()

	changed := cmd.Flags().Changed
	if len(f.specs) > 0 {
		cfg.Specs = f.specs
	}
	if changed("prefix") {
		cfg.PathPrefix = f.prefix
	}
	if changed("server") {
		cfg.Server = f.server
	}
	if changed("socket") {
		cfg.Socket = f.socket
	}
	if changed("validate") {
		cfg.Validate = f.validate
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("header") {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(f.headers))
		}
		for _, h := range f.headers {
			name, value, ok := strings.Cut(h, ":")
			if !ok {
				return nil, &rcerrors.ConfigError{Option: "header", Value: h, Message: "expected 'Name: value'"}
			}
			cfg.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}
	return cfg, nil
}

// loadSpecs reads every OpenAPI document in order. A document that cannot
// be read or parsed is reported as a configuration error.
func loadSpecs(paths []string) ([]*spec.Document, error) {
	if len(paths) == 0 {
		return nil, &rcerrors.ConfigError{Option: "specs", Message: "at least one OpenAPI document is required"}
	}
	docs := make([]*spec.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := spec.Load(p)
		if err != nil {
			return nil, &rcerrors.ConfigError{Option: "specs", Value: p, Message: "cannot load OpenAPI document", Cause: err}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func wrapErr(cmd string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", cmd, err)
}
