package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/runconfig/fetch"
	"github.com/erraggy/runconfig/runningconfig"
	"github.com/erraggy/runconfig/validator"
)

type getInput struct {
	Specs       []specInput `json:"specs"                 jsonschema:"OpenAPI documents declaring the configuration endpoints, in collection order"`
	Server      string      `json:"server,omitempty"      jsonschema:"Base URL of the service, e.g. http://127.0.0.1:8080. May be omitted when socket is set"`
	Socket      string      `json:"socket,omitempty"      jsonschema:"Path of a unix domain socket to connect through"`
	PathPrefix  string      `json:"path_prefix,omitempty" jsonschema:"Only collect endpoints whose path starts with this prefix, e.g. /network"`
	Validate    *bool       `json:"validate,omitempty"    jsonschema:"Validate every response against its schema. Default from RUNCONFIG_MCP_VALIDATE"`
	Timeout     string      `json:"timeout,omitempty"     jsonschema:"Per-request timeout as a Go duration, e.g. 10s. Default from RUNCONFIG_MCP_TIMEOUT"`
	Concurrency int         `json:"concurrency,omitempty" jsonschema:"Number of endpoints fetched at once. Output order is unaffected. Default from RUNCONFIG_MCP_CONCURRENCY"`
}

type getOutput struct {
	Config    string   `json:"config"`
	Endpoints int      `json:"endpoints"`
	Paths     []string `json:"paths,omitempty"`
	Validated bool     `json:"validated"`
}

func handleGetRunningConfig(ctx context.Context, _ *mcp.CallToolRequest, input getInput) (*mcp.CallToolResult, getOutput, error) {
	docs, err := resolveAll(input.Specs)
	if err != nil {
		return errResult(err), getOutput{}, nil
	}

	fetchOpts, err := buildFetchOptions(input)
	if err != nil {
		return errResult(err), getOutput{}, nil
	}

	concurrency := cfg.Concurrency
	if input.Concurrency > 0 {
		concurrency = input.Concurrency
	}
	validate := cfg.Validate
	if input.Validate != nil {
		validate = *input.Validate
	}

	opts := []runningconfig.Option{
		runningconfig.WithServer(input.Server, fetchOpts...),
		runningconfig.WithPathPrefix(input.PathPrefix),
		runningconfig.WithConcurrency(max(concurrency, 1)),
	}
	if validate {
		v, err := validator.New()
		if err != nil {
			return errResult(err), getOutput{}, nil
		}
		opts = append(opts, runningconfig.WithValidator(v))
	}

	agg, err := runningconfig.New(docs, opts...)
	if err != nil {
		return errResult(err), getOutput{}, nil
	}
	endpoints, err := agg.Endpoints()
	if err != nil {
		return errResult(err), getOutput{}, nil
	}
	out, err := agg.Get(ctx)
	if err != nil {
		return errResult(err), getOutput{}, nil
	}

	paths := makeSlice[string](len(endpoints))
	for _, ep := range endpoints {
		paths = append(paths, ep.Path)
	}
	return nil, getOutput{
		Config:    out,
		Endpoints: len(endpoints),
		Paths:     paths,
		Validated: validate,
	}, nil
}

// buildFetchOptions translates tool input into transport options.
func buildFetchOptions(input getInput) ([]fetch.Option, error) {
	if input.Server == "" && input.Socket == "" {
		return nil, fmt.Errorf("server or socket must be provided")
	}

	timeout := cfg.Timeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(strings.TrimSpace(input.Timeout))
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid timeout %q: must be a positive duration such as 10s", input.Timeout)
		}
		timeout = d
	}

	var opts []fetch.Option
	switch {
	case cfg.BlockPrivateIPs && input.Socket != "":
		return nil, fmt.Errorf("unix socket connections are disabled by RUNCONFIG_MCP_BLOCK_PRIVATE_IPS")
	case cfg.BlockPrivateIPs:
		opts = append(opts, fetch.WithHTTPClient(newSafeHTTPClient(timeout)))
	case input.Socket != "":
		opts = append(opts, fetch.WithUnixSocket(input.Socket), fetch.WithTimeout(timeout))
	default:
		opts = append(opts, fetch.WithTimeout(timeout))
	}
	return opts, nil
}
