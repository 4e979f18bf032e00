// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes running configuration collection as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/runconfig"
)

const serverInstructions = `runconfig MCP server: collects the running configuration of a service from the configuration endpoints its OpenAPI documents declare.

An endpoint is collected when its path has a GET operation tagged "config" that takes no parameters. Each response is reshaped into a YAML document keyed by the endpoint path; documents are joined with "---" separators in spec order.

Configuration: All defaults are configurable via RUNCONFIG_MCP_* environment variables set in your MCP client config.

Key settings:
- RUNCONFIG_MCP_TIMEOUT (default: 30s): per-request timeout
- RUNCONFIG_MCP_CONCURRENCY (default: 1): endpoints fetched at once
- RUNCONFIG_MCP_VALIDATE (default: false): validate responses against their schemas by default
- RUNCONFIG_MCP_BLOCK_PRIVATE_IPS (default: false): refuse to query private/loopback addresses
- RUNCONFIG_MCP_CACHE_ENABLED (default: true): disable spec caching entirely
- RUNCONFIG_MCP_LIMIT (default: 100): default result limit for list_config_endpoints

Caching: Loaded specs are cached per session. File entries use path+mtime as key (auto-invalidated on change). Content entries use a hash of the content. Fetched configuration is never cached.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}
	return newServer().Run(ctx, &mcp.StdioTransport{})
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "runconfig", Version: runconfig.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_running_config",
		Description: "Collect the running configuration of a service. Reads the given OpenAPI documents, fetches every GET endpoint tagged config that takes no parameters from the server (HTTP URL or unix socket), and returns a YAML stream with one \"---\"-separated document per endpoint. Use path_prefix to restrict collection to a subtree such as /network. Set validate=true to check every response against its schema. The first failure aborts the run and no partial output is returned.",
	}, handleGetRunningConfig)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_config_endpoints",
		Description: "List the configuration endpoints the given OpenAPI documents declare, in collection order, without contacting any server. Returns path, operationId, response status and media type, schema location, and shape (Fixed, Map, List, MapList) for each endpoint. Use offset/limit to paginate.",
	}, handleListConfigEndpoints)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.DefaultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
