package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/runconfig/runningconfig"
	"github.com/erraggy/runconfig/spec"
)

type endpointsInput struct {
	Specs      []specInput `json:"specs"                 jsonschema:"OpenAPI documents to inspect, in collection order"`
	PathPrefix string      `json:"path_prefix,omitempty" jsonschema:"Only list endpoints whose path starts with this prefix"`
	Offset     int         `json:"offset,omitempty"      jsonschema:"Skip the first N results (for pagination)"`
	Limit      int         `json:"limit,omitempty"       jsonschema:"Maximum number of results to return. Default from RUNCONFIG_MCP_LIMIT"`
}

type endpointSummary struct {
	Source      string `json:"source"`
	Path        string `json:"path"`
	OperationID string `json:"operation_id,omitempty"`
	Shape       string `json:"shape"`
	Key         string `json:"key"`
	StatusCode  string `json:"status_code"`
	MediaType   string `json:"media_type,omitempty"`
	Schema      string `json:"schema"`
}

type endpointsOutput struct {
	Total     int               `json:"total"`
	Returned  int               `json:"returned"`
	Endpoints []endpointSummary `json:"endpoints,omitempty"`
}

func handleListConfigEndpoints(_ context.Context, _ *mcp.CallToolRequest, input endpointsInput) (*mcp.CallToolResult, endpointsOutput, error) {
	docs, err := resolveAll(input.Specs)
	if err != nil {
		return errResult(err), endpointsOutput{}, nil
	}

	var all []runningconfig.Endpoint
	for _, doc := range docs {
		eps, err := runningconfig.Select(doc, input.PathPrefix)
		if err != nil {
			return errResult(err), endpointsOutput{}, nil
		}
		all = append(all, eps...)
	}

	page := paginate(all, input.Offset, input.Limit)
	summaries := makeSlice[endpointSummary](len(page))
	for _, ep := range page {
		summaries = append(summaries, summarize(ep))
	}
	return nil, endpointsOutput{
		Total:     len(all),
		Returned:  len(summaries),
		Endpoints: summaries,
	}, nil
}

func summarize(ep runningconfig.Endpoint) endpointSummary {
	s := endpointSummary{
		Source:     sourceName(ep.Spec),
		Path:       ep.Path,
		Shape:      ep.Shape.String(),
		Key:        runningconfig.Name(ep.Path),
		StatusCode: ep.StatusCode,
		MediaType:  ep.MediaType,
		Schema:     ep.Schema.Pointer,
	}
	if ep.Operation != nil {
		s.OperationID = ep.Operation.OperationID
	}
	if ep.Shape.Plural() {
		s.Key = strings.TrimSpace(runningconfig.Prefix(ep.Path) + " <name>")
	}
	return s
}

func sourceName(doc *spec.Document) string {
	return pathPattern.ReplaceAllString(doc.SourcePath, "<path>")
}
