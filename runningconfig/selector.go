package runningconfig

import (
	"fmt"
	"strings"

	"github.com/erraggy/runconfig/internal/httputil"
	"github.com/erraggy/runconfig/rcerrors"
	"github.com/erraggy/runconfig/spec"
)

// ConfigTag is the operation tag that marks an endpoint as configuration.
const ConfigTag = "config"

// Endpoint is a selected configuration endpoint.
type Endpoint struct {
	// Spec is the document that declares the endpoint
	Spec *spec.Document
	// Path is the path as declared, e.g. "/system"
	Path string
	// Operation is the GET operation
	Operation *spec.Operation
	// StatusCode is the response key the schema was taken from ("200" or "2XX")
	StatusCode string
	// MediaType is the JSON media type the schema was taken from; empty for OAS 2.0
	MediaType string
	// Schema is the resolved response schema
	Schema *spec.Schema
	// Shape is the classification of Schema
	Shape Shape
}

// Select returns the configuration endpoints of doc in declared path order.
//
// A path is selected when it declares a GET operation that takes no
// parameters (path-level parameters included), is tagged "config", and
// whose path, with surrounding slashes trimmed, starts with prefix trimmed
// the same way. An empty prefix selects every path.
//
// Every selected endpoint must document a JSON response schema for 200
// (falling back to 2XX; a default response
// describes errors and is never used); a missing or unresolvable schema is
// returned as *rcerrors.SchemaError.
func Select(doc *spec.Document, prefix string) ([]Endpoint, error) {
	want := strings.Trim(prefix, "/")

	var endpoints []Endpoint
	for _, item := range doc.Paths {
		if !selected(item, want) {
			continue
		}
		ep, err := endpointFor(doc, item)
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints, nil
}

func selected(item *spec.PathItem, prefix string) bool {
	op := item.Get
	switch {
	case op == nil:
		return false
	case len(item.Parameters) > 0 || len(op.Parameters) > 0:
		return false
	case !op.HasTag(ConfigTag):
		return false
	}
	return strings.HasPrefix(strings.Trim(item.Path, "/"), prefix)
}

func endpointFor(doc *spec.Document, item *spec.PathItem) (Endpoint, error) {
	ep := Endpoint{Spec: doc, Path: item.Path, Operation: item.Get}
	schemaErr := func(msg string, cause error) error {
		return &rcerrors.SchemaError{Source: doc.SourcePath, Path: item.Path, Message: msg, Cause: cause}
	}

	code, resp := successResponse(item.Get)
	if resp == nil {
		return ep, schemaErr("no 200 or 2XX response declared", nil)
	}
	resp, err := doc.ResolveResponse(resp)
	if err != nil {
		return ep, schemaErr(fmt.Sprintf("unresolvable %s response", code), err)
	}

	mediaType, mt := resp.JSONContent()
	var schema *spec.Schema
	switch {
	case mt != nil:
		schema = mt.Schema
	case doc.IsOAS2():
		schema = resp.Schema
	}
	if schema == nil {
		return ep, schemaErr(fmt.Sprintf("%s response has no JSON schema", code), nil)
	}

	schema, err = doc.ResolveSchema(schema)
	if err != nil {
		return ep, schemaErr(fmt.Sprintf("unresolvable schema for %s response", code), err)
	}

	ep.StatusCode = code
	ep.MediaType = mediaType
	ep.Schema = schema
	ep.Shape = Classify(schema)
	return ep, nil
}

// successResponse picks the response documenting a successful GET.
func successResponse(op *spec.Operation) (string, *spec.Response) {
	const ok = "200"
	wildcard := httputil.WildcardFor(ok)
	for _, code := range []string{ok, wildcard, strings.ToLower(wildcard)} {
		if resp, found := op.Responses[code]; found && resp != nil {
			return code, resp
		}
	}
	return "", nil
}
