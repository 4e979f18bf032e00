package spec

import (
	"slices"
	"strings"
	"sync"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/runconfig/internal/httputil"
)

// Document is a loaded OpenAPI document.
type Document struct {
	// SourcePath is the file path or source name the document was read from
	SourcePath string
	// Version is the value of the "openapi" or "swagger" field
	Version string
	// Paths holds the path items in declaration order
	Paths []*PathItem

	root      *yaml.Node
	valueOnce sync.Once
	value     any
}

// IsOAS2 reports whether the document is a Swagger 2.0 document.
func (d *Document) IsOAS2() bool {
	return strings.HasPrefix(d.Version, "2.")
}

// PathItem describes the operations available on a single path.
// Only GET is modeled; other methods are irrelevant to config collection.
type PathItem struct {
	// Path is the path template as written in the document (e.g. "/system")
	Path string
	// Parameters are declared at path level and apply to every operation
	Parameters []*Parameter
	// Get is the GET operation, nil if none is declared
	Get *Operation
}

// Operation describes a single API operation on a path.
type Operation struct {
	OperationID string
	Summary     string
	Tags        []string
	Parameters  []*Parameter
	// Responses maps status codes ("200", "2XX", "default") to responses
	Responses map[string]*Response
	// Pointer is the JSON pointer of the operation in its document
	Pointer string
}

// HasTag reports whether the operation carries tag.
func (o *Operation) HasTag(tag string) bool {
	return slices.Contains(o.Tags, tag)
}

// Parameter is an operation or path parameter. Refs are kept unresolved.
type Parameter struct {
	Ref      string
	Name     string
	In       string
	Required bool
}

// Response is a single response definition.
type Response struct {
	Ref         string
	Description string
	// Content maps media types to their definitions (OAS 3.x)
	Content map[string]*MediaType
	// Schema is the response body schema (OAS 2.0)
	Schema *Schema
	// Pointer is the JSON pointer of the response in its document
	Pointer string
}

// JSONContent returns the first JSON media type entry of the response in
// sorted media-type order, preferring an exact "application/json" key.
func (r *Response) JSONContent() (string, *MediaType) {
	if mt, ok := r.Content[httputil.MediaTypeJSON]; ok {
		return httputil.MediaTypeJSON, mt
	}
	keys := make([]string, 0, len(r.Content))
	for k := range r.Content {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if httputil.IsJSONMediaType(k) {
			return k, r.Content[k]
		}
	}
	return "", nil
}

// MediaType describes a response body for one media type.
type MediaType struct {
	Schema *Schema
}

// Schema captures the attributes of a JSON Schema that drive reshaping.
type Schema struct {
	Ref  string
	Type string
	// AdditionalProperties is nil when absent or false; true yields an empty schema
	AdditionalProperties *Schema
	// Items is the array item schema, nil when absent
	Items *Schema
	// Pointer is the JSON pointer of the schema in its document
	Pointer string
}
