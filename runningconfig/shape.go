package runningconfig

import (
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/runconfig/spec"
)

//go:generate go tool stringer -type=Shape -trimprefix=Shape

// Shape classifies a response schema by whether it describes a keyed
// collection, an array, both, or neither.
type Shape int

const (
	// ShapeFixed is an object with a fixed set of properties.
	ShapeFixed Shape = iota
	// ShapeMap is an object with additionalProperties.
	ShapeMap
	// ShapeList is an array (items is set).
	ShapeList
	// ShapeMapList declares both additionalProperties and items.
	ShapeMapList
)

// Plural reports whether values of this shape are collections whose
// top-level keys get the singular path prefix.
func (s Shape) Plural() bool {
	return s != ShapeFixed
}

// Classify returns the shape of a resolved response schema.
func Classify(schema *spec.Schema) Shape {
	if schema == nil {
		return ShapeFixed
	}
	switch hasMap, hasItems := schema.AdditionalProperties != nil, schema.Items != nil; {
	case hasMap && hasItems:
		return ShapeMapList
	case hasMap:
		return ShapeMap
	case hasItems:
		return ShapeList
	}
	return ShapeFixed
}

// Name derives the key of a fixed-shape fragment from an endpoint path:
// surrounding slashes are trimmed and inner slashes become single spaces.
//
//	Name("/system")          // "system"
//	Name("/network/dns/")    // "network dns"
func Name(path string) string {
	return strings.Join(strings.FieldsFunc(path, func(r rune) bool { return r == '/' }), " ")
}

// Prefix derives the key prefix of a plural fragment: Name(path) with one
// trailing "s" removed.
//
//	Prefix("/services")        // "service"
//	Prefix("/network/routes")  // "network route"
func Prefix(path string) string {
	return strings.TrimSuffix(Name(path), "s")
}

// Transform reshapes a parsed response for the endpoint at path.
//
// For plural shapes a mapping gets every top-level key rewritten to
// "<Prefix(path)> <key>"; any other value is returned unchanged. For
// ShapeFixed the value is wrapped as {Name(path): value}.
// The input node is not modified.
func Transform(shape Shape, path string, value *yaml.Node) *yaml.Node {
	if !shape.Plural() {
		return mappingNode(strNode(Name(path)), value)
	}
	if value == nil || value.Kind != yaml.MappingNode {
		return value
	}

	prefix := Prefix(path)
	out := mappingNode()
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		if prefix != "" {
			key = prefix + " " + key
		}
		out.Content = append(out.Content, strNode(key), value.Content[i+1])
	}
	return out
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func mappingNode(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: content}
}
