package spec

import (
	"iter"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/runconfig/internal/httputil"
	"github.com/erraggy/runconfig/rcerrors"
)

// maxSchemaDepth bounds recursion through nested items/additionalProperties.
const maxSchemaDepth = 32

// deref unwraps document and alias nodes.
func deref(n *yaml.Node) *yaml.Node {
	for range maxSchemaDepth {
		if n == nil {
			return nil
		}
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return n
}

// pairs yields the key/value nodes of a mapping node in declaration order.
func pairs(n *yaml.Node) iter.Seq2[*yaml.Node, *yaml.Node] {
	return func(yield func(*yaml.Node, *yaml.Node) bool) {
		n = deref(n)
		if n == nil || n.Kind != yaml.MappingNode {
			return
		}
		// Content alternates: key, value, key, value...
		for i := 0; i+1 < len(n.Content); i += 2 {
			if !yield(deref(n.Content[i]), deref(n.Content[i+1])) {
				return
			}
		}
	}
}

// mappingValue returns the value node stored under key, or nil.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	for k, v := range pairs(n) {
		if k.Value == key {
			return v
		}
	}
	return nil
}

func scalarValue(n *yaml.Node, key string) string {
	v := mappingValue(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return ""
	}
	return v.Value
}

func isExtension(key string) bool {
	return strings.HasPrefix(key, "x-")
}

// escapePointer escapes a JSON Pointer token.
// Per RFC 6901, ~ becomes ~0 and / becomes ~1.
func escapePointer(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// unescapePointer reverses escapePointer.
func unescapePointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

func (d *Document) buildPathItem(path string, n *yaml.Node) (*PathItem, error) {
	pointer := "#/paths/" + escapePointer(path)
	if ref := scalarValue(n, "$ref"); ref != "" {
		target, err := d.resolveNode(ref)
		if err != nil {
			return nil, &rcerrors.ParseError{Source: d.SourcePath, Line: n.Line, Column: n.Column, Message: "path item " + path, Cause: err}
		}
		n, pointer = target, ref
	}
	if n.Kind != yaml.MappingNode {
		return nil, &rcerrors.ParseError{Source: d.SourcePath, Line: n.Line, Column: n.Column, Message: "path item " + path + " must be a mapping"}
	}

	item := &PathItem{Path: path, Parameters: buildParameters(mappingValue(n, "parameters"))}
	if get := mappingValue(n, "get"); get != nil {
		if get.Kind != yaml.MappingNode {
			return nil, &rcerrors.ParseError{Source: d.SourcePath, Line: get.Line, Column: get.Column, Message: "operation GET " + path + " must be a mapping"}
		}
		item.Get = buildOperation(get, pointer+"/get")
	}
	return item, nil
}

func buildOperation(n *yaml.Node, pointer string) *Operation {
	op := &Operation{
		OperationID: scalarValue(n, "operationId"),
		Summary:     scalarValue(n, "summary"),
		Tags:        scalarList(mappingValue(n, "tags")),
		Parameters:  buildParameters(mappingValue(n, "parameters")),
		Responses:   make(map[string]*Response),
		Pointer:     pointer,
	}
	for code, resp := range pairs(mappingValue(n, "responses")) {
		if !httputil.IsResponseCode(code.Value) {
			continue
		}
		op.Responses[code.Value] = buildResponse(resp, pointer+"/responses/"+escapePointer(code.Value))
	}
	return op
}

func scalarList(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		if c = deref(c); c != nil && c.Kind == yaml.ScalarNode {
			out = append(out, c.Value)
		}
	}
	return out
}

func buildParameters(n *yaml.Node) []*Parameter {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	params := make([]*Parameter, 0, len(n.Content))
	for _, c := range n.Content {
		c = deref(c)
		if c == nil {
			continue
		}
		params = append(params, &Parameter{
			Ref:      scalarValue(c, "$ref"),
			Name:     scalarValue(c, "name"),
			In:       scalarValue(c, "in"),
			Required: scalarValue(c, "required") == "true",
		})
	}
	return params
}

func buildResponse(n *yaml.Node, pointer string) *Response {
	resp := &Response{
		Ref:         scalarValue(n, "$ref"),
		Description: scalarValue(n, "description"),
		Pointer:     pointer,
	}
	if resp.Ref != "" {
		return resp
	}
	if content := mappingValue(n, "content"); content != nil {
		resp.Content = make(map[string]*MediaType)
		for mt, media := range pairs(content) {
			resp.Content[mt.Value] = &MediaType{
				Schema: buildSchema(mappingValue(media, "schema"), pointer+"/content/"+escapePointer(mt.Value)+"/schema", 0),
			}
		}
	}
	resp.Schema = buildSchema(mappingValue(n, "schema"), pointer+"/schema", 0)
	return resp
}

func buildSchema(n *yaml.Node, pointer string, depth int) *Schema {
	if n == nil {
		return nil
	}
	s := &Schema{Pointer: pointer}
	if n.Kind != yaml.MappingNode || depth >= maxSchemaDepth {
		return s
	}
	s.Ref = scalarValue(n, "$ref")

	switch t := mappingValue(n, "type"); {
	case t == nil:
	case t.Kind == yaml.ScalarNode:
		s.Type = t.Value
	case t.Kind == yaml.SequenceNode:
		s.Type = strings.Join(scalarList(t), ",")
	}

	s.AdditionalProperties = subSchema(mappingValue(n, "additionalProperties"), pointer+"/additionalProperties", depth)
	s.Items = subSchema(mappingValue(n, "items"), pointer+"/items", depth)
	return s
}

// subSchema builds a nested schema slot. Boolean false means "absent",
// boolean true is an empty (accept-all) schema.
func subSchema(n *yaml.Node, pointer string, depth int) *Schema {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.ScalarNode {
		if b, err := strconv.ParseBool(n.Value); err == nil && !b {
			return nil
		}
		return &Schema{Pointer: pointer}
	}
	return buildSchema(n, pointer, depth+1)
}

// toValue converts a node tree to plain Go values (map[string]any, []any,
// string, bool, int, float64, nil) suitable for JSON encoding.
func toValue(n *yaml.Node) any {
	n = deref(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for k, v := range pairs(n) {
			m[k.Value] = toValue(v)
		}
		return m
	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			s = append(s, toValue(c))
		}
		return s
	}

	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool", "!!int", "!!float":
		var v any
		if err := n.Decode(&v); err == nil {
			return v
		}
	}
	return n.Value
}

// Value returns the whole document as plain Go values. The result is
// computed once and shared; callers must not modify it.
func (d *Document) Value() any {
	d.valueOnce.Do(func() {
		d.value = toValue(d.root)
	})
	return d.value
}
