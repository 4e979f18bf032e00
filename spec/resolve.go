package spec

import (
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/runconfig/rcerrors"
)

// resolveNode follows a local reference (#/path/to/node) from the document root.
func (d *Document) resolveNode(ref string) (*yaml.Node, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, &rcerrors.ReferenceError{Ref: ref, Message: "only local references are supported"}
	}
	pointer := strings.TrimPrefix(ref, "#")
	if pointer == "" || pointer == "/" {
		return d.root, nil
	}

	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	current := d.root
	for i, part := range parts {
		part = unescapePointer(part)

		switch current.Kind {
		case yaml.MappingNode:
			next := mappingValue(current, part)
			if next == nil {
				return nil, &rcerrors.ReferenceError{
					Ref:     ref,
					Message: fmt.Sprintf("reference not found: #/%s (missing key: %s)", strings.Join(parts[:i+1], "/"), part),
				}
			}
			current = next

		case yaml.SequenceNode:
			// Handle array indexing per RFC 6901 (JSON Pointer)
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(current.Content) {
				return nil, &rcerrors.ReferenceError{
					Ref:     ref,
					Message: fmt.Sprintf("invalid array index '%s' at #/%s", part, strings.Join(parts[:i+1], "/")),
				}
			}
			current = deref(current.Content[index])

		default:
			return nil, &rcerrors.ReferenceError{
				Ref:     ref,
				Message: fmt.Sprintf("cannot traverse into scalar at #/%s", strings.Join(parts[:i], "/")),
			}
		}
	}
	return current, nil
}

// ResolveSchema follows the $ref chain of s and returns the target schema.
// The returned schema's Pointer locates the definition inside the document.
// A schema without $ref is returned unchanged.
func (d *Document) ResolveSchema(s *Schema) (*Schema, error) {
	visited := make(map[string]bool)
	for s != nil && s.Ref != "" {
		if visited[s.Ref] {
			return nil, &rcerrors.ReferenceError{Ref: s.Ref, IsCircular: true}
		}
		visited[s.Ref] = true

		n, err := d.resolveNode(s.Ref)
		if err != nil {
			return nil, err
		}
		s = buildSchema(n, s.Ref, 0)
	}
	return s, nil
}

// ResolveResponse follows the $ref chain of r and returns the target response.
func (d *Document) ResolveResponse(r *Response) (*Response, error) {
	visited := make(map[string]bool)
	for r != nil && r.Ref != "" {
		if visited[r.Ref] {
			return nil, &rcerrors.ReferenceError{Ref: r.Ref, IsCircular: true}
		}
		visited[r.Ref] = true

		n, err := d.resolveNode(r.Ref)
		if err != nil {
			return nil, err
		}
		r = buildResponse(n, r.Ref)
	}
	return r, nil
}
