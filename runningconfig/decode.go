package runningconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/runconfig/rcerrors"
)

// maxNestingDepth matches the nesting limit of encoding/json.
const maxNestingDepth = 10000

// decodeJSON parses a JSON document into a node tree that preserves the key
// order of every object. Duplicate keys keep their first position and last
// value. source names the document in errors.
func decodeJSON(source string, data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := decodeValue(dec, 0)
	if err != nil {
		return nil, parseError(source, dec, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, parseError(source, dec, err)
	}
	return n, nil
}

func parseError(source string, dec *json.Decoder, err error) error {
	pe := &rcerrors.ParseError{Source: source, Offset: dec.InputOffset(), Message: "invalid JSON", Cause: err}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		pe.Offset = syntaxErr.Offset
	}
	if errors.Is(err, io.EOF) {
		pe.Cause = io.ErrUnexpectedEOF
	}
	return pe
}

func decodeValue(dec *json.Decoder, depth int) (*yaml.Node, error) {
	if depth > maxNestingDepth {
		return nil, fmt.Errorf("exceeded max nesting depth %d", maxNestingDepth)
	}
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec, depth)
		case '[':
			return decodeArray(dec, depth)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", v)
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}, nil
	case json.Number:
		return numberNode(v.String()), nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(v)}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder, depth int) (*yaml.Node, error) {
	n := mappingNode()
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		value, err := decodeValue(dec, depth+1)
		if err != nil {
			return nil, err
		}
		if i, dup := index[key]; dup {
			n.Content[i+1] = value
			continue
		}
		index[key] = len(n.Content)
		n.Content = append(n.Content, strNode(key), value)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func decodeArray(dec *json.Decoder, depth int) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for dec.More() {
		value, err := decodeValue(dec, depth+1)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, value)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

// numberNode keeps a JSON number's literal text. Literals that do not fit an
// int64/uint64 or float64 are tagged the way YAML itself resolves the plain
// text, so the encoder never has to emit an explicit tag for them.
func numberNode(lit string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: lit}
	if strings.ContainsAny(lit, ".eE") {
		if _, err := strconv.ParseFloat(lit, 64); err == nil {
			n.Tag = "!!float"
			return n
		}
	} else {
		_, errInt := strconv.ParseInt(lit, 10, 64)
		_, errUint := strconv.ParseUint(lit, 10, 64)
		if errInt == nil || errUint == nil {
			n.Tag = "!!int"
			return n
		}
	}
	n.Tag = n.ShortTag()
	return n
}
