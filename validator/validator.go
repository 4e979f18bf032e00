package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/erraggy/runconfig/rcerrors"
	"github.com/erraggy/runconfig/spec"
)

// resourceURL is the location each document is registered under in its compiler.
const resourceURL = "mem://runconfig/spec.json"

// Validator validates response bodies against OpenAPI response schemas.
type Validator struct {
	cfg     validatorConfig
	printer *message.Printer

	mu        sync.Mutex
	compilers map[*spec.Document]*jsonschema.Compiler
	schemas   map[cacheKey]*jsonschema.Schema
}

type cacheKey struct {
	doc     *spec.Document
	pointer string
}

// New creates a Validator.
func New(opts ...Option) (*Validator, error) {
	cfg := validatorConfig{lang: language.English}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("validator: invalid options: %w", err)
		}
	}
	return &Validator{
		cfg:       cfg,
		printer:   message.NewPrinter(cfg.lang),
		compilers: make(map[*spec.Document]*jsonschema.Compiler),
		schemas:   make(map[cacheKey]*jsonschema.Schema),
	}, nil
}

// Validate checks body, a UTF-8 JSON document, against schema, which must
// belong to doc. It returns *rcerrors.ValidationError when the body does not
// conform and *rcerrors.SchemaError when the schema cannot be compiled.
func (v *Validator) Validate(ctx context.Context, doc *spec.Document, schema *spec.Schema, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil || schema == nil {
		return &rcerrors.ConfigError{Option: "Validate", Message: "document and schema are required"}
	}

	compiled, err := v.compile(doc, schema.Pointer)
	if err != nil {
		return err
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return &rcerrors.ParseError{Source: schema.Pointer, Message: "invalid JSON instance", Cause: err}
	}

	err = compiled.Validate(instance)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &rcerrors.ValidationError{SchemaPointer: schema.Pointer, Cause: err}
	}
	return &rcerrors.ValidationError{
		SchemaPointer: schema.Pointer,
		Causes:        v.leafCauses(verr),
		Cause:         err,
	}
}

// compile returns the compiled schema at pointer, compiling doc on first use.
func (v *Validator) compile(doc *spec.Document, pointer string) (*jsonschema.Schema, error) {
	key := cacheKey{doc: doc, pointer: pointer}

	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.schemas[key]; ok {
		return s, nil
	}

	c, ok := v.compilers[doc]
	if !ok {
		var err error
		if c, err = v.newCompiler(doc); err != nil {
			return nil, err
		}
		v.compilers[doc] = c
	}

	s, err := c.Compile(schemaURL(pointer))
	if err != nil {
		return nil, &rcerrors.SchemaError{Source: doc.SourcePath, Message: "compiling schema " + pointer, Cause: err}
	}
	v.schemas[key] = s
	return s, nil
}

func (v *Validator) newCompiler(doc *spec.Document) (*jsonschema.Compiler, error) {
	value := doc.Value()
	if !strings.HasPrefix(doc.Version, "3.1") && !strings.HasPrefix(doc.Version, "3.2") {
		value = foldNullable(value)
	}

	// Round-trip through encoding/json so numbers become json.Number, as the
	// compiler expects.
	data, err := json.Marshal(value)
	if err != nil {
		return nil, &rcerrors.SchemaError{Source: doc.SourcePath, Message: "encoding document", Cause: err}
	}
	resource, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &rcerrors.SchemaError{Source: doc.SourcePath, Message: "encoding document", Cause: err}
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(v.draftFor(doc))
	if v.cfg.assertFormat {
		c.AssertFormat()
	}
	if err := c.AddResource(resourceURL, resource); err != nil {
		return nil, &rcerrors.SchemaError{Source: doc.SourcePath, Message: "registering document", Cause: err}
	}
	return c, nil
}

func (v *Validator) draftFor(doc *spec.Document) *jsonschema.Draft {
	switch {
	case v.cfg.draft != nil:
		return v.cfg.draft
	case doc.IsOAS2(), strings.HasPrefix(doc.Version, "3.0"):
		return jsonschema.Draft4
	}
	return jsonschema.Draft2020
}

// schemaURL turns a "#/..." pointer into a URL within the document resource,
// percent-encoding the fragment.
func schemaURL(pointer string) string {
	u := url.URL{Fragment: strings.TrimPrefix(pointer, "#")}
	return resourceURL + u.String()
}

// leafCauses flattens a validation error tree into one message per failing
// leaf constraint, in evaluation order.
func (v *Validator) leafCauses(err *jsonschema.ValidationError) []string {
	if len(err.Causes) == 0 {
		return []string{fmt.Sprintf("at '/%s': %s",
			strings.Join(err.InstanceLocation, "/"), err.ErrorKind.LocalizedString(v.printer))}
	}
	var out []string
	for _, cause := range err.Causes {
		out = append(out, v.leafCauses(cause)...)
	}
	return out
}

// foldNullable returns a copy of an OpenAPI 3.0 document tree in which every
// mapping with "nullable: true" and a string "type" gets "null" added to its
// type. The input is not modified.
func foldNullable(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = foldNullable(val)
		}
		if nullable, _ := out["nullable"].(bool); nullable {
			if typ, ok := out["type"].(string); ok {
				out["type"] = []any{typ, "null"}
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = foldNullable(val)
		}
		return out
	}
	return v
}
