package spec

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/runconfig/internal/options"
	"github.com/erraggy/runconfig/rcerrors"
)

// DefaultMaxFileSize is the largest document accepted when no limit is set.
const DefaultMaxFileSize int64 = 10 << 20

// Option is a function that configures a load operation
type Option func(*loadConfig) error

// loadConfig holds configuration for a load operation
type loadConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	maxFileSize int64
	sourceName  *string
}

// Load reads and parses the OpenAPI document at path.
func Load(path string) (*Document, error) {
	return LoadWithOptions(WithFilePath(path))
}

// LoadWithOptions parses an OpenAPI document using functional options.
//
// Example:
//
//	doc, err := spec.LoadWithOptions(
//	    spec.WithBytes(data),
//	    spec.WithSourceName("inline.yaml"),
//	)
func LoadWithOptions(opts ...Option) (*Document, error) {
	cfg := &loadConfig{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("spec: invalid options: %w", err)
		}
	}
	if err := options.RequireOne("WithFilePath/WithReader/WithBytes",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil); err != nil {
		return nil, fmt.Errorf("spec: invalid options: %w", err)
	}

	var (
		data   []byte
		source string
		err    error
	)
	switch {
	case cfg.filePath != nil:
		source = *cfg.filePath
		data, err = readFile(source, cfg.maxFileSize)
	case cfg.reader != nil:
		source = "reader"
		data, err = readLimited(cfg.reader, cfg.maxFileSize)
	default:
		source = "bytes"
		data = cfg.bytes
		if int64(len(data)) > cfg.maxFileSize {
			err = fmt.Errorf("document size %d exceeds limit %d", len(data), cfg.maxFileSize)
		}
	}
	if cfg.sourceName != nil {
		source = *cfg.sourceName
	}
	if err != nil {
		return nil, &rcerrors.ParseError{Source: source, Message: "reading document", Cause: err}
	}

	return parse(data, source)
}

// WithFilePath specifies a file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *loadConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *loadConfig) error {
		if r == nil {
			return errors.New("reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *loadConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.bytes = data
		return nil
	}
}

// WithMaxFileSize limits the size of the document that will be read.
// Default: 10 MiB.
func WithMaxFileSize(size int64) Option {
	return func(cfg *loadConfig) error {
		if size <= 0 {
			return fmt.Errorf("max file size must be positive, got %d", size)
		}
		cfg.maxFileSize = size
		return nil
	}
}

// WithSourceName overrides the SourcePath recorded on the document.
// Useful for reader and byte inputs, which otherwise record "reader"/"bytes".
func WithSourceName(name string) Option {
	return func(cfg *loadConfig) error {
		cfg.sourceName = &name
		return nil
	}
}

func readFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return readLimited(f, limit)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("document exceeds limit of %d bytes", limit)
	}
	return data, nil
}

// parse decodes data into a node tree and builds the document model from it.
func parse(data []byte, source string) (*Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &rcerrors.ParseError{Source: source, Message: "invalid YAML/JSON", Cause: err}
	}
	root := deref(&doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, &rcerrors.ParseError{Source: source, Message: "document root must be a mapping"}
	}

	d := &Document{SourcePath: source, root: root}
	if v := mappingValue(root, "openapi"); v != nil {
		d.Version = v.Value
	} else if v := mappingValue(root, "swagger"); v != nil {
		d.Version = v.Value
	}
	if d.Version == "" {
		return nil, &rcerrors.ParseError{
			Source:  source,
			Line:    root.Line,
			Column:  root.Column,
			Message: "missing openapi or swagger version field",
		}
	}

	paths := mappingValue(root, "paths")
	if paths == nil {
		return d, nil
	}
	if paths.Kind != yaml.MappingNode {
		return nil, &rcerrors.ParseError{Source: source, Line: paths.Line, Column: paths.Column, Message: "paths must be a mapping"}
	}

	for key, value := range pairs(paths) {
		if isExtension(key.Value) {
			continue
		}
		item, err := d.buildPathItem(key.Value, value)
		if err != nil {
			return nil, err
		}
		d.Paths = append(d.Paths, item)
	}
	return d, nil
}
