package runningconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/runconfig/fetch"
	"github.com/erraggy/runconfig/internal/httputil"
	"github.com/erraggy/runconfig/internal/options"
	"github.com/erraggy/runconfig/rcerrors"
	"github.com/erraggy/runconfig/spec"
)

// Validator checks a fetched body against the response schema of its
// endpoint. body is UTF-8 JSON text.
type Validator interface {
	Validate(ctx context.Context, doc *spec.Document, schema *spec.Schema, body []byte) error
}

// Aggregator collects the running configuration exposed by the endpoints
// of a set of OpenAPI documents.
type Aggregator struct {
	specs       []*spec.Document
	fetcher     fetch.Fetcher
	prefix      string
	validator   Validator
	logger      Logger
	concurrency int
}

// New creates an Aggregator for specs, which are traversed in order.
func New(specs []*spec.Document, opts ...Option) (*Aggregator, error) {
	cfg := &aggregatorConfig{logger: NopLogger{}, concurrency: 1}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("runningconfig: invalid options: %w", err)
		}
	}
	if err := options.RequireOne("WithServer/WithFetcher", cfg.server != nil, cfg.fetcher != nil); err != nil {
		return nil, fmt.Errorf("runningconfig: invalid options: %w", err)
	}
	if len(specs) == 0 {
		return nil, &rcerrors.ConfigError{Option: "specs", Message: "at least one OpenAPI document is required"}
	}
	for i, doc := range specs {
		if doc == nil {
			return nil, &rcerrors.ConfigError{Option: "specs", Value: i, Message: "document is nil"}
		}
	}

	fetcher := cfg.fetcher
	if cfg.server != nil {
		f, err := fetch.New(*cfg.server, cfg.fetchOpts...)
		if err != nil {
			return nil, err
		}
		fetcher = f
	}

	return &Aggregator{
		specs:       specs,
		fetcher:     fetcher,
		prefix:      cfg.pathPrefix,
		validator:   cfg.validator,
		logger:      cfg.logger,
		concurrency: cfg.concurrency,
	}, nil
}

// GetWithOptions collects the running configuration in one call.
//
// Example:
//
//	out, err := runningconfig.GetWithOptions(ctx, docs,
//	    runningconfig.WithServer("http://127.0.0.1:8080"),
//	    runningconfig.WithPathPrefix("/network"),
//	)
func GetWithOptions(ctx context.Context, specs []*spec.Document, opts ...Option) (string, error) {
	a, err := New(specs, opts...)
	if err != nil {
		return "", err
	}
	return a.Get(ctx)
}

// Endpoints returns the selected endpoints of every document, documents in
// input order and paths in declared order. No request is made.
func (a *Aggregator) Endpoints() ([]Endpoint, error) {
	var all []Endpoint
	for _, doc := range a.specs {
		eps, err := Select(doc, a.prefix)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("selected endpoints", "source", doc.SourcePath, "count", len(eps))
		all = append(all, eps...)
	}
	return all, nil
}

// Get fetches every selected endpoint and returns the concatenated YAML
// stream, one "---"-prefixed document per endpoint. The first failure
// aborts the run; no partial output is returned.
func (a *Aggregator) Get(ctx context.Context) (string, error) {
	endpoints, err := a.Endpoints()
	if err != nil {
		return "", err
	}
	a.logger.Info("collecting running configuration",
		"documents", len(a.specs), "endpoints", len(endpoints), "concurrency", a.concurrency)

	var fragments []string
	if a.concurrency > 1 && len(endpoints) > 1 {
		fragments, err = a.collectConcurrent(ctx, endpoints)
	} else {
		fragments, err = a.collectSequential(ctx, endpoints)
	}
	if err != nil {
		a.logger.Error("collection failed", "error", err)
		return "", err
	}

	var b strings.Builder
	for _, frag := range fragments {
		b.WriteString(documentSeparator)
		b.WriteString(frag)
	}
	a.logger.Info("collected running configuration", "fragments", len(fragments), "bytes", b.Len())
	return b.String(), nil
}

func (a *Aggregator) collectSequential(ctx context.Context, endpoints []Endpoint) ([]string, error) {
	fragments := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frag, err := a.collect(ctx, ep)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, frag)
	}
	return fragments, nil
}

// collectConcurrent runs collect in a bounded group and keeps results in
// traversal order. The reported error is that of the earliest endpoint that
// failed on its own rather than through the group's cancellation.
func (a *Aggregator) collectConcurrent(ctx context.Context, endpoints []Endpoint) ([]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	fragments := make([]string, len(endpoints))
	errs := make([]error, len(endpoints))
	for i, ep := range endpoints {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			frag, err := a.collect(gctx, ep)
			if err != nil {
				errs[i] = err
				return err
			}
			fragments[i] = frag
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, earliestError(ctx, errs, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fragments, nil
}

func earliestError(parent context.Context, errs []error, fallback error) error {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if parent.Err() == nil && errors.Is(err, context.Canceled) {
			continue
		}
		return err
	}
	return fallback
}

// collect produces the rendered fragment of one endpoint:
// fetch, status check, charset decode, parse, validate, reshape, render.
func (a *Aggregator) collect(ctx context.Context, ep Endpoint) (string, error) {
	log := a.logger.With("path", ep.Path)

	resp, err := a.fetcher.Fetch(ctx, ep.Path)
	if err != nil {
		return "", err
	}
	log.Debug("fetched endpoint", "status", resp.StatusCode, "bytes", len(resp.Body), "contentType", resp.ContentType)

	if !httputil.IsSuccess(resp.StatusCode) {
		return "", &rcerrors.StatusError{Path: ep.Path, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	text, charset, err := httputil.DecodeText(resp.Body, resp.ContentType)
	if err != nil {
		return "", &rcerrors.DecodeError{Path: ep.Path, Charset: charset, Cause: err}
	}

	value, err := decodeJSON(ep.Path, text)
	if err != nil {
		return "", err
	}

	if a.validator != nil {
		if err := a.validator.Validate(ctx, ep.Spec, ep.Schema, text); err != nil {
			var ve *rcerrors.ValidationError
			if errors.As(err, &ve) && ve.Path == "" {
				ve.Path = ep.Path
			}
			return "", err
		}
		log.Debug("validated response", "schema", ep.Schema.Pointer)
	}

	return render(ep.Path, Transform(ep.Shape, ep.Path, value))
}
