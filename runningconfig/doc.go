// Package runningconfig collects the running configuration of a service from
// the configuration endpoints declared in its OpenAPI documents.
//
// # Selection
//
// An endpoint is collected when its path declares a GET operation tagged
// "config" that takes no parameters and, if a path prefix is configured,
// its path starts with that prefix. Documents are traversed in the order
// given and paths in the order they are declared.
//
// # Reshaping
//
// Each response is classified by the shape of its documented schema:
//
//   - ShapeFixed: an object with fixed properties. The response is nested
//     under a key derived from the path ("/system" -> "system",
//     "/network/dns" -> "network dns").
//   - ShapeMap, ShapeList, ShapeMapList: a collection. Every top-level key of
//     an object response is prefixed with the singular form of the path
//     ("/services" -> "service networking"). Other values pass through.
//
// # Quick Start
//
//	docs := []*spec.Document{systemDoc, serviceDoc}
//	out, err := runningconfig.GetWithOptions(ctx, docs,
//		runningconfig.WithServer("http://127.0.0.1:8080"),
//	)
//
// Using a unix socket and schema validation:
//
//	a, err := runningconfig.New(docs,
//		runningconfig.WithServer("", fetch.WithUnixSocket("/run/api.sock")),
//		runningconfig.WithValidator(validator.New()),
//		runningconfig.WithConcurrency(4),
//	)
//	out, err := a.Get(ctx)
//
// # Output
//
// The result is a YAML stream with one document per endpoint, each
// introduced by "---". Collection fails fast: the first transport, status,
// decode, parse, validation or render error aborts the run and is returned
// as one of the rcerrors types. No partial output is returned.
package runningconfig
