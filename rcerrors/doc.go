// Package rcerrors provides structured error types for the runconfig library.
//
// Import path: github.com/erraggy/runconfig/rcerrors
//
// Every stage of a running-config collection (spec loading, endpoint
// selection, fetch, decode, parse, validation, render) reports failures with
// one of the types below. Callers use [errors.Is] with the sentinels to
// branch on the category and [errors.As] to read the details.
//
// # Error Types
//
//   - [TransportError]: the HTTP request could not complete
//   - [StatusError]: the endpoint answered with a non-2xx status
//   - [DecodeError]: the response body was not valid text in its charset
//   - [ParseError]: a response body or spec document was not valid JSON/YAML
//   - [RenderError]: a fragment could not be serialized to YAML
//   - [ValidationError]: a response body did not match its declared schema
//   - [SchemaError]: a selected endpoint has no usable JSON response schema
//   - [ReferenceError]: a local $ref could not be resolved
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
//   - [ErrTransport], [ErrStatus], [ErrDecode], [ErrParse], [ErrRender]
//   - [ErrValidation], [ErrSchema], [ErrConfig]
//   - [ErrReference] and [ErrCircularReference] (matches [ReferenceError] with IsCircular=true)
//
// # Usage Examples
//
//	out, err := agg.Get(ctx)
//	if errors.Is(err, rcerrors.ErrStatus) {
//	    var statusErr *rcerrors.StatusError
//	    errors.As(err, &statusErr)
//	    fmt.Printf("%s answered %d: %s\n", statusErr.Path, statusErr.StatusCode, statusErr.Body)
//	}
//
// # Error Chaining
//
// All error types carry an optional Cause and implement Unwrap, so the root
// cause (for example a [context.DeadlineExceeded] under a [TransportError])
// stays reachable through the standard error chain.
package rcerrors
