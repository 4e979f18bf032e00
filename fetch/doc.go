// Package fetch retrieves configuration documents from a service's REST API.
//
// An HTTPFetcher issues GET requests for endpoint paths relative to a base
// server URL, over TCP or over a unix domain socket:
//
//	f, err := fetch.New("http://127.0.0.1:8080")
//	resp, err := f.Fetch(ctx, "/system")
//
//	f, err := fetch.New("", fetch.WithUnixSocket("/run/service.sock"))
//
// Fetch reports only transport failures; status handling is left to the
// caller, which receives the code, the whole body and its Content-Type.
// Transport failures are returned as *rcerrors.TransportError.
package fetch
