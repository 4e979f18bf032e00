// Package runconfig collects the running configuration of a service from the
// REST endpoints its OpenAPI documents declare.
//
// Every GET operation tagged "config" that takes no parameters is fetched,
// its JSON response is reshaped into a uniformly keyed YAML fragment, and
// the fragments are concatenated into one multi-document YAML stream.
//
// # Packages
//
//   - spec: load OpenAPI 2.0/3.x documents with declared path order
//   - fetch: HTTP transport over TCP or a unix domain socket
//   - runningconfig: endpoint selection, reshaping and aggregation
//   - validator: optional JSON Schema validation of fetched bodies
//   - rcerrors: structured error types shared by all packages
//
// # Quick Start
//
//	doc, err := spec.Load("openapi.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, err := runningconfig.GetWithOptions(ctx, []*spec.Document{doc},
//		runningconfig.WithServer("http://127.0.0.1:8080"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(out)
//
// Given a document declaring GET /system (fixed object) and GET /services
// (additionalProperties map), the output looks like:
//
//	---
//	system:
//	  hostname: UT
//	  timezone: Asia/Shanghai
//	---
//	service networking:
//	  enable: true
//	service rsyslog:
//	  enable: false
//
// The runconfig command (cmd/runconfig) exposes the same operation on the
// command line and as MCP tools.
package runconfig
