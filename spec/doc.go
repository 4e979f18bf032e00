// Package spec loads OpenAPI documents and exposes the parts a running-config
// collector needs: the declared paths in document order, their GET
// operations (tags, parameters, responses) and the response schemas.
//
// OpenAPI 2.0 (Swagger) and 3.x documents in YAML or JSON are supported.
// Documents are immutable after loading and safe for concurrent reads.
//
// # Path order
//
// Paths are returned in the order they are declared in the source document,
// not sorted. Collectors rely on this to produce stable output.
//
// # References
//
// Only local references ("#/components/schemas/Foo", "#/definitions/Foo",
// "#/components/responses/Ok") are resolved. Use [Document.ResolveSchema] and
// [Document.ResolveResponse] to follow them; circular chains are reported as
// [rcerrors.ReferenceError] with IsCircular set.
//
// # Example
//
//	doc, err := spec.LoadWithOptions(spec.WithFilePath("system.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, item := range doc.Paths {
//		if item.Get != nil {
//			fmt.Println(item.Path, item.Get.Tags)
//		}
//	}
package spec
