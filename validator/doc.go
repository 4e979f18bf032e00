// Package validator checks fetched configuration documents against the
// response schemas declared in their OpenAPI documents.
//
// A Validator compiles the owning OpenAPI document as a JSON Schema resource
// and validates each body against the schema at its JSON pointer. OpenAPI
// 3.1 documents are compiled as JSON Schema Draft 2020-12; OpenAPI 3.0 and
// Swagger 2.0 schemas, which follow the older draft semantics, as Draft 4
// with "nullable: true" folded into the type.
//
// Compiled schemas are cached per document and pointer, so a Validator
// should be reused across runs over the same documents. It is safe for
// concurrent use.
//
//	v := validator.New()
//	out, err := runningconfig.GetWithOptions(ctx, docs,
//		runningconfig.WithServer(server),
//		runningconfig.WithValidator(v),
//	)
//
// A rejected body is reported as *rcerrors.ValidationError listing every
// failing leaf constraint.
package validator
