// Package schema declares the shapes of values exchanged over the API and
// validates raw decoded input against them. A schema is built once, is
// immutable, and serves two consumers: the validator and the OpenAPI
// exporter.
//
// Schemas are composed with constructor functions and refined with builder
// methods that return modified copies:
//
//	user := schema.Object(
//	    schema.Field("id", schema.String().Example("123")),
//	    schema.Field("name", schema.String().Min(1).Max(100)),
//	    schema.Field("email", schema.String().Email()),
//	    schema.Field("age", schema.Optional(schema.Int().Min(0).Max(150))),
//	)
//
//	res := schema.Validate(user, raw)
//	if !res.OK() {
//	    for _, issue := range res.Issues() { ... }
//	}
//
// Go types are declared in parallel with their schemas. Parse validates a raw
// value and decodes the normalized result into the matching struct:
//
//	u, err := schema.Parse[User](user, raw)
//
// Object and array validation collects every failing field instead of
// stopping at the first one. Documentation metadata (Describe, Example) is
// never consulted during validation.
package schema
