package schema

import "github.com/getkin/kin-openapi/openapi3"

// newTyped returns an OpenAPI schema of the given JSON type carrying doc.
func newTyped(typ string, doc Doc) *openapi3.Schema {
	out := &openapi3.Schema{Type: &openapi3.Types{typ}}
	applyDoc(out, doc)
	return out
}

// applyDoc copies documentation metadata onto an OpenAPI schema.
func applyDoc(out *openapi3.Schema, doc Doc) {
	out.Description = doc.Description
	if doc.Example != nil {
		out.Example = doc.Example
	}
}
