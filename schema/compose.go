package schema

import (
	"fmt"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
)

// OptionalSchema marks a value that may be absent. A present value, null
// included, is still checked by the wrapped schema.
type OptionalSchema struct {
	inner Schema
}

// Optional wraps s so that an absent value is valid.
func Optional(s Schema) OptionalSchema {
	if o, ok := s.(OptionalSchema); ok {
		return o
	}
	return OptionalSchema{inner: s}
}

// IsOptional reports whether s accepts an absent value.
func IsOptional(s Schema) bool {
	_, ok := s.(OptionalSchema)
	return ok
}

// Unwrap returns the wrapped schema.
func (s OptionalSchema) Unwrap() Schema { return s.inner }

// Doc implements Schema. It reports the wrapped schema's metadata.
func (s OptionalSchema) Doc() Doc { return s.inner.Doc() }

func (s OptionalSchema) validate(v any, path string, issues *[]Issue) any {
	return s.inner.validate(v, path, issues)
}

// OpenAPI implements Schema. Optionality is expressed by the parent's
// required list, so the wrapped schema is rendered unchanged.
func (s OptionalSchema) OpenAPI() *openapi3.Schema { return s.inner.OpenAPI() }

// LiteralSchema accepts exactly one string, boolean, or numeric value.
type LiteralSchema struct {
	doc   Doc
	value any
}

// Literal returns a schema accepting only v. It panics if v is not a
// string, bool, or number.
func Literal(v any) LiteralSchema {
	switch v.(type) {
	case string, bool:
	default:
		if _, ok := toFloat(v); !ok {
			panic(fmt.Sprintf("schema: unsupported literal %T", v))
		}
	}
	return LiteralSchema{value: v, doc: Doc{Example: v}}
}

// Describe sets the documentation description.
func (s LiteralSchema) Describe(text string) LiteralSchema {
	s.doc.Description = text
	return s
}

// Doc implements Schema.
func (s LiteralSchema) Doc() Doc { return s.doc }

// Value returns the accepted value.
func (s LiteralSchema) Value() any { return s.value }

func (s LiteralSchema) validate(v any, path string, issues *[]Issue) any {
	if want, ok := toFloat(s.value); ok {
		if got, ok := toFloat(v); ok && got == want {
			return s.value
		}
	} else if v == s.value {
		return s.value
	}
	addIssue(issues, path, CodeInvalidLiteral, "must equal %#v", s.value)
	return nil
}

// OpenAPI implements Schema.
func (s LiteralSchema) OpenAPI() *openapi3.Schema {
	typ := openapi3.TypeNumber
	switch s.value.(type) {
	case string:
		typ = openapi3.TypeString
	case bool:
		typ = openapi3.TypeBoolean
	}
	out := newTyped(typ, s.doc)
	out.Enum = []any{s.value}
	return out
}

// UnionSchema accepts a value matching any of its options. The first
// matching option determines the normalized value.
type UnionSchema struct {
	doc     Doc
	options []Schema
}

// Union returns a schema accepting any of the options. It panics with no options.
func Union(options ...Schema) UnionSchema {
	if len(options) == 0 {
		panic("schema: union needs at least one option")
	}
	return UnionSchema{options: slices.Clone(options)}
}

// Describe sets the documentation description.
func (s UnionSchema) Describe(text string) UnionSchema {
	s.doc.Description = text
	return s
}

// Example sets the documentation example.
func (s UnionSchema) Example(v any) UnionSchema {
	s.doc.Example = v
	return s
}

// Doc implements Schema.
func (s UnionSchema) Doc() Doc { return s.doc }

func (s UnionSchema) validate(v any, path string, issues *[]Issue) any {
	for _, opt := range s.options {
		var local []Issue
		out := opt.validate(v, path, &local)
		if len(local) == 0 {
			return out
		}
	}
	addIssue(issues, path, CodeInvalidUnion, "must match one of %d allowed shapes", len(s.options))
	return nil
}

// OpenAPI implements Schema.
func (s UnionSchema) OpenAPI() *openapi3.Schema {
	out := &openapi3.Schema{}
	applyDoc(out, s.doc)
	for _, opt := range s.options {
		out.AnyOf = append(out.AnyOf, openapi3.NewSchemaRef("", opt.OpenAPI()))
	}
	return out
}
