package schema

import "github.com/getkin/kin-openapi/openapi3"

// ArraySchema validates JSON arrays whose elements all match one schema.
type ArraySchema struct {
	doc   Doc
	elem  Schema
	items itemBounds
}

// Array returns a schema for arrays of elem.
func Array(elem Schema) ArraySchema { return ArraySchema{elem: elem} }

// Min requires at least n items.
func (s ArraySchema) Min(n int) ArraySchema {
	s.items.min = ptr(n)
	return s
}

// Max allows at most n items.
func (s ArraySchema) Max(n int) ArraySchema {
	s.items.max = ptr(n)
	return s
}

// Describe sets the documentation description.
func (s ArraySchema) Describe(text string) ArraySchema {
	s.doc.Description = text
	return s
}

// Example sets the documentation example.
func (s ArraySchema) Example(v any) ArraySchema {
	s.doc.Example = v
	return s
}

// Doc implements Schema.
func (s ArraySchema) Doc() Doc { return s.doc }

// Elem returns the element schema.
func (s ArraySchema) Elem() Schema { return s.elem }

func (s ArraySchema) validate(v any, path string, issues *[]Issue) any {
	list, ok := v.([]any)
	if !ok {
		typeMismatch(issues, path, "an array", v)
		return nil
	}

	s.items.check(len(list), path, issues)

	out := make([]any, len(list))
	for i, item := range list {
		out[i] = s.elem.validate(item, indexPath(path, i), issues)
	}
	return out
}

// OpenAPI implements Schema.
func (s ArraySchema) OpenAPI() *openapi3.Schema {
	out := newTyped(openapi3.TypeArray, s.doc)
	out.Items = openapi3.NewSchemaRef("", s.elem.OpenAPI())
	if s.items.min != nil {
		out.MinItems = uint64(*s.items.min)
	}
	if s.items.max != nil {
		out.MaxItems = ptr(uint64(*s.items.max))
	}
	return out
}
