package schema

import (
	"fmt"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
)

// FieldDef is a named member of an object schema.
type FieldDef struct {
	Name   string
	Schema Schema
}

// Field pairs a name with a schema for Object.
func Field(name string, s Schema) FieldDef {
	return FieldDef{Name: name, Schema: s}
}

// ObjectSchema validates JSON objects field by field. Unknown keys are
// ignored and dropped from the normalized value.
type ObjectSchema struct {
	doc    Doc
	fields []FieldDef
}

// Object returns a schema for an object with the given fields, in order.
// Fields wrapped in Optional may be absent. It panics on duplicate names.
func Object(fields ...FieldDef) ObjectSchema {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			panic(fmt.Sprintf("schema: duplicate field %q", f.Name))
		}
		seen[f.Name] = true
	}
	return ObjectSchema{fields: slices.Clone(fields)}
}

// Describe sets the documentation description.
func (s ObjectSchema) Describe(text string) ObjectSchema {
	s.doc.Description = text
	return s
}

// Example sets the documentation example.
func (s ObjectSchema) Example(v any) ObjectSchema {
	s.doc.Example = v
	return s
}

// Doc implements Schema.
func (s ObjectSchema) Doc() Doc { return s.doc }

// Fields returns a copy of the field definitions.
func (s ObjectSchema) Fields() []FieldDef { return slices.Clone(s.fields) }

// Names returns the field names in declaration order.
func (s ObjectSchema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Required returns the names of fields that are not Optional.
func (s ObjectSchema) Required() []string {
	var names []string
	for _, f := range s.fields {
		if !IsOptional(f.Schema) {
			names = append(names, f.Name)
		}
	}
	return names
}

// Shape returns the schema of the named field. It panics if there is no
// such field.
func (s ObjectSchema) Shape(name string) Schema {
	i := s.index(name)
	if i < 0 {
		panic(fmt.Sprintf("schema: no field %q", name))
	}
	return s.fields[i].Schema
}

// Pick returns a schema validating only the named fields. It panics if a
// name is not a field.
func (s ObjectSchema) Pick(names ...string) ObjectSchema {
	s.mustHave(names)
	out := ObjectSchema{doc: Doc{Description: s.doc.Description}}
	for _, f := range s.fields {
		if slices.Contains(names, f.Name) {
			out.fields = append(out.fields, f)
		}
	}
	return out
}

// Omit returns a schema without the named fields. It panics if a name is
// not a field.
func (s ObjectSchema) Omit(names ...string) ObjectSchema {
	s.mustHave(names)
	out := ObjectSchema{doc: Doc{Description: s.doc.Description}}
	for _, f := range s.fields {
		if !slices.Contains(names, f.Name) {
			out.fields = append(out.fields, f)
		}
	}
	return out
}

// Extend returns a schema with additional fields. A field with an existing
// name replaces the original in place.
func (s ObjectSchema) Extend(fields ...FieldDef) ObjectSchema {
	out := ObjectSchema{doc: s.doc, fields: slices.Clone(s.fields)}
	for _, f := range fields {
		if i := out.index(f.Name); i >= 0 {
			out.fields[i] = f
			continue
		}
		out.fields = append(out.fields, f)
	}
	return out
}

// Partial returns a schema where every field is Optional.
func (s ObjectSchema) Partial() ObjectSchema {
	out := ObjectSchema{doc: s.doc, fields: make([]FieldDef, len(s.fields))}
	for i, f := range s.fields {
		if !IsOptional(f.Schema) {
			f.Schema = Optional(f.Schema)
		}
		out.fields[i] = f
	}
	return out
}

func (s ObjectSchema) index(name string) int {
	return slices.IndexFunc(s.fields, func(f FieldDef) bool { return f.Name == name })
}

func (s ObjectSchema) mustHave(names []string) {
	for _, n := range names {
		if s.index(n) < 0 {
			panic(fmt.Sprintf("schema: no field %q", n))
		}
	}
}

func (s ObjectSchema) validate(v any, path string, issues *[]Issue) any {
	m, ok := v.(map[string]any)
	if !ok {
		typeMismatch(issues, path, "an object", v)
		return nil
	}

	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		fieldPath := joinPath(path, f.Name)
		raw, present := m[f.Name]
		if !present {
			if !IsOptional(f.Schema) {
				addIssue(issues, fieldPath, CodeRequired, "is required")
			}
			continue
		}
		out[f.Name] = f.Schema.validate(raw, fieldPath, issues)
	}
	return out
}

// OpenAPI implements Schema.
func (s ObjectSchema) OpenAPI() *openapi3.Schema {
	out := newTyped(openapi3.TypeObject, s.doc)
	out.Properties = make(openapi3.Schemas, len(s.fields))
	for _, f := range s.fields {
		out.Properties[f.Name] = openapi3.NewSchemaRef("", f.Schema.OpenAPI())
	}
	out.Required = s.Required()
	return out
}
