package schema

import (
	"math"

	"github.com/getkin/kin-openapi/openapi3"
)

// NumberSchema validates JSON numbers, optionally restricted to integers.
type NumberSchema struct {
	doc     Doc
	integer bool
	bounds  rangeBounds
}

// Number returns a schema accepting any number. Valid values normalize to float64.
func Number() NumberSchema { return NumberSchema{} }

// Int returns a schema accepting whole numbers. Valid values normalize to int64.
func Int() NumberSchema { return NumberSchema{integer: true} }

// Min sets an inclusive lower bound.
func (s NumberSchema) Min(n float64) NumberSchema {
	s.bounds.min = ptr(n)
	return s
}

// Max sets an inclusive upper bound.
func (s NumberSchema) Max(n float64) NumberSchema {
	s.bounds.max = ptr(n)
	return s
}

// Describe sets the documentation description.
func (s NumberSchema) Describe(text string) NumberSchema {
	s.doc.Description = text
	return s
}

// Example sets the documentation example.
func (s NumberSchema) Example(v any) NumberSchema {
	s.doc.Example = v
	return s
}

// Doc implements Schema.
func (s NumberSchema) Doc() Doc { return s.doc }

func (s NumberSchema) validate(v any, path string, issues *[]Issue) any {
	f, ok := toFloat(v)
	if !ok {
		typeMismatch(issues, path, "a number", v)
		return nil
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		addIssue(issues, path, CodeInvalidType, "must be a finite number")
		return nil
	}

	if s.integer {
		n, whole := toInt(v)
		switch {
		case whole:
		case f != math.Trunc(f):
			addIssue(issues, path, CodeNotInteger, "must be an integer")
			return nil
		case f < 0:
			addIssue(issues, path, CodeTooSmall, "must fit in a 64-bit integer")
			return nil
		default:
			addIssue(issues, path, CodeTooBig, "must fit in a 64-bit integer")
			return nil
		}
		s.bounds.check(f, path, issues)
		return n
	}

	s.bounds.check(f, path, issues)
	return f
}

// OpenAPI implements Schema.
func (s NumberSchema) OpenAPI() *openapi3.Schema {
	typ := openapi3.TypeNumber
	if s.integer {
		typ = openapi3.TypeInteger
	}
	out := newTyped(typ, s.doc)
	out.Min = s.bounds.min
	out.Max = s.bounds.max
	return out
}

// BoolSchema validates booleans.
type BoolSchema struct {
	doc Doc
}

// Bool returns a schema accepting true or false.
func Bool() BoolSchema { return BoolSchema{} }

// Describe sets the documentation description.
func (s BoolSchema) Describe(text string) BoolSchema {
	s.doc.Description = text
	return s
}

// Example sets the documentation example.
func (s BoolSchema) Example(v bool) BoolSchema {
	s.doc.Example = v
	return s
}

// Doc implements Schema.
func (s BoolSchema) Doc() Doc { return s.doc }

func (s BoolSchema) validate(v any, path string, issues *[]Issue) any {
	b, ok := v.(bool)
	if !ok {
		typeMismatch(issues, path, "a boolean", v)
		return nil
	}
	return b
}

// OpenAPI implements Schema.
func (s BoolSchema) OpenAPI() *openapi3.Schema {
	return newTyped(openapi3.TypeBoolean, s.doc)
}
