package schema

import (
	"regexp"

	"github.com/getkin/kin-openapi/openapi3"
)

// StringSchema validates strings. The zero value accepts any string.
type StringSchema struct {
	doc     Doc
	length  lengthBounds
	pattern *regexp.Regexp
	format  Format
	enum    []string
}

// String returns a schema accepting any string.
func String() StringSchema { return StringSchema{} }

// Min requires at least n characters.
func (s StringSchema) Min(n int) StringSchema {
	s.length.min = ptr(n)
	return s
}

// Max allows at most n characters.
func (s StringSchema) Max(n int) StringSchema {
	s.length.max = ptr(n)
	return s
}

// Pattern requires the value to match expr. It panics if expr does not compile.
func (s StringSchema) Pattern(expr string) StringSchema {
	s.pattern = regexp.MustCompile(expr)
	return s
}

// Email requires a syntactically valid email address.
func (s StringSchema) Email() StringSchema {
	s.format = FormatEmail
	return s
}

// DateTime requires an ISO-8601 (RFC 3339) timestamp.
func (s StringSchema) DateTime() StringSchema {
	s.format = FormatDateTime
	return s
}

// Enum restricts the value to one of the given strings.
func (s StringSchema) Enum(values ...string) StringSchema {
	s.enum = append([]string(nil), values...)
	return s
}

// Describe sets the documentation description.
func (s StringSchema) Describe(text string) StringSchema {
	s.doc.Description = text
	return s
}

// Example sets the documentation example.
func (s StringSchema) Example(v string) StringSchema {
	s.doc.Example = v
	return s
}

// Doc implements Schema.
func (s StringSchema) Doc() Doc { return s.doc }

func (s StringSchema) validate(v any, path string, issues *[]Issue) any {
	val, ok := v.(string)
	if !ok {
		typeMismatch(issues, path, "a string", v)
		return nil
	}

	s.length.check(val, path, issues)
	checkPattern(s.pattern, val, path, issues)
	checkFormat(s.format, val, path, issues)
	checkEnum(s.enum, val, path, issues)
	return val
}

// OpenAPI implements Schema.
func (s StringSchema) OpenAPI() *openapi3.Schema {
	out := newTyped(openapi3.TypeString, s.doc)
	out.Format = string(s.format)
	if s.length.min != nil {
		out.MinLength = uint64(*s.length.min)
	}
	if s.length.max != nil {
		out.MaxLength = ptr(uint64(*s.length.max))
	}
	if s.pattern != nil {
		out.Pattern = s.pattern.String()
	}
	for _, e := range s.enum {
		out.Enum = append(out.Enum, e)
	}
	return out
}
