package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Schema describes the valid shape of a value. Implementations live in this
// package; compose them with the constructor functions.
type Schema interface {
	// Doc returns the documentation metadata attached to the schema.
	Doc() Doc

	// OpenAPI renders the schema as an OpenAPI 3 schema object.
	OpenAPI() *openapi3.Schema

	// validate checks v, appends failures rooted at path, and returns the
	// normalized value.
	validate(v any, path string, issues *[]Issue) any
}

// Doc holds documentation-only metadata. It never affects validation.
type Doc struct {
	Description string
	Example     any
}

// Issue codes.
const (
	CodeRequired       = "required"
	CodeInvalidType    = "invalid_type"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeInvalidFormat  = "invalid_format"
	CodeInvalidLiteral = "invalid_literal"
	CodeInvalidEnum    = "invalid_enum"
	CodeInvalidUnion   = "invalid_union"
	CodeNotInteger     = "not_integer"
	CodeMalformed      = "malformed"

	CodeUnsupportedMediaType = "unsupported_media_type"
)

// Issue describes a single validation failure.
type Issue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// String renders the issue as "path: message".
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Result is the outcome of a validation: either a normalized value or a
// non-empty, ordered list of issues.
type Result struct {
	value  any
	issues []Issue
}

// OK reports whether the value was valid.
func (r Result) OK() bool { return len(r.issues) == 0 }

// Value returns the normalized value. It is nil for invalid results.
func (r Result) Value() any { return r.value }

// Issues returns the failures, in the order they were found.
func (r Result) Issues() []Issue { return r.issues }

// Err returns a *ValidationError for invalid results and nil otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Issues: r.issues}
}

// ValidationError carries every issue found while validating a value.
type ValidationError struct {
	Issues []Issue
}

// Error summarizes the issues.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "validation failed: " + e.Issues[0].String()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("validation failed: %d issues: %s", len(e.Issues), strings.Join(parts, "; "))
}

// Validate checks raw against s. A nil raw value is treated as absent, so
// it is valid for Optional schemas.
func Validate(s Schema, raw any) Result {
	if raw == nil && IsOptional(s) {
		return Result{}
	}

	var issues []Issue
	v := s.validate(raw, "", &issues)
	if len(issues) > 0 {
		return Result{issues: issues}
	}
	return Result{value: v}
}

func addIssue(issues *[]Issue, path, code, format string, args ...any) {
	*issues = append(*issues, Issue{
		Path:    path,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

func typeMismatch(issues *[]Issue, path, want string, got any) {
	addIssue(issues, path, CodeInvalidType, "must be %s, got %s", want, typeName(got))
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func indexPath(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}

// typeName returns the JSON type name of a decoded value.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

// toFloat converts any decoded numeric value to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// toInt converts a decoded numeric value to int64 when it holds a whole
// number within the int64 range.
func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	}
	f, ok := toFloat(v)
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is out of range.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
