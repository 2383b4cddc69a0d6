package contract

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bjaus/usersapi/schema"
)

// Sentinel errors returned by Bind. Matching is done with errors.Is.
var (
	ErrConflict        = errors.New("contract conflict")
	ErrInvalidMethod   = errors.New("invalid method")
	ErrInvalidTemplate = errors.New("invalid path template")
	ErrParamMismatch   = errors.New("path parameters do not match path schema")
	ErrNoResponses     = errors.New("no responses declared")
	ErrInvalidResponse = errors.New("invalid response")
)

// Content types understood by the dispatcher codecs.
const (
	ContentTypeJSON = "application/json"
	ContentTypeYAML = "application/yaml"
)

// Input holds the schemas for each request part. A nil part is not read
// from the request.
type Input struct {
	Path      *schema.ObjectSchema
	Query     *schema.ObjectSchema
	Body      schema.Schema
	BodyTypes []string
}

// Declared reports whether any request part carries a schema.
func (in Input) Declared() bool {
	return in.Path != nil || in.Query != nil || in.Body != nil
}

// AcceptsBody reports whether contentType is one of the declared body types.
func (in Input) AcceptsBody(contentType string) bool {
	return slices.Contains(in.BodyTypes, contentType)
}

// Response is one legal outcome of a contract. Schema is nil only for 204.
type Response struct {
	Status      int
	Description string
	ContentType string
	Schema      schema.Schema
}

// Contract binds a method and path template to its input schemas and the
// set of responses a handler may produce.
type Contract struct {
	Method      string
	Path        string
	Input       Input
	Summary     string
	Description string
	Tags        []string
	OperationID string
	Deprecated  bool

	responses map[int]Response
	segments  []segment
}

// String returns "METHOD /path".
func (c *Contract) String() string { return c.Method + " " + c.Path }

// Response returns the response declared for status.
func (c *Contract) Response(status int) (Response, bool) {
	r, ok := c.responses[status]
	return r, ok
}

// Statuses returns the declared status codes in ascending order.
func (c *Contract) Statuses() []int {
	out := make([]int, 0, len(c.responses))
	for status := range c.responses {
		out = append(out, status)
	}
	slices.Sort(out)
	return out
}

// Params returns the parameter names of the path template, in order.
func (c *Contract) Params() []string {
	var out []string
	for _, seg := range c.segments {
		if seg.param != "" {
			out = append(out, seg.param)
		}
	}
	return out
}

// Error kinds carried by ErrorBody.
const (
	KindInvalidInput = "invalid_input"
	KindNotFound     = "not_found"
	KindInternal     = "internal_error"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Issues  []schema.Issue `json:"issues,omitempty"`
}

// IssueSchema describes a single validation failure on the wire.
var IssueSchema = schema.Object(
	schema.Field("path", schema.String().Describe("Location of the failing value").Example("name")),
	schema.Field("code", schema.String().Describe("Machine-readable failure code").Example(schema.CodeRequired)),
	schema.Field("message", schema.String().Describe("Human-readable reason").Example("is required")),
)

// ErrorSchema validates ErrorBody.
var ErrorSchema = schema.Object(
	schema.Field("error", schema.String().Min(1).Describe("Error kind").Example(KindNotFound)),
	schema.Field("message", schema.Optional(schema.String().Describe("Error detail").Example("User not found"))),
	schema.Field("issues", schema.Optional(schema.Array(IssueSchema).Describe("Field-level validation failures"))),
).Describe("Error response")

func methodName(m string) (string, error) {
	m = strings.ToUpper(m)
	switch m {
	case "GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "TRACE":
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, m)
	}
}
