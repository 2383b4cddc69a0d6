package contract

import (
	"fmt"

	"github.com/bjaus/usersapi/schema"
)

// binding accumulates options for a single Bind call.
type binding struct {
	c            *Contract
	contentTypes map[int]string
	errs         []error
}

func (b *binding) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}

// Option configures a contract at bind time.
type Option func(*binding)

// WithPathParams sets the schema for path template parameters. Its field
// names must equal the template's parameter names.
func WithPathParams(s schema.ObjectSchema) Option {
	return func(b *binding) {
		b.c.Input.Path = &s
	}
}

// WithQuery sets the schema for query parameters. A parameter given once
// is validated as a string, a repeated one as an array of strings.
func WithQuery(s schema.ObjectSchema) Option {
	return func(b *binding) {
		b.c.Input.Query = &s
	}
}

// WithBody sets the request body schema and the content types it may be
// sent as. JSON is assumed when none are given.
func WithBody(s schema.Schema, contentTypes ...string) Option {
	return func(b *binding) {
		if len(contentTypes) == 0 {
			contentTypes = []string{ContentTypeJSON}
		}
		b.c.Input.Body = s
		b.c.Input.BodyTypes = contentTypes
	}
}

// WithResponse declares a legal response. The schema must be nil for 204
// and non-nil otherwise.
func WithResponse(status int, description string, s schema.Schema) Option {
	return func(b *binding) {
		if _, dup := b.c.responses[status]; dup {
			b.fail("%w: status %d declared twice", ErrInvalidResponse, status)
			return
		}
		b.c.responses[status] = Response{
			Status:      status,
			Description: description,
			Schema:      s,
		}
	}
}

// WithResponseType overrides the content type of a declared response.
func WithResponseType(status int, contentType string) Option {
	return func(b *binding) {
		b.contentTypes[status] = contentType
	}
}

// WithSummary sets the summary shown in the exported document.
func WithSummary(s string) Option {
	return func(b *binding) {
		b.c.Summary = s
	}
}

// WithDescription sets the long description of the operation.
func WithDescription(d string) Option {
	return func(b *binding) {
		b.c.Description = d
	}
}

// WithTags adds tags to the operation.
func WithTags(tags ...string) Option {
	return func(b *binding) {
		b.c.Tags = append(b.c.Tags, tags...)
	}
}

// WithOperationID sets the operationId. One is generated from the method
// and path when unset.
func WithOperationID(id string) Option {
	return func(b *binding) {
		b.c.OperationID = id
	}
}

// WithDeprecated marks the operation as deprecated.
func WithDeprecated() Option {
	return func(b *binding) {
		b.c.Deprecated = true
	}
}
