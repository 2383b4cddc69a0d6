package contract

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"unicode"
)

// Binder owns the set of bound contracts and the document metadata
// exported with them.
type Binder struct {
	title       string
	version     string
	description string

	contracts []*Contract
	shapes    map[string]*Contract
	ids       map[string]*Contract

	mu sync.RWMutex
}

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithTitle sets the document title.
func WithTitle(title string) BinderOption {
	return func(b *Binder) {
		b.title = title
	}
}

// WithVersion sets the document version.
func WithVersion(version string) BinderOption {
	return func(b *Binder) {
		b.version = version
	}
}

// WithDocDescription sets the document description.
func WithDocDescription(desc string) BinderOption {
	return func(b *Binder) {
		b.description = desc
	}
}

// NewBinder creates an empty Binder.
func NewBinder(opts ...BinderOption) *Binder {
	b := &Binder{
		title:   "API",
		version: "0.0.0",
		shapes:  make(map[string]*Contract),
		ids:     make(map[string]*Contract),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind validates and registers a contract. Definition errors are returned
// wrapped around one of the package sentinels; they are meant to stop the
// program at startup.
func (b *Binder) Bind(method, path string, opts ...Option) (*Contract, error) {
	m, err := methodName(method)
	if err != nil {
		return nil, err
	}
	segs, err := parseTemplate(path)
	if err != nil {
		return nil, err
	}

	bd := &binding{
		c: &Contract{
			Method:    m,
			Path:      path,
			responses: make(map[int]Response),
			segments:  segs,
		},
		contentTypes: make(map[int]string),
	}
	for _, opt := range opts {
		opt(bd)
	}
	if err := finish(bd); err != nil {
		return nil, fmt.Errorf("bind %s %s: %w", m, path, err)
	}
	c := bd.c

	b.mu.Lock()
	defer b.mu.Unlock()

	key := m + " " + shape(segs)
	if prior, ok := b.shapes[key]; ok {
		return nil, fmt.Errorf("%w: %s overlaps %s", ErrConflict, c, prior)
	}
	if prior, ok := b.ids[c.OperationID]; ok {
		return nil, fmt.Errorf("%w: %s reuses operationId %q of %s", ErrConflict, c, c.OperationID, prior)
	}

	b.shapes[key] = c
	b.ids[c.OperationID] = c
	b.contracts = append(b.contracts, c)
	return c, nil
}

// MustBind is like Bind but panics on error.
func (b *Binder) MustBind(method, path string, opts ...Option) *Contract {
	c, err := b.Bind(method, path, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Contracts returns the bound contracts in bind order.
func (b *Binder) Contracts() []*Contract {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.contracts)
}

// Match finds the contract for an escaped request path. Literal segments
// win over parameters; among equally specific templates the first bound
// wins.
func (b *Binder) Match(method, path string) (*Contract, Params, bool) {
	parts, ok := splitPath(path)
	if !ok {
		return nil, nil, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var (
		best   *Contract
		params Params
	)
	for _, c := range b.contracts {
		if c.Method != method {
			continue
		}
		p, ok := match(c.segments, parts)
		if !ok {
			continue
		}
		if best == nil || moreSpecific(c.segments, best.segments) {
			best, params = c, p
		}
	}
	return best, params, best != nil
}

// Title returns the document title.
func (b *Binder) Title() string { return b.title }

// Version returns the document version.
func (b *Binder) Version() string { return b.version }

// finish checks the accumulated options and fills defaults.
func finish(bd *binding) error {
	c := bd.c
	if err := errors.Join(bd.errs...); err != nil {
		return err
	}
	if err := checkParams(c); err != nil {
		return err
	}
	if len(c.responses) == 0 {
		return ErrNoResponses
	}

	for status, ct := range bd.contentTypes {
		r, ok := c.responses[status]
		if !ok {
			return fmt.Errorf("%w: content type set for undeclared status %d", ErrInvalidResponse, status)
		}
		r.ContentType = ct
		c.responses[status] = r
	}

	for status, r := range c.responses {
		if status < 100 || status > 599 {
			return fmt.Errorf("%w: status %d out of range", ErrInvalidResponse, status)
		}
		if status == http.StatusNoContent {
			if r.Schema != nil {
				return fmt.Errorf("%w: status 204 cannot carry a body", ErrInvalidResponse)
			}
			r.ContentType = ""
		} else {
			if r.Schema == nil {
				return fmt.Errorf("%w: status %d has no schema", ErrInvalidResponse, status)
			}
			if r.ContentType == "" {
				r.ContentType = ContentTypeJSON
			}
		}
		if r.Description == "" {
			r.Description = http.StatusText(status)
		}
		c.responses[status] = r
	}

	if _, ok := c.responses[http.StatusBadRequest]; !ok && c.Input.Declared() {
		c.responses[http.StatusBadRequest] = Response{
			Status:      http.StatusBadRequest,
			Description: "Invalid input",
			ContentType: ContentTypeJSON,
			Schema:      ErrorSchema,
		}
	}

	if c.OperationID == "" {
		c.OperationID = operationID(c)
	}
	return nil
}

func checkParams(c *Contract) error {
	names := c.Params()
	if c.Input.Path == nil {
		if len(names) > 0 {
			return fmt.Errorf("%w: template has %v but no path schema", ErrParamMismatch, names)
		}
		return nil
	}

	fields := c.Input.Path.Names()
	slices.Sort(names)
	slices.Sort(fields)
	if !slices.Equal(names, fields) {
		return fmt.Errorf("%w: template has %v, schema has %v", ErrParamMismatch, names, fields)
	}
	return nil
}

// operationID derives an identifier such as "getUsersById" from the
// method and template.
func operationID(c *Contract) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(c.Method))
	for i, seg := range c.segments {
		if seg.param != "" {
			if i > 0 {
				b.WriteString("By")
			}
			b.WriteString(capitalize(seg.param))
			continue
		}
		b.WriteString(capitalize(seg.literal))
	}
	return b.String()
}

func capitalize(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
