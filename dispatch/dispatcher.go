package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bjaus/usersapi/contract"
	"github.com/bjaus/usersapi/schema"
)

// Void is used as the request type of handlers that read no input.
type Void struct{}

// Reply is what a handler returns: one of the contract's declared
// statuses and a body for its schema.
type Reply struct {
	Status int
	Body   any
}

// Respond builds a Reply.
func Respond(status int, body any) Reply {
	return Reply{Status: status, Body: body}
}

// Handler serves one contract. Req receives the validated input through
// fields tagged json:"path", json:"query" and json:"body". The store is
// passed in explicitly so tests can give each dispatcher its own.
type Handler[S, Req any] func(ctx context.Context, req *Req, store S) (Reply, error)

// endpoint is a Handler with its request type erased.
type endpoint[S any] func(ctx context.Context, input map[string]any, store S) (Reply, error)

// Option configures a Dispatcher.
type Option func(*options)

type options struct {
	logger    zerolog.Logger
	observers []func(*http.Request, Outcome)
	encoders  []Encoder
	decoders  []Decoder
}

// WithLogger sets the logger used when no request-scoped logger is found
// in the request context.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithObserver registers a function called with the outcome of every
// request after the response is written.
func WithObserver(fn func(*http.Request, Outcome)) Option {
	return func(o *options) {
		o.observers = append(o.observers, fn)
	}
}

// WithEncoder registers a response encoder.
func WithEncoder(enc Encoder) Option {
	return func(o *options) {
		o.encoders = append(o.encoders, enc)
	}
}

// WithDecoder registers a request body decoder.
func WithDecoder(dec Decoder) Option {
	return func(o *options) {
		o.decoders = append(o.decoders, dec)
	}
}

// Dispatcher serves the contracts of a Binder. For every request it runs
// match, input validation, the handler, output validation and
// serialization, strictly in that order. It implements http.Handler.
type Dispatcher[S any] struct {
	binder    *contract.Binder
	store     S
	logger    zerolog.Logger
	observers []func(*http.Request, Outcome)
	codecs    *codecRegistry

	handlers map[*contract.Contract]endpoint[S]
	mu       sync.RWMutex
}

// New creates a Dispatcher over the contracts of binder. The store is
// handed to every handler.
func New[S any](binder *contract.Binder, store S, opts ...Option) *Dispatcher[S] {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Dispatcher[S]{
		binder:    binder,
		store:     store,
		logger:    o.logger,
		observers: o.observers,
		codecs:    newCodecRegistry(o.encoders, o.decoders),
		handlers:  make(map[*contract.Contract]endpoint[S]),
	}
}

// Binder returns the binder whose contracts are served.
func (d *Dispatcher[S]) Binder() *contract.Binder { return d.binder }

// Handle attaches h to c. The contract must come from the dispatcher's
// binder, have no handler yet, and use only content types with a codec.
func Handle[S, Req any](d *Dispatcher[S], c *contract.Contract, h Handler[S, Req]) error {
	if c == nil || h == nil {
		return fmt.Errorf("%w: nil contract or handler", ErrNoHandler)
	}
	if !slices.Contains(d.binder.Contracts(), c) {
		return fmt.Errorf("%w: %s", ErrUnknownContract, c)
	}
	if err := d.codecs.check(c); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, dup := d.handlers[c]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, c)
	}
	d.handlers[c] = func(ctx context.Context, input map[string]any, store S) (Reply, error) {
		req := new(Req)
		if _, void := any(req).(*Void); !void {
			if err := schema.Decode(input, req); err != nil {
				return Reply{}, fmt.Errorf("decode input for %s: %w", c, err)
			}
		}
		return h(ctx, req, store)
	}
	return nil
}

// Verify reports every bound contract that has no handler.
func (d *Dispatcher[S]) Verify() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var missing []string
	for _, c := range d.binder.Contracts() {
		if _, ok := d.handlers[c]; !ok {
			missing = append(missing, c.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrNoHandler, strings.Join(missing, ", "))
	}
	return nil
}

func (d *Dispatcher[S]) endpoint(c *contract.Contract) (endpoint[S], bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, ok := d.handlers[c]
	return h, ok
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher[S]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	out := Outcome{Stage: Received}
	defer func() {
		out.Duration = time.Since(start)
		for _, fn := range d.observers {
			fn(r, out)
		}
	}()

	c, params, ok := d.binder.Match(r.Method, r.URL.EscapedPath())
	if !ok {
		out.Stage, out.Status = Unmatched, http.StatusNotFound
		writeError(w, out.Status, contract.ErrorBody{
			Error:   contract.KindNotFound,
			Message: "No route for " + r.Method + " " + r.URL.Path,
		})
		return
	}
	out.Contract = c

	h, ok := d.endpoint(c)
	if !ok {
		d.fail(w, r, &out, Failed, fmt.Errorf("%w: %s", ErrNoHandler, c))
		return
	}

	input, issues := d.readInput(r, c, params)
	if len(issues) > 0 {
		out.Stage = InputRejected
		d.send(w, r, &out, Reply{
			Status: http.StatusBadRequest,
			Body: contract.ErrorBody{
				Error:   contract.KindInvalidInput,
				Message: "Request validation failed",
				Issues:  issues,
			},
		})
		return
	}
	out.Stage = InputValidated

	reply, err := h(r.Context(), input, d.store)
	if err != nil {
		d.fail(w, r, &out, Failed, err)
		return
	}
	out.Stage = Handled

	d.send(w, r, &out, reply)
}

// send validates reply against the contract and writes it. It is used for
// handler replies and for input rejections alike.
func (d *Dispatcher[S]) send(w http.ResponseWriter, r *http.Request, out *Outcome, reply Reply) {
	c := out.Contract
	resp, ok := c.Response(reply.Status)
	if !ok {
		d.fail(w, r, out, OutputRejected, fmt.Errorf("%w: %s responded %d", ErrUndeclaredStatus, c, reply.Status))
		return
	}

	if resp.Schema == nil {
		if reply.Body != nil {
			d.fail(w, r, out, OutputRejected, &OutputContractViolation{
				Contract: c,
				Status:   reply.Status,
				Issues:   []schema.Issue{{Code: schema.CodeInvalidType, Message: "must be empty"}},
			})
			return
		}
		if out.Stage == Handled {
			out.Stage = OutputValidated
		}
		w.WriteHeader(reply.Status)
		d.sent(out, reply.Status)
		return
	}

	res := schema.Check(resp.Schema, reply.Body)
	if !res.OK() {
		d.fail(w, r, out, OutputRejected, &OutputContractViolation{
			Contract: c,
			Status:   reply.Status,
			Issues:   res.Issues(),
		})
		return
	}
	if out.Stage == Handled {
		out.Stage = OutputValidated
	}

	enc, _ := d.codecs.encoderFor(resp.ContentType)
	body, err := encode(enc, res.Value())
	if err != nil {
		d.fail(w, r, out, OutputRejected, fmt.Errorf("encode %s response: %w", resp.ContentType, err))
		return
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(reply.Status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	w.Write(body)
	d.sent(out, reply.Status)
}

// sent records a written response. Input rejections keep their stage.
func (d *Dispatcher[S]) sent(out *Outcome, status int) {
	out.Status = status
	if out.Stage == OutputValidated {
		out.Stage = Sent
	}
}

// fail logs err and answers with an opaque 500.
func (d *Dispatcher[S]) fail(w http.ResponseWriter, r *http.Request, out *Outcome, stage Stage, err error) {
	out.Stage, out.Status, out.Err = stage, http.StatusInternalServerError, err

	ev := d.log(r).Error().Err(err).Str("stage", stage.String())
	if out.Contract != nil {
		ev = ev.Str("contract", out.Contract.String())
	}
	var violation *OutputContractViolation
	if errors.As(err, &violation) {
		ev = ev.Int("status", violation.Status).Interface("issues", violation.Issues)
	}
	ev.Msg("request failed")

	writeError(w, http.StatusInternalServerError, contract.ErrorBody{
		Error:   contract.KindInternal,
		Message: "Internal server error",
	})
}

// log prefers the request-scoped logger placed in the context by the
// server middleware.
func (d *Dispatcher[S]) log(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &d.logger
}

// writeError writes an error body outside the contract check. It is used
// for unmatched routes and internal failures only.
func writeError(w http.ResponseWriter, status int, body contract.ErrorBody) {
	w.Header().Set("Content-Type", contract.ContentTypeJSON)
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	jsonCodec{}.Encode(w, body)
}
