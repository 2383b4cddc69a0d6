package dispatch

import (
	"errors"
	"fmt"

	"github.com/bjaus/usersapi/contract"
	"github.com/bjaus/usersapi/schema"
)

// Registration and runtime errors.
var (
	ErrUndeclaredStatus = errors.New("undeclared response status")
	ErrNoHandler        = errors.New("no handler")
	ErrDuplicateHandler = errors.New("handler already registered")
	ErrUnknownContract  = errors.New("contract not bound to this dispatcher")
	ErrNoCodec          = errors.New("no codec for content type")
)

// OutputContractViolation reports a handler body that failed the schema
// declared for its status. It is logged and never shown to the client.
type OutputContractViolation struct {
	Contract *contract.Contract
	Status   int
	Issues   []schema.Issue
}

// Error implements error.
func (e *OutputContractViolation) Error() string {
	return fmt.Sprintf("output contract violation: %s responded %d: %s",
		e.Contract, e.Status, e.Unwrap())
}

// Unwrap exposes the issues as a *schema.ValidationError.
func (e *OutputContractViolation) Unwrap() error {
	return &schema.ValidationError{Issues: e.Issues}
}
