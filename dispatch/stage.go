package dispatch

import (
	"time"

	"github.com/bjaus/usersapi/contract"
)

// Stage is a step of the per-request state machine. The happy path is
// Received, InputValidated, Handled, OutputValidated, Sent.
type Stage int

const (
	Received Stage = iota
	InputValidated
	Handled
	OutputValidated
	Sent

	// InputRejected ends a request whose input failed validation. The
	// handler did not run.
	InputRejected
	// OutputRejected ends a request whose reply broke the contract.
	OutputRejected
	// Unmatched ends a request that fit no contract.
	Unmatched
	// Failed ends a request whose handler returned an error.
	Failed
)

var stageNames = [...]string{
	Received:        "received",
	InputValidated:  "input_validated",
	Handled:         "handled",
	OutputValidated: "output_validated",
	Sent:            "sent",
	InputRejected:   "input_rejected",
	OutputRejected:  "output_rejected",
	Unmatched:       "unmatched",
	Failed:          "failed",
}

// String returns the snake_case stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Outcome summarizes a finished request. Stage is the last stage reached
// and Status the status written to the client.
type Outcome struct {
	Contract *contract.Contract
	Stage    Stage
	Status   int
	Err      error
	Duration time.Duration
}
