// Package rerrors maps transport and codec failures onto the stable
// taxonomy every layer above the wire relies on: ConnectionLost,
// Protocol, ServerError, PipelinePartial, SubscribedMode,
// InvalidState, Unsupported, and PoolExhausted.
package rerrors

import (
	"errors"
	"fmt"
)

// Kind tags a TaxonomyError's category.
type Kind int

const (
	ConnectionLost Kind = iota
	Protocol
	ServerErrorKind
	PipelinePartialKind
	SubscribedMode
	InvalidState
	Unsupported
	PoolExhausted
)

func (k Kind) String() string {
	switch k {
	case ConnectionLost:
		return "ConnectionLost"
	case Protocol:
		return "Protocol"
	case ServerErrorKind:
		return "ServerError"
	case PipelinePartialKind:
		return "PipelinePartial"
	case SubscribedMode:
		return "SubscribedMode"
	case InvalidState:
		return "InvalidState"
	case Unsupported:
		return "Unsupported"
	case PoolExhausted:
		return "PoolExhausted"
	default:
		return "Unknown"
	}
}

// TaxonomyError is the uniform error shape surfaced to callers. It
// always carries the original cause so callers that need driver
// detail can unwrap to it.
type TaxonomyError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *TaxonomyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("redisconn: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("redisconn: %s: %s", e.Kind, e.Message)
}

func (e *TaxonomyError) Unwrap() error { return e.Cause }

// Is reports whether target is a *TaxonomyError of the same Kind,
// so callers can write errors.Is(err, rerrors.ErrConnectionLost) etc.
func (e *TaxonomyError) Is(target error) bool {
	var t *TaxonomyError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New builds a TaxonomyError with no underlying cause.
func New(kind Kind, message string) error {
	return &TaxonomyError{Kind: kind, Message: message}
}

// Wrap builds a TaxonomyError around cause.
func Wrap(kind Kind, message string, cause error) error {
	return &TaxonomyError{Kind: kind, Message: message, Cause: cause}
}

// Sentinel instances for errors.Is comparisons against a fixed Kind,
// mirroring the flat var-block style of the teacher's storage/errors.go.
var (
	ErrConnectionLost = &TaxonomyError{Kind: ConnectionLost, Message: "connection lost"}
	ErrProtocol       = &TaxonomyError{Kind: Protocol, Message: "protocol violation"}
	ErrSubscribedMode = &TaxonomyError{Kind: SubscribedMode, Message: "connection is in subscribed mode"}
	ErrInvalidState   = &TaxonomyError{Kind: InvalidState, Message: "invalid state transition"}
	ErrUnsupported    = &TaxonomyError{Kind: Unsupported, Message: "operation not supported in current mode"}
	ErrPoolExhausted  = &TaxonomyError{Kind: PoolExhausted, Message: "pool exhausted"}
)

// ServerError is a reply of kind Error surfaced verbatim from the
// server, carrying its message as Detail.
type ServerError struct {
	Detail string
}

func (e *ServerError) Error() string { return fmt.Sprintf("redisconn: server error: %s", e.Detail) }

// NewServerError wraps a ServerError as a TaxonomyError of kind ServerErrorKind.
func NewServerError(detail string) error {
	return &TaxonomyError{Kind: ServerErrorKind, Message: "server returned an error", Cause: &ServerError{Detail: detail}}
}

// Prefix returns the first word of a server error message, the
// conventional error-kind marker (e.g. "ERR", "WRONGTYPE").
func (e *ServerError) Prefix() string {
	for i, r := range e.Detail {
		if r == ' ' {
			return e.Detail[:i]
		}
	}
	return e.Detail
}

// Outcome is one positional result of a flushed pipeline: either a
// typed value (opaque to this package) or an error.
type Outcome struct {
	Value any
	Err   error
}

// PipelineError is raised by closePipeline whenever one or more
// commands in the batch failed; it always carries the full ordered
// outcome list so callers can locate failed slots.
type PipelineError struct {
	Outcomes []Outcome
}

func (e *PipelineError) Error() string {
	failed := 0
	for _, o := range e.Outcomes {
		if o.Err != nil {
			failed++
		}
	}
	return fmt.Sprintf("redisconn: PipelinePartial: %d of %d commands failed", failed, len(e.Outcomes))
}

// NewPipelineError builds a TaxonomyError of kind PipelinePartialKind
// wrapping a *PipelineError with the ordered outcomes.
func NewPipelineError(outcomes []Outcome) error {
	return &TaxonomyError{
		Kind:    PipelinePartialKind,
		Message: "one or more pipelined commands failed",
		Cause:   &PipelineError{Outcomes: outcomes},
	}
}
