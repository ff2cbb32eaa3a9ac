package generator

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies pipeline failures. The HTTP layer turns a Kind into a
// fixed status code and user-facing message.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindTimeout
	KindUpstream
	KindMalformedResponse
	KindJSONExtraction
	KindInvalidJSON
	KindMissingField
)

var kindNames = map[Kind]string{
	KindInternal:          "internal",
	KindBadRequest:        "bad_request",
	KindTimeout:           "timeout",
	KindUpstream:          "upstream_error",
	KindMalformedResponse: "malformed_upstream_response",
	KindJSONExtraction:    "json_extraction_failed",
	KindInvalidJSON:       "invalid_json",
	KindMissingField:      "missing_field",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type produced by the pipelines.
type Error struct {
	Kind Kind
	// Status is the upstream HTTP status (KindUpstream only).
	Status int
	// Field names the offending request or reply field.
	Field string
	// Body holds raw upstream diagnostics. Log it, never send it to clients.
	Body string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" field=%s", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or KindInternal.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return KindInternal
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
