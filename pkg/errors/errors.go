// Package errors defines the coded failure taxonomy shared by the service
// and its HTTP layers. Every error that crosses a package boundary carries
// one of the Codes below; transport code maps it to a status and public
// message via MetadataFor.
package errors

import (
	stdErrors "errors"
	"net/http"
)

type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeInternal   Code = "INTERNAL_ERROR"
	CodeDependency Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code surfaces over HTTP. DetailsAllowed gates
// whether the error's details payload may reach clients.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {HTTPStatus: http.StatusBadRequest, PublicMessage: "validation failed", DetailsAllowed: true},
	CodeNotFound:   {HTTPStatus: http.StatusNotFound, PublicMessage: "resource not found"},
	CodeConflict:   {HTTPStatus: http.StatusConflict, PublicMessage: "conflict detected"},
	CodeInternal:   {HTTPStatus: http.StatusInternalServerError, Retryable: true, PublicMessage: "internal server error"},
	CodeDependency: {HTTPStatus: http.StatusServiceUnavailable, Retryable: true, PublicMessage: "dependency unavailable", DetailsAllowed: true},
}

// MetadataFor returns the transport metadata for a code. Unknown codes fall
// back to the internal-error row.
func MetadataFor(code Code) Metadata {
	meta, ok := metadataByCode[code]
	if !ok {
		meta = metadataByCode[CodeInternal]
	}
	return meta
}

// Error is a coded error. The message is shown to users for the codes whose
// metadata permits it; the cause stays internal and is only logged. All
// methods tolerate a nil receiver.
type Error struct {
	kind   Code
	text   string
	fields any
	err    error
}

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{kind: code, text: message}
}

// Wrap attaches a code and caller message to an underlying error. The cause
// stays reachable through Unwrap; a nil err simply leaves no cause.
func Wrap(code Code, err error, message string) *Error {
	return &Error{kind: code, text: message, err: err}
}

func (e *Error) Code() Code {
	if e != nil {
		return e.kind
	}
	return CodeInternal
}

func (e *Error) Message() string {
	if e != nil {
		return e.text
	}
	return ""
}

func (e *Error) Details() any {
	if e != nil {
		return e.fields
	}
	return nil
}

func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.fields = details
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return string(e.kind) + ": " + e.text
}

func (e *Error) Unwrap() error {
	if e != nil {
		return e.err
	}
	return nil
}

// As extracts the first *Error in err's chain, or nil when there is none.
func As(err error) *Error {
	var typed *Error
	if !stdErrors.As(err, &typed) {
		return nil
	}
	return typed
}
