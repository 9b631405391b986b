package pkgerror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is what storage returns for an unknown key.
var ErrNotFound = errors.New("resource not found")

// Type is the coarse bucket an error falls into.
type Type int

const (
	TypeServer Type = iota
	TypeBusiness
	TypeValidation
)

var typeNames = map[Type]string{
	TypeServer:     "ERROR_TYPE_SERVER",
	TypeBusiness:   "ERROR_TYPE_BUSINESS",
	TypeValidation: "ERROR_TYPE_VALIDATION",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "ERROR_TYPE_UNKNOWN"
}

// Code decides the HTTP status an error is answered with.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	CodeUnauthorized
	CodeForbidden
	CodeTimeout
	// CodeNotImplemented marks controls that exist only as placeholders.
	CodeNotImplemented
	// CodeUnavailable means the request is fine but capacity ran out; retry later.
	CodeUnavailable
)

type codeInfo struct {
	name   string
	status int
}

var codes = map[Code]codeInfo{
	CodeInternal:       {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat:  {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:   {"ERROR_CODE_INVALID_INPUT", http.StatusUnprocessableEntity},
	CodeNotFound:       {"ERROR_CODE_NOT_FOUND", http.StatusNotFound},
	CodeConflict:       {"ERROR_CODE_CONFLICT", http.StatusConflict},
	CodeUnauthorized:   {"ERROR_CODE_UNAUTHORIZED", http.StatusUnauthorized},
	CodeForbidden:      {"ERROR_CODE_FORBIDDEN", http.StatusForbidden},
	CodeTimeout:        {"ERROR_CODE_TIMEOUT", http.StatusRequestTimeout},
	CodeNotImplemented: {"ERROR_CODE_NOT_IMPLEMENTED", http.StatusNotImplemented},
	CodeUnavailable:    {"ERROR_CODE_UNAVAILABLE", http.StatusServiceUnavailable},
}

func (c Code) info() codeInfo {
	if info, ok := codes[c]; ok {
		return info
	}
	return codes[CodeInternal]
}

func (c Code) String() string {
	return c.info().name
}

// Error carries a user-facing message, a Type and a Code, optionally
// wrapping the error that caused it.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
}

var fallbackMessages = map[Type]string{
	TypeValidation: "Validation violation",
	TypeBusiness:   "Logical business not meet with requirement",
	TypeServer:     "Internal error",
}

func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	}

	if msg, ok := fallbackMessages[e.errType]; ok {
		return msg
	}
	return "Unknown error"
}

// String is the verbose form used in server-side logs.
func (e *Error) String() string {
	return fmt.Sprintf("Error Type: %s, Code: %s, Message: %s, Underlying Error: %v", e.errType, e.code, e.msg, e.err)
}

func (e *Error) Msg() string { return e.msg }

func (e *Error) Type() Type { return e.errType }

func (e *Error) Code() Code { return e.code }

func (e *Error) Unwrap() error { return e.err }

func (e *Error) StatusCode() int {
	return e.code.info().status
}

// HasCode reports whether err is, or wraps, an *Error with the given code.
func HasCode(err error, code Code) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.code == code
}

func new(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer hides err behind a generic message; the router logs the detail.
func NewServer(err error) error {
	return new(err, "Internal server error", TypeServer, CodeInternal)
}

func NewBusiness(msg string, code Code) error {
	return new(nil, msg, TypeBusiness, code)
}

func NewInvalidInput(err error) error {
	return new(err, "validation error", TypeValidation, CodeInvalidInput)
}

func NewInvalidFormat() error {
	return new(nil, "invalid request body", TypeValidation, CodeInvalidFormat)
}

func NewNotImplemented(msg string) error {
	return new(nil, msg, TypeBusiness, CodeNotImplemented)
}

// NewUnavailable reports a temporary capacity problem (503).
func NewUnavailable(msg string) error {
	return new(nil, msg, TypeBusiness, CodeUnavailable)
}
