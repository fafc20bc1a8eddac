// Package errors classifies the failures the game server can run into so the
// dispatch boundary can decide what to do with a misbehaving connection.
package errors

import (
	"errors"
	"fmt"
)

const (
	// CodeTransport covers a peer closing or resetting its socket.
	CodeTransport = "TRANSPORT"
	// CodeProtocol covers frames or payloads that do not follow the wire format.
	CodeProtocol = "PROTOCOL"
	// CodeLogic covers well-formed messages that make no sense in the current state.
	CodeLogic = "LOGIC"
)

// AppError is an error carrying a taxonomy code.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Details != "" {
		msg = msg + " (" + e.Details + ")"
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code and message so predefined errors stay distinguishable
// after WithDetails or Wrap.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates an AppError.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches a cause to a copy of the given error.
func Wrap(base *AppError, err error) *AppError {
	return &AppError{
		Code:    base.Code,
		Message: base.Message,
		Details: base.Details,
		Err:     err,
	}
}

// WithDetails returns a copy of e with extra details.
func (e *AppError) WithDetails(format string, args ...any) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: fmt.Sprintf(format, args...),
		Err:     e.Err,
	}
}

var (
	ErrPeerClosed = New(CodeTransport, "peer closed the connection")
	ErrConnReset  = New(CodeTransport, "connection failed")

	ErrFrameTooLarge    = New(CodeProtocol, "declared frame length exceeds limit")
	ErrMalformedPayload = New(CodeProtocol, "malformed payload")
	ErrMissingField     = New(CodeProtocol, "missing required body field")
	ErrUnknownHeader    = New(CodeProtocol, "unknown message header")

	ErrNotInMatch    = New(CodeLogic, "endpoint is not in a match")
	ErrAlreadyJoined = New(CodeLogic, "endpoint already waiting or playing")
)

// Code returns the taxonomy code of err, or "" when err carries none.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsTransport(err error) bool { return Code(err) == CodeTransport }

func IsProtocol(err error) bool { return Code(err) == CodeProtocol }

func IsLogic(err error) bool { return Code(err) == CodeLogic }
