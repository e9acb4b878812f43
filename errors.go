package sndfile

/*
#include <sndfile.h>
*/
import "C"
import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches exactly one of
// these with errors.Is.
var (
	// ErrUnrecognisedFormat means libsndfile could not determine or accept the format.
	ErrUnrecognisedFormat = errors.New("unrecognised format")
	// ErrSystem means a host I/O failure was reported through libsndfile.
	ErrSystem = errors.New("system error")
	// ErrMalformedFile means the container content is structurally invalid.
	ErrMalformedFile = errors.New("malformed file")
	// ErrUnsupportedEncoding means the combination was rejected on encoding grounds.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	// ErrInvalidParameter means a parameter failed validation in this package.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInternal covers every other libsndfile error code.
	ErrInternal = errors.New("internal error")
	// ErrIO means the host stream could not be acquired before libsndfile was invoked.
	ErrIO = errors.New("i/o error")
)

var (
	// ErrNotSeekable is returned by operations that need a seekable File.
	ErrNotSeekable = fmt.Errorf("stream is not seekable: %w", ErrInvalidParameter)
	// ErrClosed is returned by operations on a closed File.
	ErrClosed = fmt.Errorf("file already closed: %w", ErrInvalidParameter)
)

// Error describes a failed operation.
type Error struct {
	// Op is the operation that failed, e.g. "open" or "readf_short".
	Op string
	// Code is the libsndfile error code, zero when the failure did not come from libsndfile.
	Code int
	// Msg is the human readable description.
	Msg string
	// Kind is one of the Err* kind sentinels.
	Kind error
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		return fmt.Sprintf("sndfile: %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("sndfile: %s: %v: %s", e.Op, e.Kind, msg)
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// kindForCode maps a libsndfile error code to its kind sentinel.
func kindForCode(code int) error {
	switch code {
	case C.SF_ERR_UNRECOGNISED_FORMAT:
		return ErrUnrecognisedFormat
	case C.SF_ERR_SYSTEM:
		return ErrSystem
	case C.SF_ERR_MALFORMED_FILE:
		return ErrMalformedFile
	case C.SF_ERR_UNSUPPORTED_ENCODING:
		return ErrUnsupportedEncoding
	default:
		return ErrInternal
	}
}

// errorNumber returns the message libsndfile associates with code.
// sf_error_number reads a static table and does not need the global lock.
func errorNumber(code int) string {
	return C.GoString(C.sf_error_number(C.int(code)))
}

// codeError translates a nonzero libsndfile code into an *Error.
// A pending bridge failure takes precedence and is reported as ErrSystem.
func codeError(op string, code int, cause error) error {
	if cause != nil {
		return &Error{Op: op, Code: code, Kind: ErrSystem, Err: cause}
	}
	if code == C.SF_ERR_NO_ERROR {
		// libsndfile signalled failure without setting a code.
		return &Error{Op: op, Kind: ErrInternal, Msg: "failed without an error code"}
	}
	return &Error{Op: op, Code: code, Kind: kindForCode(code), Msg: errorNumber(code)}
}

func invalidParameter(op, format string, args ...any) error {
	return &Error{Op: op, Kind: ErrInvalidParameter, Msg: fmt.Sprintf(format, args...)}
}
